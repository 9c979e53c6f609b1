package importer

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/omnicontacts/pkg/contacts"
)

// FlowState names a position in the authorization/import state machine.
type FlowState string

const (
	StateUnauthenticated        FlowState = "unauthenticated"
	StateAuthorizationRequested FlowState = "authorization_requested"
	StateCallbackReceived       FlowState = "callback_received"
	StateAuthenticated          FlowState = "authenticated"
	StateProfileFetched         FlowState = "profile_fetched"
	StateContactsFetched        FlowState = "contacts_fetched"
	StateComplete               FlowState = "complete"
	StateErrored                FlowState = "errored"
)

// FlowConfig holds the OAuth2 client registration for one provider.
type FlowConfig struct {
	ClientID     string `env:"OAUTH_CLIENT_ID,required"`
	ClientSecret string `env:"OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string `env:"OAUTH_REDIRECT_URL,required"`
}

// Token is the credential pair obtained from the token exchange.
type Token struct {
	AccessToken string
	TokenType   string
}

// Flow drives one authorization → callback → exchange → import sequence.
// The sequence is identical for every provider; only the endpoints, scope
// and response shapes vary, and those are adapter-supplied configuration.
//
// A Flow covers a single run and is not safe for concurrent use.
// Independent runs (different users, different providers) share no state
// and may proceed concurrently on separate Flow values.
type Flow struct {
	adapter ProviderAdapter
	conf    *oauth2.Config
	state   FlowState
	code    string
	token   Token
	err     error
}

// NewFlow binds a provider adapter to a client registration. The scope
// comes from the adapter (including any construction-time override).
func NewFlow(adapter ProviderAdapter, cfg FlowConfig) *Flow {
	ep := adapter.Endpoints()
	return &Flow{
		adapter: adapter,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{adapter.Scope()},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://" + ep.AuthHost + ep.AuthorizePath,
				TokenURL: "https://" + ep.AuthHost + ep.TokenPath,
			},
		},
		state: StateUnauthenticated,
	}
}

// State returns the flow's current position.
func (f *Flow) State() FlowState { return f.state }

// Err returns the error that moved the flow into StateErrored, if any.
func (f *Flow) Err() error { return f.err }

// Token returns the credential pair once the flow is authenticated.
func (f *Flow) Token() Token { return f.token }

// Adapter returns the provider adapter the flow was built with.
func (f *Flow) Adapter() ProviderAdapter { return f.adapter }

// AuthCodeURL builds the provider authorization redirect URL for the given
// CSRF state token. Pure URL construction, no network call.
func (f *Flow) AuthCodeURL(state string) (string, error) {
	if f.state != StateUnauthenticated {
		return "", f.transitionError(StateUnauthenticated)
	}
	f.state = StateAuthorizationRequested
	return f.conf.AuthCodeURL(state), nil
}

// Callback records the provider's redirect. A non-empty errCode means the
// user or the provider declined the grant: the flow moves to StateErrored
// and no token exchange is ever attempted for it.
func (f *Flow) Callback(code, errCode string) error {
	if f.state != StateAuthorizationRequested {
		return f.transitionError(StateAuthorizationRequested)
	}
	if errCode != "" {
		return f.fail(fmt.Errorf("%w: %s", ErrAuthorizationDenied, errCode))
	}
	if code == "" {
		return f.fail(fmt.Errorf("%w: callback carried no authorization code", ErrAuthorizationDenied))
	}
	f.code = code
	f.state = StateCallbackReceived
	return nil
}

// Exchange trades the authorization code for {access_token, token_type} at
// the adapter's token endpoint. Failure is fatal for the run and never
// retried: a fresh authorization cycle is required.
func (f *Flow) Exchange(ctx context.Context) (Token, error) {
	if f.state != StateCallbackReceived {
		return Token{}, f.transitionError(StateCallbackReceived)
	}
	tok, err := f.conf.Exchange(ctx, f.code)
	if err != nil {
		return Token{}, f.fail(errors.Join(ErrTokenExchangeFailed, err))
	}
	f.token = Token{AccessToken: tok.AccessToken, TokenType: tok.Type()}
	f.state = StateAuthenticated
	return f.token, nil
}

// Import runs the contacts import pipeline with the held token, advancing
// through StateProfileFetched and StateContactsFetched to StateComplete.
func (f *Flow) Import(ctx context.Context, p *Pipeline) (*contacts.User, []contacts.Contact, error) {
	if f.state != StateAuthenticated {
		return nil, nil, f.transitionError(StateAuthenticated)
	}
	user, list, err := p.run(ctx, f.adapter, f.token.AccessToken, f.token.TokenType, func(s FlowState) {
		f.state = s
	})
	if err != nil {
		return nil, nil, f.fail(err)
	}
	f.state = StateComplete
	return user, list, nil
}

func (f *Flow) fail(err error) error {
	f.state = StateErrored
	f.err = err
	return err
}

func (f *Flow) transitionError(want FlowState) error {
	// An errored flow stays errored; report the original cause alongside.
	if f.state == StateErrored && f.err != nil {
		return fmt.Errorf("%w: flow errored (%v)", ErrInvalidTransition, f.err)
	}
	return fmt.Errorf("%w: in state %q, want %q", ErrInvalidTransition, f.state, want)
}
