package importer

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/omnicontacts/pkg/contacts"
)

// Endpoints declares where a provider's OAuth2 endpoints live. The flow
// builds the authorization and token-exchange URLs from these; adapters
// never implement that logic themselves.
type Endpoints struct {
	AuthHost      string
	AuthorizePath string
	TokenPath     string
}

// ProviderAdapter is the per-provider contract. Adding a provider means
// supplying the endpoint fields, a scope string and the two fetch/normalize
// operations; the flow and the pipeline never change.
type ProviderAdapter interface {
	// ProviderID returns the stable identifier used in routes and logs.
	ProviderID() string

	// Endpoints returns the provider's OAuth2 endpoint locations.
	Endpoints() Endpoints

	// Scope returns the space-separated capability list requested during
	// authorization. Adapters ship a default and accept an override at
	// construction time.
	Scope() string

	// FetchProfile calls the provider's self endpoint and maps the response
	// into a canonical user. It returns (nil, nil) only when the provider
	// genuinely returns no body; transport failures are errors.
	FetchProfile(ctx context.Context, accessToken, tokenType string) (*contacts.User, error)

	// FetchContacts issues the provider's list call(s) and returns canonical
	// records in provider-list order, not yet deduplicated.
	FetchContacts(ctx context.Context, accessToken, tokenType string) ([]contacts.Contact, error)
}

// authHeader builds the Authorization header all authenticated provider
// calls carry. An empty token type defaults to Bearer.
func authHeader(tokenType, accessToken string) http.Header {
	if tokenType == "" {
		tokenType = "Bearer"
	}
	h := http.Header{}
	h.Set("Authorization", tokenType+" "+accessToken)
	return h
}

// typeOrOther maps an absent provider label to the "other" convention so
// canonical entries always carry a label.
func typeOrOther(t string) string {
	if t == "" {
		return "other"
	}
	return t
}
