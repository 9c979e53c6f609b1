package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/omnicontacts/pkg/contacts"
	"github.com/dmitrymomot/omnicontacts/pkg/importer"
	"github.com/dmitrymomot/omnicontacts/pkg/web"
)

type stubAdapter struct {
	id   string
	ep   importer.Endpoints
	user *contacts.User
	list []contacts.Contact
	err  error
}

func (a *stubAdapter) ProviderID() string            { return a.id }
func (a *stubAdapter) Endpoints() importer.Endpoints { return a.ep }
func (a *stubAdapter) Scope() string                 { return "contacts.read" }

func (a *stubAdapter) FetchProfile(context.Context, string, string) (*contacts.User, error) {
	return a.user, nil
}

func (a *stubAdapter) FetchContacts(context.Context, string, string) ([]contacts.Contact, error) {
	return a.list, a.err
}

// newGatewayHarness wires a gateway to a fake TLS token endpoint. The
// returned handler routes token exchanges through the fake server's client.
func newGatewayHarness(t *testing.T, adapter *stubAdapter, onImport web.ImportHandler) http.Handler {
	t.Helper()

	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer"}`))
	}))
	t.Cleanup(ts.Close)

	adapter.ep = importer.Endpoints{
		AuthHost:      strings.TrimPrefix(ts.URL, "https://"),
		AuthorizePath: "/authorize",
		TokenPath:     "/token",
	}

	g := web.New(web.Config{}, nil, onImport)
	g.Register(adapter, importer.FlowConfig{
		ClientID:     "cid",
		ClientSecret: "sec",
		RedirectURL:  "https://app.example.com/contacts/stub/callback",
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), oauth2.HTTPClient, ts.Client())
		g.ServeHTTP(w, r.WithContext(ctx))
	})
}

// beginFlow hits the start route and extracts the state token from the
// provider redirect.
func beginFlow(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/stub", nil))
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestGateway_Begin(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{id: "stub"}
	h := newGatewayHarness(t, adapter, func(w http.ResponseWriter, _ *http.Request, _ *contacts.User, _ []contacts.Contact) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("redirects to the provider with client params", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/stub", nil))
		require.Equal(t, http.StatusFound, rec.Code)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, adapter.ep.AuthHost, loc.Host)
		assert.Equal(t, "/authorize", loc.Path)
		assert.Equal(t, "cid", loc.Query().Get("client_id"))
		assert.Equal(t, "contacts.read", loc.Query().Get("scope"))
		assert.NotEmpty(t, loc.Query().Get("state"))
	})

	t.Run("unknown provider is a 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("every run gets a distinct state token", func(t *testing.T) {
		assert.NotEqual(t, beginFlow(t, h), beginFlow(t, h))
	})
}

func TestGateway_Callback(t *testing.T) {
	t.Parallel()

	t.Run("completes the import and hands over the records", func(t *testing.T) {
		t.Parallel()

		owner := &contacts.User{Contact: contacts.NewContact()}
		owner.Name = "Account Owner"
		ann := contacts.NewContact()
		ann.Name = "Ann"
		ann.PrimaryEmail = "ann@example.com"
		annAgain := contacts.NewContact()
		annAgain.Name = "Ann Again"
		annAgain.PrimaryEmail = "ann@example.com"

		adapter := &stubAdapter{id: "stub", user: owner, list: []contacts.Contact{ann, annAgain}}
		h := newGatewayHarness(t, adapter, func(w http.ResponseWriter, _ *http.Request, user *contacts.User, list []contacts.Contact) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"user": user.Name, "count": len(list)})
		})

		state := beginFlow(t, h)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/contacts/stub/callback?state="+url.QueryEscape(state)+"&code=good-code", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"user":"Account Owner","count":1}`, rec.Body.String())
	})

	t.Run("state token is single use", func(t *testing.T) {
		t.Parallel()

		adapter := &stubAdapter{id: "stub", list: []contacts.Contact{}}
		h := newGatewayHarness(t, adapter, func(w http.ResponseWriter, _ *http.Request, _ *contacts.User, _ []contacts.Contact) {
			w.WriteHeader(http.StatusOK)
		})

		state := beginFlow(t, h)
		target := "/contacts/stub/callback?state=" + url.QueryEscape(state) + "&code=good-code"

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown state is a 400", func(t *testing.T) {
		t.Parallel()

		h := newGatewayHarness(t, &stubAdapter{id: "stub"}, func(w http.ResponseWriter, _ *http.Request, _ *contacts.User, _ []contacts.Contact) {
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/stub/callback?state=forged&code=x", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider denial is a 403", func(t *testing.T) {
		t.Parallel()

		h := newGatewayHarness(t, &stubAdapter{id: "stub"}, func(w http.ResponseWriter, _ *http.Request, _ *contacts.User, _ []contacts.Contact) {
			w.WriteHeader(http.StatusOK)
		})

		state := beginFlow(t, h)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/contacts/stub/callback?state="+url.QueryEscape(state)+"&error=access_denied", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejected code is a 401", func(t *testing.T) {
		t.Parallel()

		h := newGatewayHarness(t, &stubAdapter{id: "stub"}, func(w http.ResponseWriter, _ *http.Request, _ *contacts.User, _ []contacts.Contact) {
			w.WriteHeader(http.StatusOK)
		})

		state := beginFlow(t, h)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/contacts/stub/callback?state="+url.QueryEscape(state)+"&code=expired-code", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
