package importer

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/omnicontacts/pkg/contacts"
)

// MockTransport mocks the outbound HTTPS collaborator.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Get(ctx context.Context, host, path string, query url.Values, header http.Header) ([]byte, error) {
	args := m.Called(ctx, host, path, query, header)
	var body []byte
	if v := args.Get(0); v != nil {
		body = v.([]byte)
	}
	return body, args.Error(1)
}

// MockAdapter mocks a provider adapter for flow and pipeline tests.
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) ProviderID() string {
	return m.Called().String(0)
}

func (m *MockAdapter) Endpoints() Endpoints {
	return m.Called().Get(0).(Endpoints)
}

func (m *MockAdapter) Scope() string {
	return m.Called().String(0)
}

func (m *MockAdapter) FetchProfile(ctx context.Context, accessToken, tokenType string) (*contacts.User, error) {
	args := m.Called(ctx, accessToken, tokenType)
	var u *contacts.User
	if v := args.Get(0); v != nil {
		u = v.(*contacts.User)
	}
	return u, args.Error(1)
}

func (m *MockAdapter) FetchContacts(ctx context.Context, accessToken, tokenType string) ([]contacts.Contact, error) {
	args := m.Called(ctx, accessToken, tokenType)
	var list []contacts.Contact
	if v := args.Get(0); v != nil {
		list = v.([]contacts.Contact)
	}
	return list, args.Error(1)
}

var (
	_ Transport       = (*MockTransport)(nil)
	_ ProviderAdapter = (*MockAdapter)(nil)
)
