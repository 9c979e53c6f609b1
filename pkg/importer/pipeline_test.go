package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/omnicontacts/pkg/contacts"
)

func namedContact(name, email string) contacts.Contact {
	c := contacts.NewContact()
	c.Name = name
	c.PrimaryEmail = email
	return c
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("deduplicates the adapter output", func(t *testing.T) {
		t.Parallel()

		user := &contacts.User{Contact: contacts.NewContact()}
		user.Name = "Account Owner"

		adapter := &MockAdapter{}
		adapter.On("ProviderID").Return("mock").Maybe()
		adapter.On("FetchProfile", mock.Anything, "at", "Bearer").Return(user, nil).Once()
		adapter.On("FetchContacts", mock.Anything, "at", "Bearer").Return([]contacts.Contact{
			namedContact("Ann", "ann@example.com"),
			namedContact("Ann Again", "ann@example.com"),
			namedContact("Bob", "bob@example.com"),
		}, nil).Once()

		gotUser, list, err := NewPipeline().Run(context.Background(), adapter, "at", "Bearer")
		require.NoError(t, err)
		assert.Equal(t, user, gotUser)
		require.Len(t, list, 2)
		assert.Equal(t, "Ann", list[0].Name)
		assert.Equal(t, "Bob", list[1].Name)
		adapter.AssertExpectations(t)
	})

	t.Run("nil profile is not fatal", func(t *testing.T) {
		t.Parallel()

		adapter := &MockAdapter{}
		adapter.On("ProviderID").Return("mock").Maybe()
		adapter.On("FetchProfile", mock.Anything, "at", "Bearer").Return((*contacts.User)(nil), nil).Once()
		adapter.On("FetchContacts", mock.Anything, "at", "Bearer").Return([]contacts.Contact{
			namedContact("Ann", "ann@example.com"),
		}, nil).Once()

		user, list, err := NewPipeline().Run(context.Background(), adapter, "at", "Bearer")
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.Len(t, list, 1)
	})

	t.Run("profile error aborts before contacts are fetched", func(t *testing.T) {
		t.Parallel()

		adapter := &MockAdapter{}
		adapter.On("ProviderID").Return("mock").Maybe()
		adapter.On("FetchProfile", mock.Anything, "at", "Bearer").
			Return((*contacts.User)(nil), errors.Join(ErrTransportFailure, errors.New("boom"))).Once()

		user, list, err := NewPipeline().Run(context.Background(), adapter, "at", "Bearer")
		assert.ErrorIs(t, err, ErrTransportFailure)
		assert.Nil(t, user)
		assert.Nil(t, list)
		adapter.AssertNotCalled(t, "FetchContacts", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("contacts error yields no partial list", func(t *testing.T) {
		t.Parallel()

		adapter := &MockAdapter{}
		adapter.On("ProviderID").Return("mock").Maybe()
		adapter.On("FetchProfile", mock.Anything, "at", "Bearer").Return((*contacts.User)(nil), nil).Once()
		adapter.On("FetchContacts", mock.Anything, "at", "Bearer").
			Return([]contacts.Contact(nil), ErrMalformedResponse).Once()

		user, list, err := NewPipeline().Run(context.Background(), adapter, "at", "Bearer")
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.Nil(t, user)
		assert.Nil(t, list)
	})
}
