package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.auth.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret123", Name: "A", PhoneNumber: "+1000"})
	require.NoError(t, err)

	got, err := f.users.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: " Alice "})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "+1000", got.PhoneNumber)
	assert.Equal(t, u.Email, got.Email)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))

	_, err = f.users.UpdateProfile(ctx, 12345, UpdateProfileInput{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	idx := newFakeIndex()
	f.users.Index = idx
	ctx := context.Background()
	u, err := f.auth.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = f.posts.Create(ctx, u.ID, PostInput{Title: "bye"})
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteAccount(ctx, u.ID))
	assert.Equal(t, []int64{u.ID}, idx.removedUser)

	list, err := f.posts.List(ctx, u.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.auth.Login(ctx, "a@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	// the email is free again
	_, err = f.auth.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.users.DeleteAccount(ctx, u.ID), ErrNotFound)
}
