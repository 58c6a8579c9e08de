package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocoder89/fintrack/internal/domain/user"
)

func TestUsersCreateAndGet(t *testing.T) {
	r := NewUsersRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, "alice", "hash1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "alice", created.Username)

	got, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "hash1", got.PasswordHash)

	_, err = r.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUsersDuplicateUsername(t *testing.T) {
	r := NewUsersRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, "alice", "hash1")
	require.NoError(t, err)

	_, err = r.Create(ctx, "alice", "hash2")
	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestUsersUpdatePasswordHash(t *testing.T) {
	r := NewUsersRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, "alice", "legacy-digest")
	require.NoError(t, err)

	require.NoError(t, r.UpdatePasswordHash(ctx, created.ID, "$2a$10$newhash"))

	got, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$newhash", got.PasswordHash)

	assert.ErrorIs(t, r.UpdatePasswordHash(ctx, 999, "x"), user.ErrNotFound)
}
