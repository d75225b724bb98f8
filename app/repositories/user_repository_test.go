package repositories

import (
	"testing"
	"time"

	"github.com/zidan444/blog-app/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	repo := NewBadgerUserRepository(newTestDB(t))

	alice := &models.User{Username: "alice", Email: "Alice@Example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(alice))
	assert.Equal(t, 1, alice.ID)
	assert.Equal(t, "alice@example.com", alice.Email)

	t.Run("get by id", func(t *testing.T) {
		user, err := repo.GetByID(alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	t.Run("get by email is case-insensitive", func(t *testing.T) {
		user, err := repo.GetByEmail(" ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail("nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(404)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(&models.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "hash"})
		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Create(&models.User{Username: "Alice", Email: "other@example.com", PasswordHash: "hash"})
		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "username", dup.Field)
	})

	t.Run("duplicates never create records", func(t *testing.T) {
		bob := &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "hash"}
		require.NoError(t, repo.Create(bob))
		assert.Equal(t, 2, bob.ID, "failed inserts must not consume IDs")
	})

	t.Run("invalid user", func(t *testing.T) {
		err := repo.Create(&models.User{Username: "carol", Email: "not-an-email", PasswordHash: "hash"})
		assert.Error(t, err)
	})
}

func TestRevocationRepository(t *testing.T) {
	repo := NewBadgerRevocationRepository(newTestDB(t))

	revoked, err := repo.IsRevoked("abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke("abc", time.Now().Add(time.Hour)))
	revoked, err = repo.IsRevoked("abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, repo.Revoke("expired", time.Now().Add(-time.Minute)))
	revoked, err = repo.IsRevoked("expired")
	require.NoError(t, err)
	assert.False(t, revoked, "already expired tokens need no entry")
}
