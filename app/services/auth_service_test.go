package services

import (
	"testing"
	"time"

	"github.com/zidan444/blog-app/app/auth"
	"github.com/zidan444/blog-app/app/repositories"
	"github.com/zidan444/blog-app/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService() (*AuthService, *mock.UserRepository) {
	users := mock.NewUserRepository()
	tokens := auth.NewTokenIssuer("test-secret", 24*time.Hour, mock.NewRevocationRepository())
	service := NewAuthService(users, tokens)
	service.SetHashCost(bcrypt.MinCost)
	return service, users
}

func TestAuthServiceSignup(t *testing.T) {
	service, users := newTestAuthService()

	session, err := service.Signup(SignupInput{Username: " alice ", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", session.User.Username)
	assert.Equal(t, "alice@example.com", session.User.Email)
	assert.NotEqual(t, "secret1", session.User.PasswordHash)
	assert.NotEmpty(t, session.Token)

	id, err := service.Authenticate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{UserID: session.User.ID, Username: "alice"}, id)

	tests := []struct {
		name  string
		input SignupInput
		field string
	}{
		{"missing username", SignupInput{Email: "x@example.com", Password: "secret1"}, "username"},
		{"bad email", SignupInput{Username: "xavier", Email: "nope", Password: "secret1"}, "email"},
		{"short password", SignupInput{Username: "xavier", Email: "x@example.com", Password: "12345"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Signup(tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("short password message", func(t *testing.T) {
		_, err := service.Signup(SignupInput{Username: "xavier", Email: "x@example.com", Password: "12345"})
		assert.EqualError(t, err, "Password must be at least 6 characters")
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := service.Signup(SignupInput{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, repositories.ErrDuplicate)
		assert.Equal(t, 1, users.Count())
	})
}

func TestAuthServiceLogin(t *testing.T) {
	service, _ := newTestAuthService()
	_, err := service.Signup(SignupInput{Username: "bob", Email: "bob@example.com", Password: "hunter22"})
	require.NoError(t, err)

	session, err := service.Login(LoginInput{Email: "BOB@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "bob", session.User.Username)

	for _, in := range []LoginInput{
		{Email: "bob@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "hunter22"},
		{Email: "", Password: ""},
	} {
		_, err := service.Login(in)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestAuthServiceLogout(t *testing.T) {
	service, _ := newTestAuthService()
	session, err := service.Signup(SignupInput{Username: "carol", Email: "carol@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(session.Token))
	_, err = service.Authenticate(session.Token)
	assert.ErrorIs(t, err, auth.ErrRevokedToken)

	assert.NoError(t, service.Logout(""))
}
