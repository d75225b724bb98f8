package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		user    *User
		wantErr bool
	}{
		{name: "valid user", user: &User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}},
		{name: "bad email", user: &User{Username: "alice", Email: "alice", PasswordHash: "x"}, wantErr: true},
		{name: "short username", user: &User{Username: "a", Email: "a@example.com", PasswordHash: "x"}, wantErr: true},
		{name: "missing hash", user: &User{Username: "alice", Email: "alice@example.com"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserBeforeCreate(t *testing.T) {
	user := &User{Username: "  bob ", Email: " Bob@Example.COM "}
	user.BeforeCreate()

	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())
}
