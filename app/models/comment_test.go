package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name:    "valid comment",
			comment: &Comment{ID: 1, Text: "Nice post", UserID: 1, CreatedAt: time.Now()},
			wantErr: false,
		},
		{
			name:    "empty text",
			comment: &Comment{ID: 1, UserID: 1, CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "missing commenter",
			comment: &Comment{ID: 1, Text: "Nice post", CreatedAt: time.Now()},
			wantErr: true,
		},
		{
			name:    "zero creation time",
			comment: &Comment{ID: 1, Text: "Nice post", UserID: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentBeforeCreate(t *testing.T) {
	comment := &Comment{Text: "Test Comment", UserID: 1}

	assert.True(t, comment.CreatedAt.IsZero())
	comment.BeforeCreate()
	assert.False(t, comment.CreatedAt.IsZero())
}
