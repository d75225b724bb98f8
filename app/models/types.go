package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// User represents a registered account.
type User struct {
	ID           int       `json:"id" validate:"gte=0"`
	Username     string    `json:"username" validate:"required,min=2,max=50"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"password_hash" validate:"required"`
	CreatedAt    time.Time `json:"created_at"`
}

// Post represents a blog post with its likes and comments embedded.
type Post struct {
	ID         int       `json:"id" validate:"gte=0"`
	Title      string    `json:"title" validate:"required,max=200"`
	Content    string    `json:"content" validate:"required"`
	Image      string    `json:"image,omitempty"`
	Categories []string  `json:"categories" validate:"dive,required"`
	AuthorID   int       `json:"author_id" validate:"gt=0"`
	Likes      []int     `json:"likes"`
	Comments   []Comment `json:"comments" validate:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Comment is an append-only remark left on a post.
type Comment struct {
	ID        int       `json:"id" validate:"gte=0"`
	Text      string    `json:"text" validate:"required"`
	UserID    int       `json:"user_id" validate:"gt=0"`
	CreatedAt time.Time `json:"created_at"`
}
