package repositories

import (
	"time"

	"github.com/zidan444/blog-app/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	// List returns every post, newest first.
	List() ([]*models.Post, error)
	// Update replaces the title, content, image and categories of an existing
	// post. Author, likes, comments and creation time are never touched.
	Update(post *models.Post) error
	Delete(id int) error
	ToggleLike(postID, userID int) (*models.Post, bool, error)
	AddComment(postID int, comment *models.Comment) (*models.Post, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// RevocationRepository remembers revoked token IDs until they would have expired anyway.
type RevocationRepository interface {
	Revoke(tokenID string, until time.Time) error
	IsRevoked(tokenID string) (bool, error)
}
