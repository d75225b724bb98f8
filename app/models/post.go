package models

import (
	"errors"
	"strings"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.Likes == nil {
		p.Likes = []int{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// Touch records a write to the post.
func (p *Post) Touch() {
	p.UpdatedAt = time.Now()
}

// IsOwnedBy reports whether userID is the post's author.
func (p *Post) IsOwnedBy(userID int) bool {
	return userID > 0 && p.AuthorID == userID
}

// HasLiked reports whether userID is in the like set.
func (p *Post) HasLiked(userID int) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike removes userID from the like set if present, otherwise adds it.
// It returns true when the post is liked by userID afterwards.
func (p *Post) ToggleLike(userID int) bool {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return false
		}
	}
	p.Likes = append(p.Likes, userID)
	return true
}

// AddComment appends a comment to the post and assigns it the next comment ID
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return err
	}

	maxID := 0
	for _, c := range p.Comments {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	comment.ID = maxID + 1
	p.Comments = append(p.Comments, *comment)
	return nil
}

// CategoryList renders the categories back into the comma-separated form input.
func (p *Post) CategoryList() string {
	return strings.Join(p.Categories, ", ")
}

// ParseCategories splits a comma-separated input into trimmed, non-empty categories.
func ParseCategories(raw string) []string {
	categories := []string{}
	for _, part := range strings.Split(raw, ",") {
		if c := strings.TrimSpace(part); c != "" {
			categories = append(categories, c)
		}
	}
	return categories
}
