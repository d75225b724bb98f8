package services

import (
	"strings"

	"github.com/zidan444/blog-app/app/models"
	"github.com/zidan444/blog-app/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentService {
	return &CommentService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// AddComment appends a comment by userID to a post. A missing post is
// reported before blank text, which is rejected with a ValidationError.
func (s *CommentService) AddComment(postID, userID int, text string) (*models.Comment, error) {
	if userID <= 0 {
		return nil, ErrNotAuthorized
	}
	text = strings.TrimSpace(text)
	if text == "" {
		if _, err := s.postRepo.GetByID(postID); err != nil {
			return nil, err
		}
		return nil, &ValidationError{Field: "text", Message: "Comment cannot be empty"}
	}

	comment := &models.Comment{Text: text, UserID: userID}
	if _, err := s.postRepo.AddComment(postID, comment); err != nil {
		return nil, validationError(err)
	}
	return comment, nil
}

// ListPostComments retrieves all comments for a post in insertion order
func (s *CommentService) ListPostComments(postID int) ([]CommentView, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	return commentViews(post.Comments, newNameResolver(s.userRepo))
}
