package services

import (
	"errors"
	"strings"

	"github.com/zidan444/blog-app/app/models"
	"github.com/zidan444/blog-app/app/repositories"
)

// UnknownAuthor is shown when a post or comment refers to a missing user.
const UnknownAuthor = "unknown"

// PostInput holds the editable fields of a post.
type PostInput struct {
	Title      string   `validate:"required,max=200"`
	Content    string   `validate:"required"`
	Categories []string `validate:"dive,required"`
	Image      string
}

// PostView is a post with usernames resolved for display.
type PostView struct {
	*models.Post
	AuthorName string        `json:"author_name"`
	Comments   []CommentView `json:"comments"`
}

// CommentView is a comment with its author's username resolved.
type CommentView struct {
	models.Comment
	UserName string `json:"user_name"`
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

func (in *PostInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if in.Categories == nil {
		in.Categories = []string{}
	}
	if err := validate.Struct(in); err != nil {
		return validationError(err)
	}
	return nil
}

// CreatePost creates a new post authored by authorID
func (s *PostService) CreatePost(authorID int, in PostInput) (*models.Post, error) {
	if authorID <= 0 {
		return nil, ErrNotAuthorized
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		Categories: in.Categories,
		Image:      in.Image,
		AuthorID:   authorID,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, validationError(err)
	}
	return post, nil
}

// ListPosts returns every post newest-first with author names resolved
func (s *PostService) ListPosts() ([]*PostView, error) {
	posts, err := s.postRepo.List()
	if err != nil {
		return nil, err
	}

	names := newNameResolver(s.userRepo)
	views := make([]*PostView, 0, len(posts))
	for _, post := range posts {
		view, err := newPostView(post, names)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetPost retrieves a post with its author and commenters resolved
func (s *PostService) GetPost(id int) (*PostView, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return newPostView(post, newNameResolver(s.userRepo))
}

// GetPostForEdit retrieves a post for its owner
func (s *PostService) GetPostForEdit(id, userID int) (*models.Post, error) {
	return s.owned(id, userID)
}

// UpdatePost replaces the editable fields of an owned post. The stored image
// is kept when in.Image is empty. It returns the updated post and the image
// reference it replaced, if any.
func (s *PostService) UpdatePost(id, userID int, in PostInput) (*models.Post, string, error) {
	existing, err := s.owned(id, userID)
	if err != nil {
		return nil, "", err
	}
	if err := in.normalize(); err != nil {
		return nil, "", err
	}

	replaced := ""
	image := existing.Image
	if in.Image != "" && in.Image != existing.Image {
		replaced = existing.Image
		image = in.Image
	}

	post := &models.Post{
		ID:         id,
		Title:      in.Title,
		Content:    in.Content,
		Categories: in.Categories,
		Image:      image,
	}
	if err := s.postRepo.Update(post); err != nil {
		return nil, "", validationError(err)
	}
	return post, replaced, nil
}

// DeletePost removes an owned post and returns what was deleted
func (s *PostService) DeletePost(id, userID int) (*models.Post, error) {
	post, err := s.owned(id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Delete(id); err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleLike flips userID's like on a post and reports whether it is now liked
func (s *PostService) ToggleLike(postID, userID int) (bool, error) {
	if userID <= 0 {
		return false, ErrNotAuthorized
	}
	_, liked, err := s.postRepo.ToggleLike(postID, userID)
	return liked, err
}

func (s *PostService) owned(id, userID int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !post.IsOwnedBy(userID) {
		return nil, ErrNotAuthorized
	}
	return post, nil
}

func newPostView(post *models.Post, names *nameResolver) (*PostView, error) {
	author, err := names.lookup(post.AuthorID)
	if err != nil {
		return nil, err
	}
	comments, err := commentViews(post.Comments, names)
	if err != nil {
		return nil, err
	}
	return &PostView{Post: post, AuthorName: author, Comments: comments}, nil
}

func commentViews(comments []models.Comment, names *nameResolver) ([]CommentView, error) {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		name, err := names.lookup(c.UserID)
		if err != nil {
			return nil, err
		}
		views = append(views, CommentView{Comment: c, UserName: name})
	}
	return views, nil
}

// nameResolver memoizes username lookups for the duration of one request.
type nameResolver struct {
	users repositories.UserRepository
	cache map[int]string
}

func newNameResolver(users repositories.UserRepository) *nameResolver {
	return &nameResolver{users: users, cache: make(map[int]string)}
}

func (n *nameResolver) lookup(id int) (string, error) {
	if name, ok := n.cache[id]; ok {
		return name, nil
	}
	name := UnknownAuthor
	user, err := n.users.GetByID(id)
	switch {
	case err == nil:
		name = user.Username
	case !errors.Is(err, repositories.ErrNotFound):
		return "", err
	}
	n.cache[id] = name
	return name, nil
}
