package mock

import (
	"strings"
	"sync"
	"time"

	"github.com/zidan444/blog-app/app/models"
	"github.com/zidan444/blog-app/app/repositories"
)

type PostRepository struct {
	posts  map[int]*models.Post
	nextID int
	mutex  sync.RWMutex
}

type UserRepository struct {
	users  map[int]*models.User
	nextID int
	mutex  sync.RWMutex
}

type RevocationRepository struct {
	revoked map[string]time.Time
	mutex   sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int]*models.Post),
		nextID: 1,
	}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

func NewRevocationRepository() *RevocationRepository {
	return &RevocationRepository{revoked: make(map[string]time.Time)}
}

// clonePost copies a post so callers never share memory with the store,
// matching the behaviour of the badger implementation.
func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Categories = append([]string{}, p.Categories...)
	c.Likes = append([]int{}, p.Likes...)
	c.Comments = append([]models.Comment{}, p.Comments...)
	return &c
}

// PostRepository implementation
func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return err
	}
	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return clonePost(post), nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored, exists := m.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	updated := clonePost(stored)
	updated.Title = post.Title
	updated.Content = post.Content
	updated.Image = post.Image
	updated.Categories = append([]string{}, post.Categories...)
	updated.Touch()
	if err := updated.Validate(); err != nil {
		return err
	}
	m.posts[post.ID] = updated
	*post = *clonePost(updated)
	return nil
}

func (m *PostRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) List() ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	for _, post := range m.posts {
		posts = append(posts, clonePost(post))
	}
	repositories.SortNewestFirst(posts)
	return posts, nil
}

func (m *PostRepository) ToggleLike(postID, userID int) (*models.Post, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post, exists := m.posts[postID]
	if !exists {
		return nil, false, repositories.ErrNotFound
	}
	liked := post.ToggleLike(userID)
	post.Touch()
	return clonePost(post), liked, nil
}

func (m *PostRepository) AddComment(postID int, comment *models.Comment) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post, exists := m.posts[postID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	if err := post.AddComment(comment); err != nil {
		return nil, err
	}
	post.Touch()
	return clonePost(post), nil
}

// UserRepository implementation
func (m *UserRepository) Create(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return err
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return &repositories.DuplicateError{Field: "email"}
		}
		if strings.EqualFold(existing.Username, user.Username) {
			return &repositories.DuplicateError{Field: "username"}
		}
	}
	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	c := *user
	return &c, nil
}

func (m *UserRepository) GetByEmail(email string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	email = models.NormalizeEmail(email)
	for _, user := range m.users {
		if user.Email == email {
			c := *user
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// Count returns the number of stored users.
func (m *UserRepository) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.users)
}

// RevocationRepository implementation
func (m *RevocationRepository) Revoke(tokenID string, until time.Time) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if time.Until(until) <= 0 {
		return nil
	}
	m.revoked[tokenID] = until
	return nil
}

func (m *RevocationRepository) IsRevoked(tokenID string) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	until, ok := m.revoked[tokenID]
	return ok && time.Now().Before(until), nil
}

var (
	_ repositories.PostRepository       = (*PostRepository)(nil)
	_ repositories.UserRepository       = (*UserRepository)(nil)
	_ repositories.RevocationRepository = (*RevocationRepository)(nil)
)
