package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zidan444/blog-app/app/auth"
	"github.com/zidan444/blog-app/app/models"
	"github.com/zidan444/blog-app/app/repositories"

	"golang.org/x/crypto/bcrypt"
)

// SignupInput is the data submitted by the signup form.
type SignupInput struct {
	Username string `validate:"required,min=2,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

// LoginInput is the data submitted by the login form.
type LoginInput struct {
	Email    string
	Password string
}

// Session is the result of a successful signup or login.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// AuthService handles account creation and token issuance
type AuthService struct {
	users    repositories.UserRepository
	tokens   *auth.TokenIssuer
	hashCost int
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

// SetHashCost overrides the bcrypt cost, used by tests to keep hashing fast
func (s *AuthService) SetHashCost(cost int) {
	s.hashCost = cost
}

// Signup creates an account and logs it in
func (s *AuthService) Signup(in SignupInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = models.NormalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(user); err != nil {
		return nil, validationError(err)
	}

	return s.issue(user)
}

// Login verifies credentials and issues a fresh token
func (s *AuthService) Login(in LoginInput) (*Session, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(in.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Logout revokes token for the rest of its lifetime
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.tokens.Revoke(token)
}

// Authenticate resolves a token to the identity it was issued for
func (s *AuthService) Authenticate(token string) (auth.Identity, error) {
	return s.tokens.Verify(token)
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, expires, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: expires}, nil
}
