package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token revoked")
)

// Identity is the authenticated user attached to a request.
type Identity struct {
	UserID   int    `json:"id"`
	Username string `json:"username"`
}

// Claims carried by a signed token. The subject holds the user ID.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenLifetime is how long an issued token stays valid.
const TokenLifetime = 24 * time.Hour

// Revoker records tokens that were logged out before they expired.
type Revoker interface {
	Revoke(tokenID string, until time.Time) error
	IsRevoked(tokenID string) (bool, error)
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret  []byte
	ttl     time.Duration
	revoked Revoker
	now     func() time.Time
}

// NewTokenIssuer creates an issuer. revoked may be nil, in which case logout
// only clears the client cookie.
func NewTokenIssuer(secret string, ttl time.Duration, revoked Revoker) *TokenIssuer {
	return &TokenIssuer{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue signs a token for id and returns it with its expiry.
func (ti *TokenIssuer) Issue(id Identity) (string, time.Time, error) {
	now := ti.now()
	expires := now.Add(ti.ttl)
	claims := Claims{
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(id.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

func (ti *TokenIssuer) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Verify checks the signature, expiry and revocation state of token.
func (ti *TokenIssuer) Verify(token string) (Identity, error) {
	claims, err := ti.parse(token)
	if err != nil {
		return Identity{}, err
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return Identity{}, ErrInvalidToken
	}

	if ti.revoked != nil && claims.ID != "" {
		revoked, err := ti.revoked.IsRevoked(claims.ID)
		if err != nil {
			return Identity{}, fmt.Errorf("failed to check revocation: %w", err)
		}
		if revoked {
			return Identity{}, ErrRevokedToken
		}
	}

	return Identity{UserID: userID, Username: claims.Username}, nil
}

// Revoke invalidates token until its natural expiry. Tokens that fail to
// parse are already unusable and are ignored.
func (ti *TokenIssuer) Revoke(token string) error {
	if ti.revoked == nil {
		return nil
	}
	claims, err := ti.parse(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return ti.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
}
