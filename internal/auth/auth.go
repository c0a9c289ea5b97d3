package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"showlog/internal/store"
)

var (
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized indicates an invalid or missing token.
	ErrUnauthorized = errors.New("unauthorized")

	dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")
)

// Store captures the persistence the identity provider needs.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash, displayName string) (int64, error)
	CredentialsByEmail(ctx context.Context, email string) (int64, []byte, error)
}

// Service verifies credentials and issues signed tokens. Everything above
// it trusts the user id a verified token carries.
type Service struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// New wires an identity Service backed by the given Store.
func New(st Store, secret string, ttl time.Duration) *Service {
	return &Service{store: st, secret: []byte(secret), ttl: ttl}
}

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// SignUp registers a new account and returns the user id and a session
// token. The display name is derived from the email local-part.
func (s *Service) SignUp(ctx context.Context, email, password string) (int64, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return 0, "", fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return 0, "", fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.store.CreateUser(ctx, email, string(hash), DisplayNameFromEmail(email))
	if err != nil {
		return 0, "", err
	}

	token, err := s.issue(userID, email)
	if err != nil {
		return 0, "", err
	}
	return userID, token, nil
}

// SignIn validates credentials and returns the user id and a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (int64, string, error) {
	userID, hash, err := s.store.CredentialsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Burn comparable time so missing accounts are not
			// distinguishable by response latency.
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return 0, "", ErrInvalidCredentials
		}
		return 0, "", err
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return 0, "", ErrInvalidCredentials
	}

	token, err := s.issue(userID, email)
	if err != nil {
		return 0, "", err
	}
	return userID, token, nil
}

// Verify parses a token and returns the caller's user id and email.
func (s *Service) Verify(tokenString string) (int64, string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", ErrUnauthorized
	}

	c, ok := parsed.Claims.(*claims)
	if !ok {
		return 0, "", ErrUnauthorized
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, "", ErrUnauthorized
	}
	return userID, c.Email, nil
}

func (s *Service) issue(userID int64, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// DisplayNameFromEmail derives the default display name from the email
// local-part.
func DisplayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
