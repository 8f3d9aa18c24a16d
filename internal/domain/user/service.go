package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sepsisdss/sepsisdss/internal/platform/auth"
)

// ErrInvalidCredentials is returned for an unknown user or wrong password.
// The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	repo   Repository
	jwtCfg auth.JWTConfig
}

func NewService(repo Repository, jwtCfg auth.JWTConfig) *Service {
	return &Service{repo: repo, jwtCfg: jwtCfg}
}

// CreateUser hashes the password and stores a new user.
func (s *Service) CreateUser(ctx context.Context, username, password, role string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if !validRoles[role] {
		return fmt.Errorf("invalid role: %s", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, &User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
}

// Authenticate verifies credentials and issues a session token.
func (s *Service) Authenticate(ctx context.Context, username, password string) (token, role string, err error) {
	password = strings.TrimSpace(password)

	u, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrInvalidCredentials
	}
	if err != nil {
		return "", "", fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	token, err = auth.IssueToken(s.jwtCfg, u.Username, u.Role)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}
	return token, u.Role, nil
}
