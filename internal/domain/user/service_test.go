package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sepsisdss/sepsisdss/internal/platform/auth"
)

// -- Mock Repository --

type mockRepo struct {
	users map[string]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[string]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	if _, exists := m.users[u.Username]; exists {
		return fmt.Errorf("duplicate username")
	}
	u.CreatedAt = time.Now()
	m.users[u.Username] = u
	return nil
}

func (m *mockRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

// failingRepo simulates the database being unreachable.
type failingRepo struct{}

func (failingRepo) Create(context.Context, *User) error { return fmt.Errorf("connection refused") }

func (failingRepo) GetByUsername(context.Context, string) (*User, error) {
	return nil, fmt.Errorf("connection refused")
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo, auth.JWTConfig{SigningKey: []byte("test-secret"), TTL: time.Hour})
	return svc, repo
}

func TestCreateUser_And_Authenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "nurse1", "s3cret-password", "nurse"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, role, err := svc.Authenticate(ctx, "nurse1", "s3cret-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if role != "nurse" {
		t.Errorf("expected role nurse, got %s", role)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "nurse1", "s3cret-password", "nurse"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err := svc.Authenticate(ctx, "nurse1", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Authenticate(context.Background(), "ghost", "whatever-pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_RepoFailureIsNotCredentialError(t *testing.T) {
	svc := NewService(failingRepo{}, auth.JWTConfig{SigningKey: []byte("test-secret"), TTL: time.Hour})

	_, _, err := svc.Authenticate(context.Background(), "nurse1", "s3cret-password")
	if err == nil {
		t.Fatal("expected error when the repository is down")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("a storage failure must not read as bad credentials, got %v", err)
	}
}

func TestAuthenticate_TrimsPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "nurse1", "s3cret-password", "nurse"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := svc.Authenticate(ctx, "nurse1", "  s3cret-password  "); err != nil {
		t.Errorf("expected surrounding whitespace to be ignored, got %v", err)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "", "s3cret-password", "nurse"); err == nil {
		t.Error("expected error for empty username")
	}
	if err := svc.CreateUser(ctx, "u", "short", "nurse"); err == nil {
		t.Error("expected error for short password")
	}
	if err := svc.CreateUser(ctx, "u", "s3cret-password", "janitor"); err == nil {
		t.Error("expected error for invalid role")
	}
}
