package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

var testCfg = JWTConfig{SigningKey: []byte("test-secret"), TTL: time.Hour}

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(testCfg, "nurse1", "nurse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken(testCfg, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "nurse1" {
		t.Errorf("expected subject nurse1, got %s", claims.Subject)
	}
	if claims.Role != "nurse" {
		t.Errorf("expected role nurse, got %s", claims.Role)
	}
}

func TestParseToken_WrongKey(t *testing.T) {
	token, err := IssueToken(testCfg, "nurse1", "nurse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := JWTConfig{SigningKey: []byte("other-secret"), TTL: time.Hour}
	if _, err := ParseToken(bad, token); err == nil {
		t.Error("expected error for token signed with different key")
	}
}

func TestParseToken_Expired(t *testing.T) {
	expired := JWTConfig{SigningKey: testCfg.SigningKey, TTL: -time.Minute}
	token, err := IssueToken(expired, "nurse1", "nurse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseToken(testCfg, token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/P1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTMiddleware(testCfg, nil)
	err := mw(func(c echo.Context) error { return nil })(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_SetsContext(t *testing.T) {
	e := echo.New()
	token, _ := IssueToken(testCfg, "drsmith", "physician")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/P1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTMiddleware(testCfg, nil)
	err := mw(func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserFromContext(ctx) != "drsmith" {
			t.Errorf("expected user drsmith, got %s", UserFromContext(ctx))
		}
		if RoleFromContext(ctx) != "physician" {
			t.Errorf("expected role physician, got %s", RoleFromContext(ctx))
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJWTMiddleware_Skipper(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := JWTMiddleware(testCfg, DefaultSkipper)
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected login path to skip auth")
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	cases := []struct {
		role     string
		required []string
		allowed  bool
	}{
		{"physician", []string{"physician"}, true},
		{"nurse", []string{"physician"}, false},
		{"admin", []string{"physician"}, true},
		{"nurse", []string{"nurse", "physician"}, true},
		{"", []string{"nurse"}, false},
	}

	for _, tc := range cases {
		token, _ := IssueToken(testCfg, "u", tc.role)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := JWTMiddleware(testCfg, nil)(RequireRole(tc.required...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}))
		err := handler(c)

		if tc.allowed && err != nil {
			t.Errorf("role %q with required %v: unexpected error %v", tc.role, tc.required, err)
		}
		if !tc.allowed {
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusForbidden {
				t.Errorf("role %q with required %v: expected 403, got %v", tc.role, tc.required, err)
			}
		}
	}
}
