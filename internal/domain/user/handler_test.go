package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) (*Handler, *echo.Echo) {
	t.Helper()
	svc, _ := newTestService()
	if err := svc.CreateUser(context.Background(), "drsmith", "s3cret-password", "physician"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewHandler(svc), echo.New()
}

func TestHandler_Login(t *testing.T) {
	h, e := newTestHandler(t)

	body := `{"username":"drsmith","password":"s3cret-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Error("expected token in response")
	}
	if resp.Role != "physician" {
		t.Errorf("expected physician, got %s", resp.Role)
	}
}

func TestHandler_Login_BadCredentials(t *testing.T) {
	h, e := newTestHandler(t)

	body := `{"username":"drsmith","password":"nope-nope"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}
