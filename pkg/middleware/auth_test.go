package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func echoUserHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r)))
	})
}

func TestAuthSessionCookie(t *testing.T) {
	st := &fakeStore{sessions: map[string]string{"tok-1": "user-1"}}
	auth := NewAuthMiddleware(st, quietLogger(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})
	rec := httptest.NewRecorder()

	auth.Handler(echoUserHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "user-1" {
		t.Errorf("Expected user-1, got %q", rec.Body.String())
	}
}

func TestAuthBearerToken(t *testing.T) {
	st := &fakeStore{sessions: map[string]string{"tok-2": "user-2"}}
	auth := NewAuthMiddleware(st, quietLogger(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-2")
	rec := httptest.NewRecorder()

	auth.Handler(echoUserHandler()).ServeHTTP(rec, req)

	if rec.Body.String() != "user-2" {
		t.Errorf("Expected user-2, got %q", rec.Body.String())
	}
}

func TestAuthHeaderFallback(t *testing.T) {
	st := &fakeStore{}
	auth := NewAuthMiddleware(st, quietLogger(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "user-3")
	rec := httptest.NewRecorder()

	auth.Handler(echoUserHandler()).ServeHTTP(rec, req)

	if rec.Body.String() != "user-3" {
		t.Errorf("Expected user-3, got %q", rec.Body.String())
	}
}

// TestAuthCookieWinsOverHeader pins the identification order.
func TestAuthCookieWinsOverHeader(t *testing.T) {
	st := &fakeStore{sessions: map[string]string{"tok-1": "cookie-user"}}
	auth := NewAuthMiddleware(st, quietLogger(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})
	req.Header.Set(UserIDHeader, "header-user")
	rec := httptest.NewRecorder()

	auth.Handler(echoUserHandler()).ServeHTTP(rec, req)

	if rec.Body.String() != "cookie-user" {
		t.Errorf("Expected cookie identity to win, got %q", rec.Body.String())
	}
}

func TestAuthUnknownSessionFallsThrough(t *testing.T) {
	st := &fakeStore{sessions: map[string]string{}}
	auth := NewAuthMiddleware(st, quietLogger(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-unknown"})
	req.Header.Set(UserIDHeader, "user-4")
	rec := httptest.NewRecorder()

	auth.Handler(echoUserHandler()).ServeHTTP(rec, req)

	if rec.Body.String() != "user-4" {
		t.Errorf("Expected header fallback after unknown session, got %q", rec.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	st := &fakeStore{}
	auth := NewAuthMiddleware(st, quietLogger(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	auth.Handler(echoUserHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for unauthenticated request, got %d", rec.Code)
	}
}

func TestAuthOptionalPassesThrough(t *testing.T) {
	st := &fakeStore{}
	auth := NewAuthMiddleware(st, quietLogger(), true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	auth.Handler(echoUserHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 in optional mode, got %d", rec.Code)
	}
	if rec.Body.String() != "" {
		t.Errorf("Expected empty identity, got %q", rec.Body.String())
	}
}
