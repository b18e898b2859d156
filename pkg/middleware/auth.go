package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chapterhouse/bookclub/pkg/contextkeys"
	"github.com/chapterhouse/bookclub/pkg/store"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "bookclub_session"

	// UserIDHeader is the trusted-header fallback for environments
	// without a session mechanism (internal tooling, tests).
	UserIDHeader = "X-User-ID"
)

// AuthMiddleware establishes the requesting user's identity: session
// cookie first, bearer token second, trusted header last.
type AuthMiddleware struct {
	store    store.Store
	log      *logrus.Logger
	optional bool // allow unauthenticated requests through
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(st store.Store, log *logrus.Logger, optional bool) *AuthMiddleware {
	if log == nil {
		log = logrus.New()
	}
	return &AuthMiddleware{store: st, log: log, optional: optional}
}

// Handler wraps an HTTP handler with authentication extraction.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, source := m.identify(r)
		if userID == "" {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := contextkeys.WithUserID(r.Context(), userID)
		ctx = contextkeys.WithAuthSource(ctx, source)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) identify(r *http.Request) (userID, source string) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		userID, err := m.store.SessionUserID(r.Context(), cookie.Value)
		if err == nil {
			return userID, "session"
		}
		if err != store.ErrSessionNotFound {
			m.log.WithError(err).Warn("session lookup failed")
		}
	}

	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			userID, err := m.store.SessionUserID(r.Context(), parts[1])
			if err == nil {
				return userID, "bearer"
			}
			if err != store.ErrSessionNotFound {
				m.log.WithError(err).Warn("bearer token lookup failed")
			}
		}
	}

	if headerID := r.Header.Get(UserIDHeader); headerID != "" {
		return headerID, "header"
	}

	return "", ""
}

// GetUserID extracts the authenticated user id from the request.
func GetUserID(r *http.Request) string {
	return contextkeys.UserID(r.Context())
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
