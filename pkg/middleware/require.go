package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/chapterhouse/bookclub/pkg/activity"
	"github.com/chapterhouse/bookclub/pkg/entitlements"
	"github.com/chapterhouse/bookclub/pkg/observability"
)

// Requirement describes one permission gate.
type Requirement struct {
	// Capability is the required capability name; with a ContextResolver
	// it becomes the contextual PREFIX_<contextID> form.
	Capability string

	// ContextType labels the resolved context ("club", "store") for
	// rejection payloads and tracking.
	ContextType string

	// ContextResolver extracts the context id from the request, e.g.
	// from mux route vars. Nil means a global capability check.
	ContextResolver func(r *http.Request) (string, error)

	// Custom replaces the capability check entirely when non-nil.
	Custom func(ctx context.Context, userID string, caps []string) (bool, error)
}

// MuxVarResolver resolves a context id from a gorilla/mux route variable.
func MuxVarResolver(name string) func(r *http.Request) (string, error) {
	return func(r *http.Request) (string, error) {
		if v, ok := mux.Vars(r)[name]; ok && v != "" {
			return v, nil
		}
		return "", ErrMissingContext
	}
}

// rejection is the structured denial payload.
type rejection struct {
	Error              string `json:"error"`
	RequiredCapability string `json:"required_capability"`
	ContextType        string `json:"context_type,omitempty"`
	ContextID          string `json:"context_id,omitempty"`
}

// EnforcementMiddleware gates requests on entitlements and records
// capability usage.
type EnforcementMiddleware struct {
	svc      *entitlements.Service
	recorder activity.Recorder
	log      *logrus.Logger
	metrics  *observability.Metrics
}

// NewEnforcementMiddleware creates a new EnforcementMiddleware. recorder
// and metrics may be nil.
func NewEnforcementMiddleware(svc *entitlements.Service, recorder activity.Recorder, log *logrus.Logger, metrics *observability.Metrics) *EnforcementMiddleware {
	if log == nil {
		log = logrus.New()
	}
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	return &EnforcementMiddleware{svc: svc, recorder: recorder, log: log, metrics: metrics}
}

// RequireEntitlement builds a middleware enforcing the requirement.
// Stages chain left to right; a stage that writes a rejection never
// invokes the next one. On success, the exercised capability is recorded
// as a non-blocking side effect before the next stage runs.
func (m *EnforcementMiddleware) RequireEntitlement(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r)
			if userID == "" {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			contextID := ""
			if req.ContextResolver != nil {
				var err error
				contextID, err = req.ContextResolver(r)
				if err != nil {
					writeJSONError(w, http.StatusBadRequest, "could not resolve request context")
					return
				}
			}

			caps, err := m.svc.GetUserEntitlements(r.Context(), userID, false)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			allowed, err := m.evaluate(r.Context(), req, userID, caps, contextID)
			if err != nil {
				m.log.WithError(err).WithField("capability", req.Capability).Warn("permission check failed")
				m.deny(w, req, contextID)
				return
			}
			if !allowed {
				m.deny(w, req, contextID)
				return
			}

			if m.metrics != nil {
				m.metrics.PermissionChecksTotal.WithLabelValues(req.Capability, "allowed").Inc()
			}
			m.recorder.Record(r.Context(), activity.Event{
				UserID:      userID,
				Capability:  req.Capability,
				ContextType: req.ContextType,
				ContextID:   contextID,
			})

			next.ServeHTTP(w, r)
		})
	}
}

func (m *EnforcementMiddleware) evaluate(ctx context.Context, req Requirement, userID string, caps []string, contextID string) (bool, error) {
	if req.Custom != nil {
		return req.Custom(ctx, userID, caps)
	}
	if contextID != "" {
		return entitlements.HasContextualEntitlement(caps, req.Capability, contextID), nil
	}
	return entitlements.HasEntitlement(caps, req.Capability), nil
}

func (m *EnforcementMiddleware) deny(w http.ResponseWriter, req Requirement, contextID string) {
	if m.metrics != nil {
		m.metrics.PermissionChecksTotal.WithLabelValues(req.Capability, "denied").Inc()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(rejection{
		Error:              "insufficient permissions",
		RequiredCapability: req.Capability,
		ContextType:        req.ContextType,
		ContextID:          contextID,
	})
}
