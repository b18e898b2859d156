package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/chapterhouse/bookclub/pkg/entitlements"
	"github.com/chapterhouse/bookclub/pkg/httputil"
	"github.com/chapterhouse/bookclub/pkg/middleware"
)

// Server represents the entitlements API server
type Server struct {
	router      *mux.Router
	svc         *entitlements.Service
	classifier  *entitlements.Classifier
	gate        *entitlements.ValidationGate
	limits      *middleware.LimitChecker
	enforcement *middleware.EnforcementMiddleware
	log         *logrus.Logger
}

// NewServer creates a new API server and configures its routes.
// enforcement may be nil, in which case invalidation endpoints are
// left unguarded.
func NewServer(svc *entitlements.Service, classifier *entitlements.Classifier, gate *entitlements.ValidationGate, limits *middleware.LimitChecker, enforcement *middleware.EnforcementMiddleware, log *logrus.Logger) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		svc:         svc,
		classifier:  classifier,
		gate:        gate,
		limits:      limits,
		enforcement: enforcement,
		log:         log,
	}

	s.router.Use(httputil.RecoveryMiddleware(log))
	s.router.Use(httputil.LoggingMiddleware(log))

	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	// Entitlement lookups
	s.router.HandleFunc("/api/v1/users/{userID}/entitlements", s.getUserEntitlements).Methods("GET")

	// Invalidation requires tier-management privileges when an
	// enforcement middleware is attached
	admin := s.router.PathPrefix("/api/v1").Subrouter()
	if s.enforcement != nil {
		admin.Use(s.enforcement.RequireEntitlement(middleware.Requirement{
			Capability: entitlements.CapManageUserTiers,
		}))
	}
	admin.HandleFunc("/users/{userID}/entitlements", s.invalidateUserEntitlements).Methods("DELETE")
	admin.HandleFunc("/entitlements/invalidate", s.invalidateBatch).Methods("POST")

	// Role classification and subscription validation
	s.router.HandleFunc("/api/v1/users/{userID}/classification", s.getClassification).Methods("GET")
	s.router.HandleFunc("/api/v1/users/{userID}/validation-decision", s.getValidationDecision).Methods("GET")

	// Membership limits
	s.router.HandleFunc("/api/v1/users/{userID}/limits/club-creation", s.getClubCreationLimit).Methods("GET")
	s.router.HandleFunc("/api/v1/users/{userID}/limits/club-join", s.getClubJoinLimit).Methods("GET")

	// Role catalog and cache stats
	s.router.HandleFunc("/api/v1/roles", s.listRoles).Methods("GET")
	s.router.HandleFunc("/api/v1/roles/{role}/entitlements", s.getRoleEntitlements).Methods("GET")
	s.router.HandleFunc("/api/v1/cache/stats", s.getCacheStats).Methods("GET")

	s.router.HandleFunc("/healthz", s.healthz).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying router so callers can attach
// additional middleware or routes
func (s *Server) Router() *mux.Router {
	return s.router
}
