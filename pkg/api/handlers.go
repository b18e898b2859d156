package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/chapterhouse/bookclub/pkg/entitlements"
	"github.com/chapterhouse/bookclub/pkg/httputil"
	"github.com/chapterhouse/bookclub/pkg/middleware"
)

// allRoles lists every role the catalog knows about, tiers first, then
// club roles, then administrative roles.
var allRoles = []entitlements.Role{
	entitlements.RoleMember,
	entitlements.RolePrivileged,
	entitlements.RolePrivilegedPlus,
	entitlements.RoleClubModerator,
	entitlements.RoleClubLead,
	entitlements.RoleStoreManager,
	entitlements.RoleStoreOwner,
	entitlements.RolePlatformOwner,
}

type entitlementsResponse struct {
	UserID       string   `json:"user_id"`
	Entitlements []string `json:"entitlements"`
}

func (s *Server) getUserEntitlements(w http.ResponseWriter, r *http.Request) {
	userID := httputil.PathString(r, "userID")
	refresh := httputil.QueryBool(r, "refresh")

	caps, err := s.svc.GetUserEntitlements(r.Context(), userID, refresh)
	if err != nil {
		if errors.Is(err, entitlements.ErrInvalidUserID) {
			httputil.WriteBadRequest(w, err)
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, entitlementsResponse{
		UserID:       userID,
		Entitlements: caps,
	})
}

func (s *Server) invalidateUserEntitlements(w http.ResponseWriter, r *http.Request) {
	userID := httputil.PathString(r, "userID")
	if userID == "" {
		httputil.WriteBadRequest(w, entitlements.ErrInvalidUserID)
		return
	}

	s.svc.InvalidateUserEntitlements(r.Context(), userID)
	httputil.WriteNoContent(w)
}

type invalidateBatchRequest struct {
	UserIDs []string `json:"user_ids"`
}

func (s *Server) invalidateBatch(w http.ResponseWriter, r *http.Request) {
	var req invalidateBatchRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if len(req.UserIDs) == 0 {
		httputil.WriteErrorMessage(w, http.StatusBadRequest, "user_ids is required")
		return
	}

	s.svc.InvalidateUsersEntitlements(r.Context(), req.UserIDs)
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"invalidated": len(req.UserIDs)})
}

func (s *Server) getClassification(w http.ResponseWriter, r *http.Request) {
	userID := httputil.PathString(r, "userID")

	classification, err := s.classifier.Classify(r.Context(), userID)
	if err != nil {
		if errors.Is(err, entitlements.ErrInvalidUserID) {
			httputil.WriteBadRequest(w, err)
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, classification)
}

func (s *Server) getValidationDecision(w http.ResponseWriter, r *http.Request) {
	userID := httputil.PathString(r, "userID")
	if userID == "" {
		httputil.WriteBadRequest(w, entitlements.ErrInvalidUserID)
		return
	}

	decision := s.gate.Decide(r.Context(), userID)
	httputil.WriteJSON(w, http.StatusOK, decision)
}

func (s *Server) getClubCreationLimit(w http.ResponseWriter, r *http.Request) {
	s.writeLimitResult(w, r, s.limits.CheckClubCreation)
}

func (s *Server) getClubJoinLimit(w http.ResponseWriter, r *http.Request) {
	s.writeLimitResult(w, r, s.limits.CheckClubJoin)
}

func (s *Server) writeLimitResult(w http.ResponseWriter, r *http.Request, check func(ctx context.Context, userID string) (*middleware.LimitResult, error)) {
	userID := httputil.PathString(r, "userID")
	if userID == "" {
		httputil.WriteBadRequest(w, entitlements.ErrInvalidUserID)
		return
	}

	result, err := check(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type rolesResponse struct {
	Roles []entitlements.Role `json:"roles"`
}

func (s *Server) listRoles(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, rolesResponse{Roles: allRoles})
}

type roleEntitlementsResponse struct {
	Role         entitlements.Role   `json:"role"`
	Entitlements []string            `json:"entitlements"`
	Hierarchy    []entitlements.Role `json:"hierarchy,omitempty"`
}

func (s *Server) getRoleEntitlements(w http.ResponseWriter, r *http.Request) {
	role := entitlements.Role(httputil.PathString(r, "role"))

	known := false
	for _, candidate := range allRoles {
		if role == candidate {
			known = true
			break
		}
	}
	if !known {
		httputil.WriteNotFound(w, "unknown role")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, roleEntitlementsResponse{
		Role:         role,
		Entitlements: entitlements.GetRoleEntitlements(role),
		Hierarchy:    entitlements.RoleHierarchy[role],
	})
}

func (s *Server) getCacheStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.svc.Cache().Stats())
}
