package entitlements

import (
	"time"
)

// RoleContext is the scope a role applies to.
type RoleContext string

const (
	ContextPlatform RoleContext = "platform"
	ContextStore    RoleContext = "store"
	ContextClub     RoleContext = "club"
)

// AdministrativeRole is a role that is globally exempt from subscription
// gating: platform owner, store owner, store manager.
type AdministrativeRole struct {
	Role      Role      `json:"role"`
	StoreID   string    `json:"store_id,omitempty"` // empty for platform owner
	GrantedAt time.Time `json:"granted_at,omitempty"`
	Source    string    `json:"source,omitempty"`
}

// UserRole is a role subject to subscription gating: club leadership or
// club moderation, scoped to one club.
type UserRole struct {
	Role       Role      `json:"role"`
	ClubID     string    `json:"club_id"`
	AssignedAt time.Time `json:"assigned_at,omitempty"`
}

// RoleClassification is the classifier's output for one user.
//
// Exemption is monotonic: any administrative role makes the user exempt
// regardless of user-role content.
type RoleClassification struct {
	UserID                         string               `json:"user_id"`
	AdministrativeRoles            []AdministrativeRole `json:"administrative_roles"`
	UserRoles                      []UserRole           `json:"user_roles"`
	ExemptFromValidation           bool                 `json:"exempt_from_validation"`
	RequiresSubscriptionValidation bool                 `json:"requires_subscription_validation"`
	Reason                         string               `json:"reason"`
}

// ValidationDecision is the subscription validation gate's projection of
// a RoleClassification.
type ValidationDecision struct {
	UserID         string `json:"user_id"`
	ShouldValidate bool   `json:"should_validate"`
	Reason         string `json:"reason"`
	ExemptRoles    []Role `json:"exempt_roles"`
	EnforcedRoles  []Role `json:"enforced_roles"`
}

// ScopedRole pairs a role with the context it was granted in, the input
// shape for hierarchy-aware permission checks.
type ScopedRole struct {
	Role      Role        `json:"role"`
	Context   RoleContext `json:"context"`
	ContextID string      `json:"context_id,omitempty"` // empty for platform scope
}

// CacheStats are the cache's observability counters.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Errors int64 `json:"errors"`
}
