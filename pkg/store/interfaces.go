package store

import (
	"context"
	"time"
)

// AdminRole is the role a user holds on a bookstore.
type AdminRole string

const (
	AdminRoleOwner   AdminRole = "owner"
	AdminRoleManager AdminRole = "manager"
)

// StoreAdminRow is one store-administrator assignment.
type StoreAdminRow struct {
	UserID    string    `json:"user_id"`
	StoreID   string    `json:"store_id"`
	Role      AdminRole `json:"role"`
	GrantedAt time.Time `json:"granted_at"`
	Source    string    `json:"source,omitempty"`
}

// ClubRow is a book club led by a user. Soft-deleted clubs are never
// returned by store queries.
type ClubRow struct {
	ID      string `json:"id"`
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
}

// ModeratorRow is one club-moderator assignment.
type ModeratorRow struct {
	ClubID     string    `json:"club_id"`
	UserID     string    `json:"user_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// RoleFacts bundles everything role classification needs about one user
// in a single fetch.
type RoleFacts struct {
	IsPlatformOwner bool            `json:"is_platform_owner"`
	StoreAdmins     []StoreAdminRow `json:"store_admins"`
	LedClubs        []ClubRow       `json:"led_clubs"`
	ModeratedClubs  []ModeratorRow  `json:"moderated_clubs"`
}

// Store is the record-store contract the entitlements subsystem depends
// on. Absence of matching rows is always a normal empty result, never an
// error; implementations return errors only for query-level failures.
type Store interface {
	// PlatformOwnerID returns the user id recorded under the platform
	// owner settings key, or "" when the key is unset.
	PlatformOwnerID(ctx context.Context) (string, error)

	// StoreAdminRoles returns every store-administrator assignment the
	// user holds.
	StoreAdminRoles(ctx context.Context, userID string) ([]StoreAdminRow, error)

	// LedClubs returns the non-deleted clubs where the user is the
	// recorded leader.
	LedClubs(ctx context.Context, userID string) ([]ClubRow, error)

	// ModeratedClubs returns the user's club-moderator assignments.
	ModeratedClubs(ctx context.Context, userID string) ([]ModeratorRow, error)

	// RoleFacts fetches all four classification facts in one round trip.
	RoleFacts(ctx context.Context, userID string) (*RoleFacts, error)

	// UserTier returns the user's stored membership tier name.
	UserTier(ctx context.Context, userID string) (string, error)

	// CountLedClubs counts the user's non-deleted led clubs.
	CountLedClubs(ctx context.Context, userID string) (int, error)

	// CountJoinedClubs counts the user's active club memberships.
	CountJoinedClubs(ctx context.Context, userID string) (int, error)

	// ClubInStore reports whether the club belongs to the store.
	ClubInStore(ctx context.Context, clubID, storeID string) (bool, error)

	// SessionUserID resolves a session token to a user id. Returns
	// ErrSessionNotFound for unknown or expired tokens.
	SessionUserID(ctx context.Context, token string) (string, error)
}

// ActivityWriter persists activity-tracking events. Kept separate from
// Store so tracking can be pointed at a different backend.
type ActivityWriter interface {
	InsertActivity(ctx context.Context, id, userID, capability, contextType, contextID string, at time.Time) error
}
