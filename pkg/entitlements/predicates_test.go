package entitlements

import (
	"context"
	"errors"
	"testing"
)

func TestHasEntitlement(t *testing.T) {
	caps := []string{CapViewPublicClubs, CapJoinPublicClubs}

	if !HasEntitlement(caps, CapViewPublicClubs) {
		t.Error("Expected exact membership to match")
	}
	if HasEntitlement(caps, CapManageAllClubs) {
		t.Error("Unexpected match for absent capability")
	}
	if HasEntitlement(nil, CapViewPublicClubs) {
		t.Error("Unexpected match against nil list")
	}
}

func TestCanManageClub(t *testing.T) {
	tests := []struct {
		name string
		caps []string
		want bool
	}{
		{
			name: "club lead of this club",
			caps: []string{"CLUB_LEAD_club-1"},
			want: true,
		},
		{
			name: "club lead of another club",
			caps: []string{"CLUB_LEAD_club-2"},
			want: false,
		},
		{
			name: "store owner of the club's store",
			caps: []string{"STORE_OWNER_store-a"},
			want: true,
		},
		{
			name: "store manager of the club's store",
			caps: []string{"STORE_MANAGER_store-a"},
			want: true,
		},
		{
			name: "store owner of another store",
			caps: []string{"STORE_OWNER_store-b"},
			want: false,
		},
		{
			name: "global manage-all grant",
			caps: []string{CapManageAllClubs},
			want: true,
		},
		{
			name: "moderator only",
			caps: []string{"CLUB_MODERATOR_club-1"},
			want: false,
		},
		{
			name: "no grants",
			caps: []string{CapViewPublicClubs},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManageClub(tt.caps, "club-1", "store-a"); got != tt.want {
				t.Errorf("CanManageClub = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanModerateClub(t *testing.T) {
	tests := []struct {
		name string
		caps []string
		want bool
	}{
		{name: "moderator of this club", caps: []string{"CLUB_MODERATOR_club-1"}, want: true},
		{name: "lead of this club", caps: []string{"CLUB_LEAD_club-1"}, want: true},
		{name: "store manager of the store", caps: []string{"STORE_MANAGER_store-a"}, want: true},
		{name: "moderator of another club", caps: []string{"CLUB_MODERATOR_club-2"}, want: false},
		{name: "no grants", caps: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModerateClub(tt.caps, "club-1", "store-a"); got != tt.want {
				t.Errorf("CanModerateClub = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCanManageStoreRequiresOwnerScope pins the asymmetry between store
// management and the other store-scoped checks: manager scope is not
// enough.
func TestCanManageStoreRequiresOwnerScope(t *testing.T) {
	tests := []struct {
		name string
		caps []string
		want bool
	}{
		{
			name: "owner with capability",
			caps: []string{CapManageStoreSettings, "STORE_OWNER_store-a"},
			want: true,
		},
		{
			name: "manager with capability",
			caps: []string{CapManageStoreSettings, "STORE_MANAGER_store-a"},
			want: false,
		},
		{
			name: "owner scope without capability",
			caps: []string{"STORE_OWNER_store-a"},
			want: false,
		},
		{
			name: "capability without scope",
			caps: []string{CapManageStoreSettings},
			want: false,
		},
		{
			name: "owner of another store",
			caps: []string{CapManageStoreSettings, "STORE_OWNER_store-b"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManageStore(tt.caps, "store-a"); got != tt.want {
				t.Errorf("CanManageStore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanManageUserTiersAcceptsEitherScope(t *testing.T) {
	owner := []string{CapManageUserTiers, "STORE_OWNER_store-a"}
	manager := []string{CapManageUserTiers, "STORE_MANAGER_store-a"}
	unscoped := []string{CapManageUserTiers}

	if !CanManageUserTiers(owner, "store-a") {
		t.Error("Expected owner scope to grant tier management")
	}
	if !CanManageUserTiers(manager, "store-a") {
		t.Error("Expected manager scope to grant tier management")
	}
	if CanManageUserTiers(unscoped, "store-a") {
		t.Error("Capability without store scope should not grant tier management")
	}
}

func TestHasPermissionThroughRoleHierarchy(t *testing.T) {
	tests := []struct {
		name       string
		roles      []ScopedRole
		capability string
		contextID  string
		want       bool
	}{
		{
			name:       "club lead inherits moderator capability",
			roles:      []ScopedRole{{Role: RoleClubLead, Context: ContextClub, ContextID: "club-1"}},
			capability: CapModerateDiscussions,
			contextID:  "club-1",
			want:       true,
		},
		{
			name:       "moderator lacks lead capability",
			roles:      []ScopedRole{{Role: RoleClubModerator, Context: ContextClub, ContextID: "club-1"}},
			capability: CapManageClubSettings,
			contextID:  "club-1",
			want:       false,
		},
		{
			name:       "club role does not reach other clubs",
			roles:      []ScopedRole{{Role: RoleClubLead, Context: ContextClub, ContextID: "club-1"}},
			capability: CapManageClubSettings,
			contextID:  "club-2",
			want:       false,
		},
		{
			name:       "platform role applies to any context",
			roles:      []ScopedRole{{Role: RolePlatformOwner, Context: ContextPlatform}},
			capability: CapManageClubSettings,
			contextID:  "club-99",
			want:       true,
		},
		{
			name:       "store role matches its own store context",
			roles:      []ScopedRole{{Role: RoleStoreOwner, Context: ContextStore, ContextID: "store-a"}},
			capability: CapManageStoreSettings,
			contextID:  "store-a",
			want:       true,
		},
		{
			name:       "store role is not assumed over club contexts",
			roles:      []ScopedRole{{Role: RoleStoreOwner, Context: ContextStore, ContextID: "store-a"}},
			capability: CapManageClubSettings,
			contextID:  "club-1",
			want:       false,
		},
		{
			name:       "scoped role cannot satisfy unscoped request",
			roles:      []ScopedRole{{Role: RoleClubLead, Context: ContextClub, ContextID: "club-1"}},
			capability: CapManageClubSettings,
			contextID:  "",
			want:       false,
		},
		{
			name:       "no roles",
			roles:      nil,
			capability: CapViewPublicClubs,
			contextID:  "",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermissionThroughRoleHierarchy(tt.roles, tt.capability, tt.contextID); got != tt.want {
				t.Errorf("HasPermissionThroughRoleHierarchy = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasPermissionThroughRoleHierarchyCtx(t *testing.T) {
	ctx := context.Background()
	storeRole := []ScopedRole{{Role: RoleStoreManager, Context: ContextStore, ContextID: "store-a"}}

	t.Run("store role reaches club in its store", func(t *testing.T) {
		st := &fakeStore{
			clubInStore: func(_ context.Context, clubID, storeID string) (bool, error) {
				return clubID == "club-1" && storeID == "store-a", nil
			},
		}

		if !HasPermissionThroughRoleHierarchyCtx(ctx, st, storeRole, CapManageClubSettings, "club-1") {
			t.Error("Expected store manager to reach club in their store")
		}
		if HasPermissionThroughRoleHierarchyCtx(ctx, st, storeRole, CapManageClubSettings, "club-other") {
			t.Error("Store manager should not reach clubs outside their store")
		}
	})

	t.Run("lookup failure skips the role", func(t *testing.T) {
		st := &fakeStore{
			clubInStore: func(context.Context, string, string) (bool, error) {
				return false, errors.New("database down")
			},
		}

		if HasPermissionThroughRoleHierarchyCtx(ctx, st, storeRole, CapManageClubSettings, "club-1") {
			t.Error("A failed lookup must not grant permission")
		}
	})

	t.Run("platform role needs no lookup", func(t *testing.T) {
		roles := []ScopedRole{{Role: RolePlatformOwner, Context: ContextPlatform}}

		if !HasPermissionThroughRoleHierarchyCtx(ctx, nil, roles, CapManageClubSettings, "club-1") {
			t.Error("Platform role should apply without store lookups")
		}
	})
}
