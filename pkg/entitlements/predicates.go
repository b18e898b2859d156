package entitlements

import (
	"context"
	"sort"

	"github.com/chapterhouse/bookclub/pkg/store"
)

// HasEntitlement reports exact membership of a capability in the list.
func HasEntitlement(entitlements []string, capability string) bool {
	for _, e := range entitlements {
		if e == capability {
			return true
		}
	}
	return false
}

// HasContextualEntitlement reports membership of PREFIX_<contextID>.
func HasContextualEntitlement(entitlements []string, prefix, contextID string) bool {
	return HasEntitlement(entitlements, contextualString(prefix, contextID))
}

// CanManageClub reports whether the list authorizes managing the club:
// a global manage-all grant, club leadership of this club, or store
// administration of the club's store.
func CanManageClub(entitlements []string, clubID, storeID string) bool {
	return HasEntitlement(entitlements, CapManageAllClubs) ||
		HasContextualEntitlement(entitlements, CapClubLeadPrefix, clubID) ||
		HasContextualEntitlement(entitlements, CapStoreOwnerPrefix, storeID) ||
		HasContextualEntitlement(entitlements, CapStoreManagerPrefix, storeID)
}

// CanModerateClub reports whether the list authorizes moderating the
// club: anything that can manage it, or club moderation of this club.
func CanModerateClub(entitlements []string, clubID, storeID string) bool {
	return CanManageClub(entitlements, clubID, storeID) ||
		HasContextualEntitlement(entitlements, CapClubModeratorPrefix, clubID)
}

// CanManageStore requires the store-settings capability together with
// owner scope on this store. Manager scope is insufficient here even
// though managers administer other store functions.
func CanManageStore(entitlements []string, storeID string) bool {
	return HasEntitlement(entitlements, CapManageStoreSettings) &&
		HasContextualEntitlement(entitlements, CapStoreOwnerPrefix, storeID)
}

// CanManageUserTiers requires the tier-management capability together
// with owner or manager scope on this store.
func CanManageUserTiers(entitlements []string, storeID string) bool {
	return HasEntitlement(entitlements, CapManageUserTiers) &&
		(HasContextualEntitlement(entitlements, CapStoreOwnerPrefix, storeID) ||
			HasContextualEntitlement(entitlements, CapStoreManagerPrefix, storeID))
}

// contextRank orders role contexts from broadest to narrowest.
func contextRank(c RoleContext) int {
	switch c {
	case ContextPlatform:
		return 0
	case ContextStore:
		return 1
	case ContextClub:
		return 2
	default:
		return 3
	}
}

// sortBySpecificity orders roles platform > store > club without
// mutating the caller's slice.
func sortBySpecificity(roles []ScopedRole) []ScopedRole {
	sorted := make([]ScopedRole, len(roles))
	copy(sorted, roles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return contextRank(sorted[i].Context) < contextRank(sorted[j].Context)
	})
	return sorted
}

// chainGrants walks the role's full inheritance chain and reports
// whether any inherited role's catalog entry contains the capability.
func chainGrants(role Role, capability string) bool {
	for _, inherited := range RoleHierarchy[role] {
		if HasEntitlement(GetRoleEntitlements(inherited), capability) {
			return true
		}
	}
	return false
}

// HasPermissionThroughRoleHierarchy walks each role's inheritance chain
// looking for the required capability. Platform-scoped roles apply to
// any context; store- and club-scoped roles apply only when their
// context id matches the requested one. Without database access, a
// store role's authority over a club in that store cannot be verified
// and is not assumed; use the Ctx variant for that.
func HasPermissionThroughRoleHierarchy(roles []ScopedRole, capability, contextID string) bool {
	for _, role := range sortBySpecificity(roles) {
		if !roleApplies(role, contextID) {
			continue
		}
		if chainGrants(role.Role, capability) {
			return true
		}
	}
	return false
}

// HasPermissionThroughRoleHierarchyCtx is the store-aware variant: a
// store-scoped role also applies to a club context when the club belongs
// to that store, verified against the record store. Lookup failures skip
// the role rather than granting.
func HasPermissionThroughRoleHierarchyCtx(ctx context.Context, st store.Store, roles []ScopedRole, capability, contextID string) bool {
	for _, role := range sortBySpecificity(roles) {
		applies := roleApplies(role, contextID)
		if !applies && role.Context == ContextStore && contextID != "" && st != nil {
			inStore, err := st.ClubInStore(ctx, contextID, role.ContextID)
			applies = err == nil && inStore
		}
		if !applies {
			continue
		}
		if chainGrants(role.Role, capability) {
			return true
		}
	}
	return false
}

func roleApplies(role ScopedRole, contextID string) bool {
	if role.Context == ContextPlatform {
		return true
	}
	if contextID == "" {
		// A scoped role cannot satisfy an unscoped request.
		return false
	}
	return role.ContextID == contextID
}
