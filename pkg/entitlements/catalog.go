package entitlements

// Role is a membership tier or positional role name.
type Role string

const (
	// Membership tiers, strictly nested.
	RoleMember         Role = "MEMBER"
	RolePrivileged     Role = "PRIVILEGED"
	RolePrivilegedPlus Role = "PRIVILEGED_PLUS"

	// Club-scoped positional roles.
	RoleClubModerator Role = "CLUB_MODERATOR"
	RoleClubLead      Role = "CLUB_LEAD"

	// Store-scoped and platform roles.
	RoleStoreManager  Role = "STORE_MANAGER"
	RoleStoreOwner    Role = "STORE_OWNER"
	RolePlatformOwner Role = "PLATFORM_OWNER"
)

// Global capability names.
const (
	CapViewPublicClubs           = "CAN_VIEW_PUBLIC_CLUBS"
	CapJoinPublicClubs           = "CAN_JOIN_PUBLIC_CLUBS"
	CapParticipateInDiscussions  = "CAN_PARTICIPATE_IN_DISCUSSIONS"
	CapRSVPToEvents              = "CAN_RSVP_TO_EVENTS"
	CapSendJoinRequests          = "CAN_SEND_JOIN_REQUESTS"
	CapEditOwnProfile            = "CAN_EDIT_OWN_PROFILE"
	CapCreateLimitedClubs        = "CAN_CREATE_LIMITED_CLUBS"
	CapJoinUnlimitedClubs        = "CAN_JOIN_UNLIMITED_CLUBS"
	CapCreateDiscussionTopics    = "CAN_CREATE_DISCUSSION_TOPICS"
	CapAccessPremiumEvents       = "CAN_ACCESS_PREMIUM_EVENTS"
	CapUseCustomClubImages       = "CAN_USE_CUSTOM_CLUB_IMAGES"
	CapSendDirectMessages        = "CAN_SEND_DIRECT_MESSAGES"
	CapCreateUnlimitedClubs      = "CAN_CREATE_UNLIMITED_CLUBS"
	CapPinDiscussions            = "CAN_PIN_DISCUSSIONS"
	CapFeatureEvents             = "CAN_FEATURE_EVENTS"
	CapInviteGuests              = "CAN_INVITE_GUESTS"
	CapModerateDiscussions       = "CAN_MODERATE_DISCUSSIONS"
	CapRemovePosts               = "CAN_REMOVE_POSTS"
	CapMuteMembers               = "CAN_MUTE_MEMBERS"
	CapReviewReports             = "CAN_REVIEW_REPORTS"
	CapManageClubSettings        = "CAN_MANAGE_CLUB_SETTINGS"
	CapManageClubMembers         = "CAN_MANAGE_CLUB_MEMBERS"
	CapApproveJoinRequests       = "CAN_APPROVE_JOIN_REQUESTS"
	CapScheduleClubEvents        = "CAN_SCHEDULE_CLUB_EVENTS"
	CapAssignModerators          = "CAN_ASSIGN_MODERATORS"
	CapManageAllClubs            = "CAN_MANAGE_ALL_CLUBS"
	CapManageStoreEvents         = "CAN_MANAGE_STORE_EVENTS"
	CapModerateAllDiscussions    = "CAN_MODERATE_ALL_DISCUSSIONS"
	CapViewStoreAnalytics        = "CAN_VIEW_STORE_ANALYTICS"
	CapManageUserTiers           = "CAN_MANAGE_USER_TIERS"
	CapManageStoreSettings       = "CAN_MANAGE_STORE_SETTINGS"
	CapManageStoreStaff          = "CAN_MANAGE_STORE_STAFF"
	CapManageStoreBilling        = "CAN_MANAGE_STORE_BILLING"
	CapManagePlatformSettings    = "CAN_MANAGE_PLATFORM_SETTINGS"
	CapManageAllStores           = "CAN_MANAGE_ALL_STORES"
	CapViewPlatformAnalytics     = "CAN_VIEW_PLATFORM_ANALYTICS"
	CapManageFeatureFlags        = "CAN_MANAGE_FEATURE_FLAGS"
)

// Contextual capability prefixes, serialized as PREFIX_<contextID>.
const (
	CapClubLeadPrefix      = "CLUB_LEAD"
	CapClubModeratorPrefix = "CLUB_MODERATOR"
	CapStoreOwnerPrefix    = "STORE_OWNER"
	CapStoreManagerPrefix  = "STORE_MANAGER"
)

// MemberEntitlements is the baseline every user holds.
var MemberEntitlements = []string{
	CapViewPublicClubs,
	CapJoinPublicClubs,
	CapParticipateInDiscussions,
	CapRSVPToEvents,
	CapSendJoinRequests,
	CapEditOwnProfile,
}

// PrivilegedEntitlements extends MemberEntitlements; the concatenation
// keeps the tier nesting visible and checkable.
var PrivilegedEntitlements = append([]string{
	CapCreateLimitedClubs,
	CapJoinUnlimitedClubs,
	CapCreateDiscussionTopics,
	CapAccessPremiumEvents,
	CapUseCustomClubImages,
	CapSendDirectMessages,
}, MemberEntitlements...)

// PrivilegedPlusEntitlements extends PrivilegedEntitlements.
var PrivilegedPlusEntitlements = append([]string{
	CapCreateUnlimitedClubs,
	CapPinDiscussions,
	CapFeatureEvents,
	CapInviteGuests,
}, PrivilegedEntitlements...)

// ClubModeratorEntitlements are granted per moderated club.
var ClubModeratorEntitlements = []string{
	CapModerateDiscussions,
	CapRemovePosts,
	CapMuteMembers,
	CapReviewReports,
}

// ClubLeadEntitlements extends ClubModeratorEntitlements.
var ClubLeadEntitlements = append([]string{
	CapManageClubSettings,
	CapManageClubMembers,
	CapApproveJoinRequests,
	CapScheduleClubEvents,
	CapAssignModerators,
}, ClubModeratorEntitlements...)

// StoreManagerEntitlements are granted per administered store.
var StoreManagerEntitlements = []string{
	CapManageAllClubs,
	CapManageStoreEvents,
	CapModerateAllDiscussions,
	CapViewStoreAnalytics,
	CapManageUserTiers,
}

// StoreOwnerEntitlements extends StoreManagerEntitlements.
var StoreOwnerEntitlements = append([]string{
	CapManageStoreSettings,
	CapManageStoreStaff,
	CapManageStoreBilling,
}, StoreManagerEntitlements...)

// PlatformOwnerEntitlements extends StoreOwnerEntitlements with
// platform-wide grants.
var PlatformOwnerEntitlements = append([]string{
	CapManagePlatformSettings,
	CapManageAllStores,
	CapViewPlatformAnalytics,
	CapManageFeatureFlags,
}, StoreOwnerEntitlements...)

// roleEntitlements maps each role name to its precomputed capability list.
var roleEntitlements = map[Role][]string{
	RoleMember:         MemberEntitlements,
	RolePrivileged:     PrivilegedEntitlements,
	RolePrivilegedPlus: PrivilegedPlusEntitlements,
	RoleClubModerator:  ClubModeratorEntitlements,
	RoleClubLead:       ClubLeadEntitlements,
	RoleStoreManager:   StoreManagerEntitlements,
	RoleStoreOwner:     StoreOwnerEntitlements,
	RolePlatformOwner:  PlatformOwnerEntitlements,
}

// RoleHierarchy gives, per role, the ordered chain of roles it may
// inherit capabilities from, including itself. Store roles carry the club
// chains because a store administrator has contextual authority over the
// clubs in that store.
var RoleHierarchy = map[Role][]Role{
	RoleMember:         {RoleMember},
	RolePrivileged:     {RolePrivileged, RoleMember},
	RolePrivilegedPlus: {RolePrivilegedPlus, RolePrivileged, RoleMember},
	RoleClubModerator:  {RoleClubModerator},
	RoleClubLead:       {RoleClubLead, RoleClubModerator},
	RoleStoreManager:   {RoleStoreManager, RoleClubLead, RoleClubModerator},
	RoleStoreOwner:     {RoleStoreOwner, RoleStoreManager, RoleClubLead, RoleClubModerator},
	RolePlatformOwner:  {RolePlatformOwner, RoleStoreOwner, RoleStoreManager, RoleClubLead, RoleClubModerator},
}

// GetRoleEntitlements returns the capability list for a role, or an empty
// list for an unrecognized role name. It never fails.
func GetRoleEntitlements(role Role) []string {
	caps, ok := roleEntitlements[role]
	if !ok {
		return []string{}
	}
	out := make([]string, len(caps))
	copy(out, caps)
	return out
}

// ParseTier maps a stored tier string to a tier role. Unknown values
// report false so callers fall back to the base tier.
func ParseTier(s string) (Role, bool) {
	switch Role(s) {
	case RoleMember, RolePrivileged, RolePrivilegedPlus:
		return Role(s), true
	default:
		return RoleMember, false
	}
}
