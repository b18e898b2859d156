// Package entitlements computes and caches flat capability lists for
// book-club users and answers authorization questions over them.
//
// # Overview
//
// A capability is an opaque string token, either global
// (CAN_MANAGE_ALL_CLUBS) or contextual (CLUB_LEAD_<clubID>). The static
// catalog maps membership tiers (MEMBER < PRIVILEGED < PRIVILEGED_PLUS)
// and positional roles (CLUB_MODERATOR < CLUB_LEAD, STORE_MANAGER <
// STORE_OWNER < PLATFORM_OWNER) to capability lists, each tier a strict
// superset of the one below.
//
// The pipeline: Classifier determines the user's administrative and
// user roles from the record store; the ValidationGate decides whether
// premium role entitlements require an active subscription
// (administrative roles are always exempt); the Calculator folds
// catalog, classification, and subscription state into one
// deduplicated list; the Cache memoizes that list per user with TTL
// expiry, explicit invalidation, listeners, and optional Redis
// persistence.
//
// # Fail directions
//
// A failed classifier sub-query yields fewer privileges. A failed gate
// orchestration yields "validation required". A calculator panic yields
// the base member set. The subsystem never grants on ambiguity.
//
// # Usage Example
//
//	calc := entitlements.NewCalculator(st, subs, flags, gate, log, metrics)
//	cache, _ := entitlements.NewCache(calc.Calculate, &entitlements.CacheOptions{TTL: 15 * time.Minute})
//	svc := entitlements.NewService(cache, log)
//
//	caps, _ := svc.GetUserEntitlements(ctx, userID, false)
//	if entitlements.CanManageClub(caps, clubID, storeID) {
//		// allowed
//	}
//
// # Related Packages
//
//   - pkg/store: record-store queries behind the classifier
//   - pkg/subscriptions: subscription-status collaborator
//   - pkg/middleware: HTTP enforcement built on this package
package entitlements
