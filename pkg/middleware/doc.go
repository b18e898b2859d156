// Package middleware provides HTTP middleware for authentication, entitlement
// enforcement, and membership-limit checks.
//
// # Overview
//
// This package implements request processing middleware including session and
// header authentication, declarative capability enforcement with contextual
// scoping, and per-tier membership limits for club creation and joining.
//
// # Middleware Components
//
// AuthMiddleware: Session cookie, bearer token, and header identification
//
//	auth := middleware.NewAuthMiddleware(store, logger, false)
//	router.Use(auth.Handler)
//	// Resolves the user id and adds it to the request context
//
// EnforcementMiddleware: Declarative capability checks
//
//	enforce := middleware.NewEnforcementMiddleware(svc, recorder, logger, metrics)
//	router.Handle("/clubs/{clubID}/settings",
//		enforce.RequireEntitlement(middleware.Requirement{
//			Capability:      entitlements.CapClubLeadPrefix,
//			ContextType:     "club",
//			ContextResolver: middleware.MuxVarResolver("clubID"),
//		})(handler))
//
// LimitChecker: Per-tier membership limits
//
//	checker := middleware.NewLimitChecker(svc, store, logger)
//	res, err := checker.CheckClubCreation(ctx, userID)
//	if err == nil && !res.Allowed {
//		// res.Reason and res.SuggestedTier describe the upgrade path
//	}
//
// # Membership Limits
//
// PRIVILEGED: 3 active led clubs
// PRIVILEGED_PLUS: unlimited led clubs
// MEMBER: 5 joined clubs
//
// Deleted clubs never count toward a limit.
//
// # Related Packages
//
//   - pkg/entitlements: Capability calculation and permission predicates
//   - pkg/activity: Asynchronous recording of permitted actions
//   - pkg/store: Session lookup and membership counts
package middleware
