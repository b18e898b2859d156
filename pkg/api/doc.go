// Package api exposes the entitlements subsystem over HTTP.
//
// # Overview
//
// The API server surfaces entitlement lookups, cache invalidation, role
// classification, subscription validation decisions, membership limit
// checks, and the static role catalog. All read endpoints are backed by
// the entitlement cache, so responses reflect the cached view unless a
// refresh is requested.
//
// # Usage Example
//
//	srv := api.NewServer(svc, classifier, gate, limits, log)
//	http.ListenAndServe(":8080", srv)
//
// Endpoints:
//
//	GET    /api/v1/users/{userID}/entitlements?refresh=true
//	DELETE /api/v1/users/{userID}/entitlements
//	POST   /api/v1/entitlements/invalidate
//	GET    /api/v1/users/{userID}/classification
//	GET    /api/v1/users/{userID}/validation-decision
//	GET    /api/v1/users/{userID}/limits/club-creation
//	GET    /api/v1/users/{userID}/limits/club-join
//	GET    /api/v1/roles
//	GET    /api/v1/roles/{role}/entitlements
//	GET    /api/v1/cache/stats
//	GET    /healthz
//
// # Related Packages
//
//   - pkg/entitlements: classification, calculation, and caching
//   - pkg/middleware: request authentication and limit checking
//   - pkg/httputil: shared response helpers
package api
