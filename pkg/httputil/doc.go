// Package httputil provides shared HTTP request and response helpers.
//
// # Overview
//
// The httputil package centralizes JSON response writing, request body
// parsing, and common HTTP middleware so that handlers across the service
// stay small and consistent. Error responses always carry the same JSON
// shape so clients can rely on a single error envelope.
//
// # Usage Example
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		var req createRequest
//		if !httputil.ParseJSONOrError(w, r, &req) {
//			return
//		}
//		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
//	}
//
//	router.Use(httputil.LoggingMiddleware(log))
//	router.Use(httputil.RecoveryMiddleware(log))
//
// # Related Packages
//
//   - pkg/api: HTTP handlers built on these helpers
//   - pkg/middleware: authentication and entitlement enforcement
package httputil
