// Package store defines the record-store contract the entitlements
// subsystem depends on, plus the PostgreSQL implementation.
//
// # Overview
//
// The Store interface covers exactly the reads the role classifier,
// entitlement calculator, and membership-limit checks need: the platform
// owner settings key, store-administrator rows, led and moderated clubs,
// membership tiers, club counts, and session lookup. Absence of matching
// rows is always a normal empty result, never an error.
//
// # Usage Example
//
//	db, _ := sql.Open("postgres", cfg.PostgresURL)
//	st := store.NewPostgresStore(db)
//
//	clubs, err := st.LedClubs(ctx, userID)
//	if err != nil {
//		// query-level failure; callers fail toward fewer privileges
//	}
//
// Queries use $N placeholders and CURRENT_TIMESTAMP so the same SQL runs
// against SQLite in tests.
//
// # Related Packages
//
//   - pkg/entitlements: consumes Store for classification and calculation
//   - pkg/middleware: consumes Store for session lookup and limit counts
package store
