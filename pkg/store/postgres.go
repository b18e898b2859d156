package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PlatformOwnerSettingsKey is the well-known app_settings key holding the
// platform owner's user id.
const PlatformOwnerSettingsKey = "platform_owner_user_id"

// ErrSessionNotFound indicates an unknown or expired session token.
var ErrSessionNotFound = errors.New("session not found")

// PostgresStore implements Store using database/sql. Queries stick to
// $N placeholders and CURRENT_TIMESTAMP so the same SQL runs against
// SQLite in tests.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// PlatformOwnerID returns the configured platform owner user id, or ""
// when the settings key is absent.
func (s *PostgresStore) PlatformOwnerID(ctx context.Context) (string, error) {
	query := `SELECT value FROM app_settings WHERE key = $1`

	var ownerID string
	err := s.db.QueryRowContext(ctx, query, PlatformOwnerSettingsKey).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read platform owner setting: %w", err)
	}

	return ownerID, nil
}

// StoreAdminRoles returns every store-administrator assignment for the user.
func (s *PostgresStore) StoreAdminRoles(ctx context.Context, userID string) ([]StoreAdminRow, error) {
	query := `
		SELECT user_id, store_id, role, created_at, COALESCE(source, '')
		FROM store_admins
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query store admins: %w", err)
	}
	defer rows.Close()

	var admins []StoreAdminRow
	for rows.Next() {
		var row StoreAdminRow
		if err := rows.Scan(&row.UserID, &row.StoreID, &row.Role, &row.GrantedAt, &row.Source); err != nil {
			return nil, fmt.Errorf("failed to scan store admin row: %w", err)
		}
		admins = append(admins, row)
	}

	return admins, rows.Err()
}

// LedClubs returns the non-deleted clubs where the user is the leader.
func (s *PostgresStore) LedClubs(ctx context.Context, userID string) ([]ClubRow, error) {
	query := `
		SELECT id, store_id, name
		FROM book_clubs
		WHERE lead_user_id = $1 AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query led clubs: %w", err)
	}
	defer rows.Close()

	var clubs []ClubRow
	for rows.Next() {
		var row ClubRow
		if err := rows.Scan(&row.ID, &row.StoreID, &row.Name); err != nil {
			return nil, fmt.Errorf("failed to scan club row: %w", err)
		}
		clubs = append(clubs, row)
	}

	return clubs, rows.Err()
}

// ModeratedClubs returns the user's club-moderator assignments.
func (s *PostgresStore) ModeratedClubs(ctx context.Context, userID string) ([]ModeratorRow, error) {
	query := `
		SELECT cm.club_id, cm.user_id, cm.assigned_at
		FROM club_moderators cm
		JOIN book_clubs bc ON bc.id = cm.club_id
		WHERE cm.user_id = $1 AND bc.deleted_at IS NULL
		ORDER BY cm.assigned_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query club moderators: %w", err)
	}
	defer rows.Close()

	var mods []ModeratorRow
	for rows.Next() {
		var row ModeratorRow
		if err := rows.Scan(&row.ClubID, &row.UserID, &row.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan moderator row: %w", err)
		}
		mods = append(mods, row)
	}

	return mods, rows.Err()
}

// RoleFacts fetches all classification facts in one round trip. The four
// statements run on a single connection via a read-only transaction so
// the consolidated path costs one acquire instead of four.
func (s *PostgresStore) RoleFacts(ctx context.Context, userID string) (*RoleFacts, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin role facts tx: %w", err)
	}
	defer tx.Rollback()

	facts := &RoleFacts{}

	var ownerID sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = $1`, PlatformOwnerSettingsKey).Scan(&ownerID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read platform owner setting: %w", err)
	}
	facts.IsPlatformOwner = ownerID.Valid && ownerID.String == userID

	rows, err := tx.QueryContext(ctx, `
		SELECT user_id, store_id, role, created_at, COALESCE(source, '')
		FROM store_admins WHERE user_id = $1 ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query store admins: %w", err)
	}
	for rows.Next() {
		var row StoreAdminRow
		if err := rows.Scan(&row.UserID, &row.StoreID, &row.Role, &row.GrantedAt, &row.Source); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan store admin row: %w", err)
		}
		facts.StoreAdmins = append(facts.StoreAdmins, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.QueryContext(ctx, `
		SELECT id, store_id, name
		FROM book_clubs WHERE lead_user_id = $1 AND deleted_at IS NULL ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query led clubs: %w", err)
	}
	for rows.Next() {
		var row ClubRow
		if err := rows.Scan(&row.ID, &row.StoreID, &row.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan club row: %w", err)
		}
		facts.LedClubs = append(facts.LedClubs, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.QueryContext(ctx, `
		SELECT cm.club_id, cm.user_id, cm.assigned_at
		FROM club_moderators cm
		JOIN book_clubs bc ON bc.id = cm.club_id
		WHERE cm.user_id = $1 AND bc.deleted_at IS NULL
		ORDER BY cm.assigned_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query club moderators: %w", err)
	}
	for rows.Next() {
		var row ModeratorRow
		if err := rows.Scan(&row.ClubID, &row.UserID, &row.AssignedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan moderator row: %w", err)
		}
		facts.ModeratedClubs = append(facts.ModeratedClubs, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit role facts tx: %w", err)
	}

	return facts, nil
}

// UserTier returns the user's stored membership tier. A missing user row
// reads as the base tier rather than an error.
func (s *PostgresStore) UserTier(ctx context.Context, userID string) (string, error) {
	query := `SELECT membership_tier FROM users WHERE id = $1`

	var tier string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&tier)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read user tier: %w", err)
	}

	return tier, nil
}

// CountLedClubs counts the user's non-deleted led clubs.
func (s *PostgresStore) CountLedClubs(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM book_clubs
		WHERE lead_user_id = $1 AND deleted_at IS NULL
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count led clubs: %w", err)
	}

	return count, nil
}

// CountJoinedClubs counts the user's active memberships in non-deleted clubs.
func (s *PostgresStore) CountJoinedClubs(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM club_members m
		JOIN book_clubs bc ON bc.id = m.club_id
		WHERE m.user_id = $1 AND m.left_at IS NULL AND bc.deleted_at IS NULL
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count joined clubs: %w", err)
	}

	return count, nil
}

// ClubInStore reports whether the club belongs to the store.
func (s *PostgresStore) ClubInStore(ctx context.Context, clubID, storeID string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM book_clubs
		WHERE id = $1 AND store_id = $2 AND deleted_at IS NULL
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, clubID, storeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check club store membership: %w", err)
	}

	return count > 0, nil
}

// SessionUserID resolves a session token to a user id.
func (s *PostgresStore) SessionUserID(ctx context.Context, token string) (string, error) {
	query := `
		SELECT user_id FROM sessions
		WHERE token = $1 AND expires_at > CURRENT_TIMESTAMP
	`

	var userID string
	err := s.db.QueryRowContext(ctx, query, token).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up session: %w", err)
	}

	return userID, nil
}

// InsertActivity persists one activity-tracking event.
func (s *PostgresStore) InsertActivity(ctx context.Context, id, userID, capability, contextType, contextID string, at time.Time) error {
	query := `
		INSERT INTO activity_events (id, user_id, capability, context_type, context_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := s.db.ExecContext(ctx, query, id, userID, capability, contextType, contextID, at); err != nil {
		return fmt.Errorf("failed to insert activity event: %w", err)
	}

	return nil
}
