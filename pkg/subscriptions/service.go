package subscriptions

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// baseTier is reported for users with no subscription row.
const baseTier = "MEMBER"

// PostgresService implements Service against a subscriptions table.
type PostgresService struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresService creates a new PostgresService
func NewPostgresService(db *sql.DB) *PostgresService {
	return &PostgresService{db: db, now: time.Now}
}

// GetStatus returns the user's current subscription status.
func (s *PostgresService) GetStatus(ctx context.Context, userID string) (*Status, error) {
	query := `
		SELECT tier, status, current_period_end
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY current_period_end DESC
		LIMIT 1
	`

	var (
		tier      string
		subStatus SubscriptionStatus
		periodEnd time.Time
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&tier, &subStatus, &periodEnd)
	if err == sql.ErrNoRows {
		return &Status{
			UserID:      userID,
			CurrentTier: baseTier,
			IsValid:     true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read subscription: %w", err)
	}

	active := s.isLive(subStatus, periodEnd)
	status := &Status{
		UserID:                userID,
		CurrentTier:           tier,
		HasActiveSubscription: active,
		IsValid:               true,
		Subscription:          subStatus,
		CurrentPeriodEnd:      &periodEnd,
	}
	if !active {
		// Lapsed subscriptions fall back to the base tier.
		status.CurrentTier = baseTier
	}

	return status, nil
}

// HasActiveSubscription reports whether the user has a live paid
// subscription.
func (s *PostgresService) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM subscriptions
		WHERE user_id = $1
		  AND status IN ('active', 'trialing')
		  AND current_period_end > $2
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, s.now()).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}

	return count > 0, nil
}

func (s *PostgresService) isLive(status SubscriptionStatus, periodEnd time.Time) bool {
	if status != SubscriptionStatusActive && status != SubscriptionStatusTrialing {
		return false
	}
	return periodEnd.After(s.now())
}
