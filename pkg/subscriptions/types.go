package subscriptions

import (
	"context"
	"time"
)

// SubscriptionStatus represents the status of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
)

// Status is the answer the entitlements calculator needs from the
// billing side: which tier the user is on right now and whether the
// subscription backing it is live.
type Status struct {
	UserID                string             `json:"user_id"`
	CurrentTier           string             `json:"current_tier"`
	HasActiveSubscription bool               `json:"has_active_subscription"`
	IsValid               bool               `json:"is_valid"`
	Subscription          SubscriptionStatus `json:"subscription_status,omitempty"`
	CurrentPeriodEnd      *time.Time         `json:"current_period_end,omitempty"`
}

// Service defines the interface for subscription-status lookups
type Service interface {
	// GetStatus returns the user's current subscription status. Users
	// with no subscription row are valid members of the base tier.
	GetStatus(ctx context.Context, userID string) (*Status, error)

	// HasActiveSubscription reports whether the user has a live paid
	// subscription.
	HasActiveSubscription(ctx context.Context, userID string) (bool, error)
}
