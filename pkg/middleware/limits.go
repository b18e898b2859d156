package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/chapterhouse/bookclub/pkg/entitlements"
	"github.com/chapterhouse/bookclub/pkg/store"
)

// Membership-limit constants per tier. Counting is soft-delete aware:
// deleted clubs never count against a limit.
const (
	// PrivilegedMaxLedClubs caps club creation at the PRIVILEGED tier.
	PrivilegedMaxLedClubs = 3

	// MemberMaxJoinedClubs caps club joining at the MEMBER tier.
	MemberMaxJoinedClubs = 5
)

// ErrMissingContext indicates a context resolver found no context id.
var ErrMissingContext = errors.New("missing request context")

// LimitResult is the structured outcome of a membership-limit check.
type LimitResult struct {
	Allowed       bool              `json:"allowed"`
	Current       int               `json:"current"`
	Limit         int               `json:"limit"` // 0 when unlimited
	Reason        string            `json:"reason,omitempty"`
	SuggestedTier entitlements.Role `json:"suggested_tier,omitempty"`
}

// LimitExceededError wraps a denied LimitResult as an error for callers
// that want error-shaped flow control.
type LimitExceededError struct {
	Result LimitResult
}

// Error implements the error interface.
func (e *LimitExceededError) Error() string {
	return e.Result.Reason
}

// IsLimitExceeded reports whether err is a LimitExceededError.
func IsLimitExceeded(err error) bool {
	var le *LimitExceededError
	return errors.As(err, &le)
}

// LimitChecker enforces numeric membership limits by counting rows in
// the record store and comparing against per-tier thresholds.
type LimitChecker struct {
	svc   *entitlements.Service
	store store.Store
	log   *logrus.Logger
}

// NewLimitChecker creates a new LimitChecker.
func NewLimitChecker(svc *entitlements.Service, st store.Store, log *logrus.Logger) *LimitChecker {
	if log == nil {
		log = logrus.New()
	}
	return &LimitChecker{svc: svc, store: st, log: log}
}

// CheckClubCreation decides whether the user may create another club.
// PRIVILEGED_PLUS is unlimited; PRIVILEGED allows three non-deleted led
// clubs; MEMBER cannot create clubs at all.
func (c *LimitChecker) CheckClubCreation(ctx context.Context, userID string) (*LimitResult, error) {
	caps, err := c.svc.GetUserEntitlements(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	if entitlements.HasEntitlement(caps, entitlements.CapCreateUnlimitedClubs) {
		return &LimitResult{Allowed: true}, nil
	}

	if !entitlements.HasEntitlement(caps, entitlements.CapCreateLimitedClubs) {
		return &LimitResult{
			Allowed:       false,
			Limit:         0,
			Reason:        "club creation requires the PRIVILEGED tier",
			SuggestedTier: entitlements.RolePrivileged,
		}, nil
	}

	count, err := c.store.CountLedClubs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count led clubs: %w", err)
	}

	if count >= PrivilegedMaxLedClubs {
		return &LimitResult{
			Allowed: false,
			Current: count,
			Limit:   PrivilegedMaxLedClubs,
			Reason: fmt.Sprintf("the PRIVILEGED tier allows %d active clubs; upgrade to PRIVILEGED_PLUS for unlimited clubs",
				PrivilegedMaxLedClubs),
			SuggestedTier: entitlements.RolePrivilegedPlus,
		}, nil
	}

	return &LimitResult{Allowed: true, Current: count, Limit: PrivilegedMaxLedClubs}, nil
}

// CheckClubJoin decides whether the user may join another club. Any
// tier with the unlimited-join capability passes without counting.
func (c *LimitChecker) CheckClubJoin(ctx context.Context, userID string) (*LimitResult, error) {
	caps, err := c.svc.GetUserEntitlements(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	if entitlements.HasEntitlement(caps, entitlements.CapJoinUnlimitedClubs) {
		return &LimitResult{Allowed: true}, nil
	}

	count, err := c.store.CountJoinedClubs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count joined clubs: %w", err)
	}

	if count >= MemberMaxJoinedClubs {
		return &LimitResult{
			Allowed: false,
			Current: count,
			Limit:   MemberMaxJoinedClubs,
			Reason: fmt.Sprintf("the MEMBER tier allows joining %d clubs; upgrade to PRIVILEGED for unlimited joins",
				MemberMaxJoinedClubs),
			SuggestedTier: entitlements.RolePrivileged,
		}, nil
	}

	return &LimitResult{Allowed: true, Current: count, Limit: MemberMaxJoinedClubs}, nil
}
