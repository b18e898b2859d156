package entitlements

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chapterhouse/bookclub/pkg/featureflags"
	"github.com/chapterhouse/bookclub/pkg/observability"
	"github.com/chapterhouse/bookclub/pkg/store"
	"github.com/chapterhouse/bookclub/pkg/subscriptions"
)

// Calculator computes a user's flat capability list from the catalog,
// the role classifier, and the subscription validation gate.
//
// Calculate never fails: every external-call error degrades to the
// least-privileged interpretation of that step, and an unexpected panic
// degrades to the base member set.
type Calculator struct {
	store   store.Store
	subs    subscriptions.Service
	flags   featureflags.Provider
	gate    *ValidationGate
	log     *logrus.Logger
	metrics *observability.Metrics
}

// NewCalculator creates a new Calculator. flags, subs, and metrics may be
// nil; nil collaborators behave as "flag off" and "no subscription".
func NewCalculator(st store.Store, subs subscriptions.Service, flags featureflags.Provider, gate *ValidationGate, log *logrus.Logger, metrics *observability.Metrics) *Calculator {
	if log == nil {
		log = logrus.New()
	}
	return &Calculator{
		store:   st,
		subs:    subs,
		flags:   flags,
		gate:    gate,
		log:     log,
		metrics: metrics,
	}
}

// Calculate returns the user's deduplicated, sorted capability list.
func (c *Calculator) Calculate(ctx context.Context, userID string) (caps []string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithFields(logrus.Fields{
				"user_id": userID,
				"panic":   r,
			}).Error("entitlement calculation panicked, returning base member set")
			if c.metrics != nil {
				c.metrics.CalculatorFallbacksTotal.Inc()
			}
			caps = NewSet(MemberEntitlements...).List()
		}
	}()

	if c.metrics != nil {
		c.metrics.CalculationsTotal.Inc()
	}

	set := NewSet(MemberEntitlements...)

	// Platform owner is an absorbing state: full capability set, no
	// further queries.
	ownerID, err := c.store.PlatformOwnerID(ctx)
	if err != nil {
		c.log.WithError(err).WithField("user_id", userID).Warn("platform owner lookup failed")
	} else if ownerID != "" && ownerID == userID {
		set.AddAll(PlatformOwnerEntitlements)
		return set.List()
	}

	set.AddAll(GetRoleEntitlements(c.membershipTier(ctx, userID)))

	admins, err := c.store.StoreAdminRoles(ctx, userID)
	if err != nil {
		c.log.WithError(err).WithField("user_id", userID).Warn("store admin lookup failed")
	}
	for _, admin := range admins {
		switch admin.Role {
		case store.AdminRoleOwner:
			set.Add(Contextual(CapStoreOwnerPrefix, admin.StoreID).String())
			set.AddAll(StoreOwnerEntitlements)
		case store.AdminRoleManager:
			set.Add(Contextual(CapStoreManagerPrefix, admin.StoreID).String())
			set.AddAll(StoreManagerEntitlements)
		}
	}

	clubs, err := c.store.LedClubs(ctx, userID)
	if err != nil {
		c.log.WithError(err).WithField("user_id", userID).Warn("led clubs lookup failed")
	}
	mods, err := c.store.ModeratedClubs(ctx, userID)
	if err != nil {
		c.log.WithError(err).WithField("user_id", userID).Warn("moderated clubs lookup failed")
	}

	if len(clubs) > 0 || len(mods) > 0 {
		grantPremium := c.premiumRoleSetsGranted(ctx, userID)

		// The contextual tag is granted regardless, preserving basic
		// club-scoped recognition without a paid plan.
		for _, club := range clubs {
			set.Add(Contextual(CapClubLeadPrefix, club.ID).String())
			if grantPremium {
				set.AddAll(ClubLeadEntitlements)
			}
		}
		for _, mod := range mods {
			set.Add(Contextual(CapClubModeratorPrefix, mod.ClubID).String())
			if grantPremium {
				set.AddAll(ClubModeratorEntitlements)
			}
		}
	}

	return set.List()
}

// membershipTier resolves the tier whose capability set seeds the
// calculation. With subscription validation on, the subscription
// collaborator's tier replaces the stored one, failing toward MEMBER.
func (c *Calculator) membershipTier(ctx context.Context, userID string) Role {
	tier := RoleMember

	stored, err := c.store.UserTier(ctx, userID)
	if err != nil {
		c.log.WithError(err).WithField("user_id", userID).Warn("stored tier lookup failed, using MEMBER")
	} else if stored != "" {
		parsed, ok := ParseTier(stored)
		if !ok {
			c.log.WithFields(logrus.Fields{
				"user_id": userID,
				"tier":    stored,
			}).Warn("unrecognized stored tier, using MEMBER")
		}
		tier = parsed
	}

	if !c.flagEnabled(ctx, featureflags.FlagSubscriptionValidation) || c.subs == nil {
		return tier
	}

	status, err := c.subs.GetStatus(ctx, userID)
	if err != nil {
		c.log.WithError(err).WithField("user_id", userID).Warn("subscription status lookup failed, using MEMBER")
		return RoleMember
	}
	validated, _ := ParseTier(status.CurrentTier)
	return validated
}

// premiumRoleSetsGranted decides whether full club leadership and
// moderation sets are unioned in, per role-based subscription
// enforcement.
func (c *Calculator) premiumRoleSetsGranted(ctx context.Context, userID string) bool {
	if !c.flagEnabled(ctx, featureflags.FlagRoleSubscriptionEnforcement) {
		return true
	}

	decision := c.gate.Decide(ctx, userID)
	if !decision.ShouldValidate && len(decision.ExemptRoles) > 0 {
		// Administratively exempt.
		return true
	}
	if !decision.ShouldValidate {
		// No gated roles visible to the classifier; harmless to grant
		// since the caller found club rows anyway.
		return true
	}

	if c.subs == nil {
		return false
	}
	active, err := c.subs.HasActiveSubscription(ctx, userID)
	if err != nil {
		c.log.WithError(err).WithField("user_id", userID).
			Warn("subscription check failed, withholding premium role entitlements")
		return false
	}
	return active
}

func (c *Calculator) flagEnabled(ctx context.Context, flag string) bool {
	if c.flags == nil {
		return false
	}
	enabled, err := c.flags.IsEnabled(ctx, flag)
	if err != nil {
		c.log.WithError(err).WithField("flag", flag).Warn("feature flag lookup failed, treating as disabled")
		return false
	}
	return enabled
}
