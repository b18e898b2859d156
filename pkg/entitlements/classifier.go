package entitlements

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/chapterhouse/bookclub/pkg/featureflags"
	"github.com/chapterhouse/bookclub/pkg/observability"
	"github.com/chapterhouse/bookclub/pkg/store"
)

// Classifier determines which administrative and user roles a user
// holds. Sub-query failures are logged and contribute no roles, so a
// degraded backend always yields fewer privileges, never more.
type Classifier struct {
	store   store.Store
	flags   featureflags.Provider
	log     *logrus.Logger
	metrics *observability.Metrics
}

// NewClassifier creates a new Classifier. flags and metrics may be nil.
func NewClassifier(st store.Store, flags featureflags.Provider, log *logrus.Logger, metrics *observability.Metrics) *Classifier {
	if log == nil {
		log = logrus.New()
	}
	return &Classifier{
		store:   st,
		flags:   flags,
		log:     log,
		metrics: metrics,
	}
}

// Classify determines the user's role classification. The consolidated
// single-round-trip strategy is used when its flag is on, with a
// transparent fallback to four concurrent queries on failure; both
// strategies produce identical classifications for the same data.
func (c *Classifier) Classify(ctx context.Context, userID string) (*RoleClassification, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	facts := c.fetchFacts(ctx, userID)
	return c.buildClassification(userID, facts), nil
}

func (c *Classifier) fetchFacts(ctx context.Context, userID string) *store.RoleFacts {
	if c.consolidatedEnabled(ctx) {
		facts, err := c.store.RoleFacts(ctx, userID)
		if err == nil {
			return facts
		}
		c.log.WithError(err).WithField("user_id", userID).
			Warn("consolidated role classification failed, falling back to concurrent queries")
		if c.metrics != nil {
			c.metrics.ClassifierFallbacksTotal.Inc()
		}
	}
	return c.fetchFactsConcurrent(ctx, userID)
}

func (c *Classifier) consolidatedEnabled(ctx context.Context) bool {
	if c.flags == nil {
		return false
	}
	enabled, err := c.flags.IsEnabled(ctx, featureflags.FlagConsolidatedRoleClassification)
	if err != nil {
		c.log.WithError(err).Warn("consolidated classification flag lookup failed, using concurrent queries")
		return false
	}
	return enabled
}

// fetchFactsConcurrent issues the four fact lookups concurrently. The
// lookups read disjoint data, so there is no ordering dependency; each
// failure is absorbed as "no roles from this source".
func (c *Classifier) fetchFactsConcurrent(ctx context.Context, userID string) *store.RoleFacts {
	facts := &store.RoleFacts{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ownerID, err := c.store.PlatformOwnerID(gctx)
		if err != nil {
			c.subQueryFailed("platform_owner", userID, err)
			return nil
		}
		facts.IsPlatformOwner = ownerID != "" && ownerID == userID
		return nil
	})

	g.Go(func() error {
		admins, err := c.store.StoreAdminRoles(gctx, userID)
		if err != nil {
			c.subQueryFailed("store_admins", userID, err)
			return nil
		}
		facts.StoreAdmins = admins
		return nil
	})

	g.Go(func() error {
		clubs, err := c.store.LedClubs(gctx, userID)
		if err != nil {
			c.subQueryFailed("led_clubs", userID, err)
			return nil
		}
		facts.LedClubs = clubs
		return nil
	})

	g.Go(func() error {
		mods, err := c.store.ModeratedClubs(gctx, userID)
		if err != nil {
			c.subQueryFailed("moderated_clubs", userID, err)
			return nil
		}
		facts.ModeratedClubs = mods
		return nil
	})

	// The goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()

	return facts
}

func (c *Classifier) subQueryFailed(source, userID string, err error) {
	c.log.WithError(err).WithFields(logrus.Fields{
		"source":  source,
		"user_id": userID,
	}).Warn("role classification sub-query failed, treating as no roles from this source")
	if c.metrics != nil {
		c.metrics.ClassifierQueryErrors.WithLabelValues(source).Inc()
	}
}

// buildClassification applies the combination rule. Exemption is
// monotonic: any administrative role wins unconditionally.
func (c *Classifier) buildClassification(userID string, facts *store.RoleFacts) *RoleClassification {
	rc := &RoleClassification{UserID: userID}

	if facts.IsPlatformOwner {
		rc.AdministrativeRoles = append(rc.AdministrativeRoles, AdministrativeRole{
			Role:   RolePlatformOwner,
			Source: "app_settings",
		})
	}
	for _, admin := range facts.StoreAdmins {
		role := RoleStoreManager
		if admin.Role == store.AdminRoleOwner {
			role = RoleStoreOwner
		}
		rc.AdministrativeRoles = append(rc.AdministrativeRoles, AdministrativeRole{
			Role:      role,
			StoreID:   admin.StoreID,
			GrantedAt: admin.GrantedAt,
			Source:    admin.Source,
		})
	}

	for _, club := range facts.LedClubs {
		rc.UserRoles = append(rc.UserRoles, UserRole{
			Role:   RoleClubLead,
			ClubID: club.ID,
		})
	}
	for _, mod := range facts.ModeratedClubs {
		rc.UserRoles = append(rc.UserRoles, UserRole{
			Role:       RoleClubModerator,
			ClubID:     mod.ClubID,
			AssignedAt: mod.AssignedAt,
		})
	}

	rc.ExemptFromValidation = len(rc.AdministrativeRoles) > 0
	rc.RequiresSubscriptionValidation = !rc.ExemptFromValidation && len(rc.UserRoles) > 0

	switch {
	case rc.ExemptFromValidation:
		rc.Reason = "exempt from subscription validation: " + joinRoleNames(administrativeRoleNames(rc.AdministrativeRoles))
	case rc.RequiresSubscriptionValidation:
		rc.Reason = "subscription validation required: " + joinRoleNames(userRoleNames(rc.UserRoles))
	default:
		rc.Reason = "standard member, no subscription validation required"
	}

	return rc
}

// administrativeRoleNames returns distinct role names in fixed
// precedence order so reason strings are deterministic.
func administrativeRoleNames(roles []AdministrativeRole) []Role {
	return distinctRoles([]Role{RolePlatformOwner, RoleStoreOwner, RoleStoreManager}, func(r Role) bool {
		for _, a := range roles {
			if a.Role == r {
				return true
			}
		}
		return false
	})
}

func userRoleNames(roles []UserRole) []Role {
	return distinctRoles([]Role{RoleClubLead, RoleClubModerator}, func(r Role) bool {
		for _, u := range roles {
			if u.Role == r {
				return true
			}
		}
		return false
	})
}

func distinctRoles(order []Role, held func(Role) bool) []Role {
	var out []Role
	for _, r := range order {
		if held(r) {
			out = append(out, r)
		}
	}
	return out
}

func joinRoleNames(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
