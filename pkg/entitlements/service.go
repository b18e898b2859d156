package entitlements

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Service is the exported surface the rest of the application calls:
// cached entitlement lookup and invalidation.
type Service struct {
	cache *Cache
	log   *logrus.Logger
}

// NewService creates a new Service
func NewService(cache *Cache, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{cache: cache, log: log}
}

// GetUserEntitlements returns the user's capability list, served from
// cache unless stale or forceRefresh is set. The only error is a
// malformed user id, rejected before any external call.
func (s *Service) GetUserEntitlements(ctx context.Context, userID string, forceRefresh bool) ([]string, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.cache.Get(ctx, userID, forceRefresh), nil
}

// InvalidateUserEntitlements drops the user's cached entitlements so the
// next lookup recomputes them.
func (s *Service) InvalidateUserEntitlements(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	s.cache.Invalidate(ctx, userID)
}

// InvalidateUsersEntitlements invalidates several users at once.
func (s *Service) InvalidateUsersEntitlements(ctx context.Context, userIDs []string) {
	s.cache.InvalidateMany(ctx, userIDs)
}

// Cache exposes the underlying cache for stats and listener wiring.
func (s *Service) Cache() *Cache {
	return s.cache
}
