package middleware

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chapterhouse/bookclub/pkg/entitlements"
	"github.com/chapterhouse/bookclub/pkg/store"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeStore implements store.Store for middleware tests. Sessions map
// tokens to user ids; counts are fixed per user.
type fakeStore struct {
	sessions    map[string]string
	ledCounts   map[string]int
	joinCounts  map[string]int
	countErr    error
	clubInStore func(ctx context.Context, clubID, storeID string) (bool, error)
}

func (f *fakeStore) PlatformOwnerID(context.Context) (string, error) { return "", nil }

func (f *fakeStore) StoreAdminRoles(context.Context, string) ([]store.StoreAdminRow, error) {
	return nil, nil
}

func (f *fakeStore) LedClubs(context.Context, string) ([]store.ClubRow, error) { return nil, nil }

func (f *fakeStore) ModeratedClubs(context.Context, string) ([]store.ModeratorRow, error) {
	return nil, nil
}

func (f *fakeStore) RoleFacts(context.Context, string) (*store.RoleFacts, error) {
	return &store.RoleFacts{}, nil
}

func (f *fakeStore) UserTier(context.Context, string) (string, error) { return "", nil }

func (f *fakeStore) CountLedClubs(_ context.Context, userID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.ledCounts[userID], nil
}

func (f *fakeStore) CountJoinedClubs(_ context.Context, userID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.joinCounts[userID], nil
}

func (f *fakeStore) ClubInStore(ctx context.Context, clubID, storeID string) (bool, error) {
	if f.clubInStore != nil {
		return f.clubInStore(ctx, clubID, storeID)
	}
	return false, nil
}

func (f *fakeStore) SessionUserID(_ context.Context, token string) (string, error) {
	if userID, ok := f.sessions[token]; ok {
		return userID, nil
	}
	return "", store.ErrSessionNotFound
}

// newCapService builds an entitlements.Service serving fixed capability
// lists per user id.
func newCapService(t *testing.T, capsByUser map[string][]string) *entitlements.Service {
	t.Helper()

	cache, err := entitlements.NewCache(func(_ context.Context, userID string) []string {
		return capsByUser[userID]
	}, &entitlements.CacheOptions{TTL: time.Minute, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	return entitlements.NewService(cache, quietLogger())
}
