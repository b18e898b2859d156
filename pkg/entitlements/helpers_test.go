package entitlements

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chapterhouse/bookclub/pkg/store"
	"github.com/chapterhouse/bookclub/pkg/subscriptions"
)

// quietLogger keeps expected-failure noise out of test output.
func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeStore implements store.Store with overridable behavior per method.
// Nil fields answer with empty results.
type fakeStore struct {
	platformOwnerID func(ctx context.Context) (string, error)
	storeAdminRoles func(ctx context.Context, userID string) ([]store.StoreAdminRow, error)
	ledClubs        func(ctx context.Context, userID string) ([]store.ClubRow, error)
	moderatedClubs  func(ctx context.Context, userID string) ([]store.ModeratorRow, error)
	roleFacts       func(ctx context.Context, userID string) (*store.RoleFacts, error)
	userTier        func(ctx context.Context, userID string) (string, error)
	countLedClubs   func(ctx context.Context, userID string) (int, error)
	countJoined     func(ctx context.Context, userID string) (int, error)
	clubInStore     func(ctx context.Context, clubID, storeID string) (bool, error)
	sessionUserID   func(ctx context.Context, token string) (string, error)
}

func (f *fakeStore) PlatformOwnerID(ctx context.Context) (string, error) {
	if f.platformOwnerID != nil {
		return f.platformOwnerID(ctx)
	}
	return "", nil
}

func (f *fakeStore) StoreAdminRoles(ctx context.Context, userID string) ([]store.StoreAdminRow, error) {
	if f.storeAdminRoles != nil {
		return f.storeAdminRoles(ctx, userID)
	}
	return nil, nil
}

func (f *fakeStore) LedClubs(ctx context.Context, userID string) ([]store.ClubRow, error) {
	if f.ledClubs != nil {
		return f.ledClubs(ctx, userID)
	}
	return nil, nil
}

func (f *fakeStore) ModeratedClubs(ctx context.Context, userID string) ([]store.ModeratorRow, error) {
	if f.moderatedClubs != nil {
		return f.moderatedClubs(ctx, userID)
	}
	return nil, nil
}

func (f *fakeStore) RoleFacts(ctx context.Context, userID string) (*store.RoleFacts, error) {
	if f.roleFacts != nil {
		return f.roleFacts(ctx, userID)
	}

	// Default to composing the individual answers so consolidated and
	// concurrent strategies observe the same data.
	facts := &store.RoleFacts{}
	ownerID, err := f.PlatformOwnerID(ctx)
	if err != nil {
		return nil, err
	}
	facts.IsPlatformOwner = ownerID != "" && ownerID == userID
	if facts.StoreAdmins, err = f.StoreAdminRoles(ctx, userID); err != nil {
		return nil, err
	}
	if facts.LedClubs, err = f.LedClubs(ctx, userID); err != nil {
		return nil, err
	}
	if facts.ModeratedClubs, err = f.ModeratedClubs(ctx, userID); err != nil {
		return nil, err
	}
	return facts, nil
}

func (f *fakeStore) UserTier(ctx context.Context, userID string) (string, error) {
	if f.userTier != nil {
		return f.userTier(ctx, userID)
	}
	return "", nil
}

func (f *fakeStore) CountLedClubs(ctx context.Context, userID string) (int, error) {
	if f.countLedClubs != nil {
		return f.countLedClubs(ctx, userID)
	}
	return 0, nil
}

func (f *fakeStore) CountJoinedClubs(ctx context.Context, userID string) (int, error) {
	if f.countJoined != nil {
		return f.countJoined(ctx, userID)
	}
	return 0, nil
}

func (f *fakeStore) ClubInStore(ctx context.Context, clubID, storeID string) (bool, error) {
	if f.clubInStore != nil {
		return f.clubInStore(ctx, clubID, storeID)
	}
	return false, nil
}

func (f *fakeStore) SessionUserID(ctx context.Context, token string) (string, error) {
	if f.sessionUserID != nil {
		return f.sessionUserID(ctx, token)
	}
	return "", store.ErrSessionNotFound
}

// fakeSubs implements subscriptions.Service.
type fakeSubs struct {
	status func(ctx context.Context, userID string) (*subscriptions.Status, error)
	active func(ctx context.Context, userID string) (bool, error)
}

func (f *fakeSubs) GetStatus(ctx context.Context, userID string) (*subscriptions.Status, error) {
	if f.status != nil {
		return f.status(ctx, userID)
	}
	return &subscriptions.Status{UserID: userID, CurrentTier: "MEMBER", IsValid: true}, nil
}

func (f *fakeSubs) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	if f.active != nil {
		return f.active(ctx, userID)
	}
	return false, nil
}

// adminRow builds one store-administrator row.
func adminRow(userID, storeID string, role store.AdminRole) store.StoreAdminRow {
	return store.StoreAdminRow{
		UserID:    userID,
		StoreID:   storeID,
		Role:      role,
		GrantedAt: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}
