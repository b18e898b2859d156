package contextkeys

import (
	"context"
	"testing"
)

func TestUserIDRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-1")

	if got := UserID(ctx); got != "user-1" {
		t.Errorf("UserID() = %q, want user-1", got)
	}
}

func TestUserIDAbsent(t *testing.T) {
	if got := UserID(context.Background()); got != "" {
		t.Errorf("UserID() on empty context = %q, want empty", got)
	}
}

func TestAuthSourceRoundTrip(t *testing.T) {
	ctx := WithAuthSource(context.Background(), "session")

	if got := AuthSource(ctx); got != "session" {
		t.Errorf("AuthSource() = %q, want session", got)
	}
	if got := AuthSource(context.Background()); got != "" {
		t.Errorf("AuthSource() on empty context = %q, want empty", got)
	}
}
