package featureflags

import (
	"context"
	"sync"
)

// Flag names the entitlements subsystem consults.
const (
	// FlagSubscriptionValidation switches the calculator from the stored
	// membership tier to the subscription collaborator's current tier.
	FlagSubscriptionValidation = "subscription_validation"

	// FlagRoleSubscriptionEnforcement gates club leadership and
	// moderation capability sets on an active subscription.
	FlagRoleSubscriptionEnforcement = "role_subscription_enforcement"

	// FlagConsolidatedRoleClassification selects the single-round-trip
	// classification strategy over four concurrent queries.
	FlagConsolidatedRoleClassification = "consolidated_role_classification"
)

// Provider looks up feature flags. A lookup error means the flag state is
// unknown; callers treat unknown as disabled.
type Provider interface {
	IsEnabled(ctx context.Context, flag string) (bool, error)
}

// StaticProvider serves flags from a fixed map. Unknown flags are
// disabled.
type StaticProvider struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewStaticProvider creates a StaticProvider from the given map.
func NewStaticProvider(flags map[string]bool) *StaticProvider {
	copied := make(map[string]bool, len(flags))
	for k, v := range flags {
		copied[k] = v
	}
	return &StaticProvider{flags: copied}
}

// IsEnabled reports the flag's configured state.
func (p *StaticProvider) IsEnabled(_ context.Context, flag string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.flags[flag], nil
}

// Set updates one flag, mainly for tests and admin tooling.
func (p *StaticProvider) Set(flag string, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flags[flag] = enabled
}
