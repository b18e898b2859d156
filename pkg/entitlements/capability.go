package entitlements

import (
	"sort"
	"strings"
)

// Capability is one permission token. Global capabilities have an empty
// ContextID; contextual ones are scoped to a single resource and
// serialize as PREFIX_<contextID>.
type Capability struct {
	Name      string `json:"name"`
	ContextID string `json:"context_id,omitempty"`
}

// Global builds a global capability.
func Global(name string) Capability {
	return Capability{Name: name}
}

// Contextual builds a capability scoped to one resource instance.
func Contextual(prefix, contextID string) Capability {
	return Capability{Name: prefix, ContextID: contextID}
}

// IsContextual reports whether the capability is resource-scoped.
func (c Capability) IsContextual() bool {
	return c.ContextID != ""
}

// String serializes the capability into its flat string form. This is the
// only place the PREFIX_<contextID> encoding is produced.
func (c Capability) String() string {
	if c.ContextID == "" {
		return c.Name
	}
	return c.Name + "_" + c.ContextID
}

// contextualString is the membership test form used by predicates. Kept
// separate from String so the encoding stays in one file.
func contextualString(prefix, contextID string) string {
	return prefix + "_" + contextID
}

// Set is a deduplicating collection of capability strings.
type Set map[string]struct{}

// NewSet creates a Set seeded with the given capabilities.
func NewSet(caps ...string) Set {
	s := make(Set, len(caps))
	s.AddAll(caps)
	return s
}

// Add inserts one capability.
func (s Set) Add(cap string) {
	s[cap] = struct{}{}
}

// AddAll inserts every capability from the list.
func (s Set) AddAll(caps []string) {
	for _, c := range caps {
		s[c] = struct{}{}
	}
}

// Has reports exact membership.
func (s Set) Has(cap string) bool {
	_, ok := s[cap]
	return ok
}

// List returns the capabilities as a sorted slice. Sorting keeps repeated
// calculations byte-comparable.
func (s Set) List() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// HasContextual reports membership of the PREFIX_<contextID> form.
func (s Set) HasContextual(prefix, contextID string) bool {
	return s.Has(contextualString(prefix, contextID))
}

// SplitContextual splits a flat capability string on the last underscore
// separating a known prefix from its context id. It reports false for
// strings that are not contextual forms of the given prefix.
func SplitContextual(cap, prefix string) (contextID string, ok bool) {
	if !strings.HasPrefix(cap, prefix+"_") {
		return "", false
	}
	return cap[len(prefix)+1:], true
}
