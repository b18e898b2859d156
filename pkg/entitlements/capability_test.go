package entitlements

import (
	"sort"
	"testing"
)

func TestCapabilityString(t *testing.T) {
	tests := []struct {
		name string
		cap  Capability
		want string
	}{
		{name: "global", cap: Global(CapManageAllClubs), want: "CAN_MANAGE_ALL_CLUBS"},
		{name: "club lead", cap: Contextual(CapClubLeadPrefix, "club-42"), want: "CLUB_LEAD_club-42"},
		{name: "store owner", cap: Contextual(CapStoreOwnerPrefix, "store-7"), want: "STORE_OWNER_store-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cap.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCapabilityIsContextual(t *testing.T) {
	if Global(CapViewPublicClubs).IsContextual() {
		t.Error("Global capability reported contextual")
	}
	if !Contextual(CapClubModeratorPrefix, "club-1").IsContextual() {
		t.Error("Contextual capability reported global")
	}
}

func TestSetDeduplicatesAndSorts(t *testing.T) {
	s := NewSet(CapViewPublicClubs, CapJoinPublicClubs, CapViewPublicClubs)
	s.Add(CapEditOwnProfile)
	s.AddAll([]string{CapJoinPublicClubs, CapRSVPToEvents})

	list := s.List()
	if len(list) != 4 {
		t.Fatalf("Expected 4 distinct capabilities, got %d: %v", len(list), list)
	}
	if !sort.StringsAreSorted(list) {
		t.Errorf("Expected sorted output, got %v", list)
	}
}

func TestSetHasContextual(t *testing.T) {
	s := NewSet(Contextual(CapClubLeadPrefix, "club-1").String())

	if !s.HasContextual(CapClubLeadPrefix, "club-1") {
		t.Error("Expected contextual membership")
	}
	if s.HasContextual(CapClubLeadPrefix, "club-2") {
		t.Error("Unexpected membership for other club")
	}
	if s.HasContextual(CapClubModeratorPrefix, "club-1") {
		t.Error("Unexpected membership for other prefix")
	}
}

func TestSplitContextual(t *testing.T) {
	tests := []struct {
		name   string
		cap    string
		prefix string
		wantID string
		wantOK bool
	}{
		{name: "match", cap: "CLUB_LEAD_club-9", prefix: CapClubLeadPrefix, wantID: "club-9", wantOK: true},
		{name: "id with underscore", cap: "STORE_OWNER_store_main", prefix: CapStoreOwnerPrefix, wantID: "store_main", wantOK: true},
		{name: "wrong prefix", cap: "CLUB_LEAD_club-9", prefix: CapStoreOwnerPrefix, wantOK: false},
		{name: "global capability", cap: CapManageAllClubs, prefix: CapClubLeadPrefix, wantOK: false},
		{name: "bare prefix", cap: CapClubLeadPrefix, prefix: CapClubLeadPrefix, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := SplitContextual(tt.cap, tt.prefix)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("SplitContextual(%q, %q) = (%q, %v), want (%q, %v)",
					tt.cap, tt.prefix, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
