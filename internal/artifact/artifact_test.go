package artifact

import (
	"errors"
	"strings"
	"testing"

	"github.com/kalambet/devo/internal/devotional"
)

func fullEntries() []GroundingEntry {
	entries := make([]GroundingEntry, 4)
	names := []string{"declaration", "context", "theological", "bridge"}
	for i := range entries {
		entries[i] = GroundingEntry{
			ParagraphNumber: i + 1,
			ParagraphName:   names[i],
			Sources:         []string{"Mere Christianity"},
			Excerpts:        []string{"an excerpt"},
			Justification:   "informed the paragraph",
		}
	}
	return entries
}

func TestGroundingMapID_Deterministic(t *testing.T) {
	a := GroundingMapID("expo-1")
	b := GroundingMapID("expo-1")
	if a != b {
		t.Errorf("same key produced %q and %q", a, b)
	}
	if !strings.HasPrefix(a, "gm_") || len(a) != len("gm_")+8 {
		t.Errorf("id %q does not match gm_ plus 8 hex chars", a)
	}
	if a == GroundingMapID("expo-2") {
		t.Error("different keys produced the same id")
	}
	if !strings.HasPrefix(PrayerTraceMapID("prayer-1"), "ptm_") {
		t.Errorf("trace id = %q, want ptm_ prefix", PrayerTraceMapID("prayer-1"))
	}
}

func TestNewGroundingMap_RejectsBadEntrySets(t *testing.T) {
	three := fullEntries()[:3]
	if _, err := NewGroundingMap("gm-1", "expo-1", three); err == nil {
		t.Error("want error for 3 entries")
	}

	noSources := fullEntries()
	noSources[1].Sources = nil
	if _, err := NewGroundingMap("gm-1", "expo-1", noSources); err == nil {
		t.Error("want error for entry without sources")
	}

	if _, err := NewGroundingMap("gm-1", "expo-1", fullEntries()); err != nil {
		t.Errorf("valid entries rejected: %v", err)
	}
}

func TestNewPrayerTraceMap_RejectsUnknownSourceType(t *testing.T) {
	_, err := NewPrayerTraceMap("ptm-1", "prayer-1", []TraceEntry{
		{ElementText: "x", SourceType: "sermon", SourceReference: "y"},
	})
	if err == nil {
		t.Error("want error for unknown source_type")
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewGroundingStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}

	gm, err := NewGroundingMap("gm-rt", "expo-1", fullEntries())
	if err != nil {
		t.Fatalf("building map: %v", err)
	}
	if err := store.Save(gm); err != nil {
		t.Fatalf("saving: %v", err)
	}

	got, err := store.Load("gm-rt")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if got.ExpositionID != "expo-1" || len(got.Entries) != 4 {
		t.Errorf("loaded map = %+v", got)
	}
	if !store.Exists("gm-rt") {
		t.Error("Exists = false after save")
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store, err := NewTraceStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	if _, err := store.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if store.Exists("nope") {
		t.Error("Exists = true for missing id")
	}
}

func TestStore_SaveRefusesInvalid(t *testing.T) {
	store, err := NewGroundingStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	bad := GroundingMap{ID: "gm-bad", ExpositionID: "expo-1", Entries: fullEntries()[:2]}
	if err := store.Save(bad); err == nil {
		t.Error("want error when persisting an invalid artifact")
	}
	if store.Exists("gm-bad") {
		t.Error("invalid artifact reached disk")
	}
}

func TestResolveGroundingMap(t *testing.T) {
	store, err := NewGroundingStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}

	// Empty id: nothing was grounded, not an error.
	gm, err := ResolveGroundingMap(devotional.Exposition{}, store)
	if err != nil || gm != nil {
		t.Errorf("empty id: got (%v, %v), want (nil, nil)", gm, err)
	}

	// Set-but-missing id must propagate.
	_, err = ResolveGroundingMap(devotional.Exposition{GroundingMapID: "gm-gone"}, store)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}

	saved, err := NewGroundingMap("gm-here", "expo-1", fullEntries())
	if err != nil {
		t.Fatalf("building map: %v", err)
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("saving: %v", err)
	}
	gm, err = ResolveGroundingMap(devotional.Exposition{GroundingMapID: "gm-here"}, store)
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}
	if gm == nil || gm.ID != "gm-here" {
		t.Errorf("resolved map = %+v", gm)
	}
}
