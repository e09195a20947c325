// Package artifact manages grounding and prayer-trace artifacts: the
// records that tie generated devotional text back to the retrieved
// sources that informed it. It owns the artifact schemas, deterministic
// id derivation, file-backed persistence, and the builders that assemble
// valid artifacts from retrieval output.
package artifact

import (
	"fmt"
	"slices"
)

// GroundingEntry records the retrieval behind one exposition paragraph
// slot (declaration=1, context=2, theological=3, bridge=4).
type GroundingEntry struct {
	ParagraphNumber int      `json:"paragraph_number"`
	ParagraphName   string   `json:"paragraph_name"`
	Sources         []string `json:"sources_retrieved"`
	Excerpts        []string `json:"excerpts_used"`
	Justification   string   `json:"how_retrieval_informed_paragraph"`
}

// GroundingMap proves an exposition's four paragraphs are each traceable
// to at least one retrieved source. Exactly four entries, none empty —
// enforced at construction and again on load.
type GroundingMap struct {
	ID           string           `json:"id"`
	ExpositionID string           `json:"exposition_id"`
	Entries      []GroundingEntry `json:"entries"`
}

// NewGroundingMap constructs a GroundingMap, rejecting any entry set that
// violates the four-slot contract.
func NewGroundingMap(id, expositionID string, entries []GroundingEntry) (GroundingMap, error) {
	m := GroundingMap{ID: id, ExpositionID: expositionID, Entries: entries}
	if err := m.Validate(); err != nil {
		return GroundingMap{}, err
	}
	return m, nil
}

// ArtifactID returns the map's id.
func (m GroundingMap) ArtifactID() string { return m.ID }

// Validate enforces the structural contract: exactly 4 entries, each with
// at least one source and one excerpt.
func (m GroundingMap) Validate() error {
	if len(m.Entries) != 4 {
		return fmt.Errorf("grounding map must have exactly 4 entries, got %d", len(m.Entries))
	}
	for _, e := range m.Entries {
		if len(e.Sources) == 0 || len(e.Excerpts) == 0 {
			return fmt.Errorf("grounding map entry %d must have non-empty sources and excerpts", e.ParagraphNumber)
		}
	}
	return nil
}

// Valid source types for a prayer-trace entry.
const (
	SourceScripture  = "scripture"
	SourceExposition = "exposition"
	SourceBeStill    = "be_still"
)

var validSourceTypes = []string{SourceBeStill, SourceExposition, SourceScripture}

// TraceEntry attributes one prayer line to its upstream source.
type TraceEntry struct {
	ElementText     string `json:"element_text"`
	SourceType      string `json:"source_type"`
	SourceReference string `json:"source_reference"`
}

// PrayerTraceMap attributes each classified prayer element to scripture,
// exposition, or a be-still prompt. An empty entry list is structurally
// legal; validators treat it as a content failure, not a schema error.
type PrayerTraceMap struct {
	ID       string       `json:"id"`
	PrayerID string       `json:"prayer_id"`
	Entries  []TraceEntry `json:"entries"`
}

// NewPrayerTraceMap constructs a PrayerTraceMap, rejecting entries with
// an unknown source_type.
func NewPrayerTraceMap(id, prayerID string, entries []TraceEntry) (PrayerTraceMap, error) {
	m := PrayerTraceMap{ID: id, PrayerID: prayerID, Entries: entries}
	if err := m.Validate(); err != nil {
		return PrayerTraceMap{}, err
	}
	return m, nil
}

// ArtifactID returns the map's id.
func (m PrayerTraceMap) ArtifactID() string { return m.ID }

// Validate enforces the source_type enum on every entry.
func (m PrayerTraceMap) Validate() error {
	for _, e := range m.Entries {
		if !slices.Contains(validSourceTypes, e.SourceType) {
			return fmt.Errorf("prayer trace entry %q has invalid source_type %q", e.ElementText, e.SourceType)
		}
	}
	return nil
}
