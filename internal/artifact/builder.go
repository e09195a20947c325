package artifact

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// excerptPreviewLen caps the stored preview of each excerpt.
const excerptPreviewLen = 80

// defaultParagraphNames labels the four exposition paragraph slots.
var defaultParagraphNames = map[int]string{
	1: "declaration",
	2: "context",
	3: "theological",
	4: "bridge",
}

// SourceExcerpt is the builder's view of one retrieved excerpt.
type SourceExcerpt struct {
	Text        string
	SourceTitle string
}

// GroundingMapBuilder assembles a valid GroundingMap from per-paragraph
// excerpt lists. It fails fast on a missing or empty paragraph rather
// than handing bad data to the map's own structural validator.
//
// The built map carries a fresh random id; callers stamp the
// deterministic id (GroundingMapID) before persisting. Building validates
// structure independent of identity; naming policy is applied after.
type GroundingMapBuilder struct{}

// Build constructs a GroundingMap for expositionID from excerpts keyed by
// paragraph number 1–4. names overrides the default slot labels per key;
// pass nil to keep declaration/context/theological/bridge.
func (GroundingMapBuilder) Build(expositionID string, excerpts map[int][]SourceExcerpt, names map[int]string) (GroundingMap, error) {
	entries := make([]GroundingEntry, 0, 4)
	for para := 1; para <= 4; para++ {
		list, ok := excerpts[para]
		if !ok {
			return GroundingMap{}, fmt.Errorf("paragraph %d missing from excerpts", para)
		}
		if len(list) == 0 {
			return GroundingMap{}, fmt.Errorf("paragraph %d has an empty excerpt list", para)
		}

		// Dedupe source titles preserving first-seen order.
		seen := make(map[string]bool)
		var sources []string
		for _, e := range list {
			if !seen[e.SourceTitle] {
				sources = append(sources, e.SourceTitle)
				seen[e.SourceTitle] = true
			}
		}

		previews := make([]string, len(list))
		for i, e := range list {
			previews[i] = truncate(e.Text, excerptPreviewLen)
		}

		name := defaultParagraphNames[para]
		if n, ok := names[para]; ok {
			name = n
		}

		entries = append(entries, GroundingEntry{
			ParagraphNumber: para,
			ParagraphName:   name,
			Sources:         sources,
			Excerpts:        previews,
			Justification:   fmt.Sprintf("Retrieved %d excerpt(s) from %d source(s).", len(list), len(sources)),
		})
	}

	return NewGroundingMap(uuid.NewString(), expositionID, entries)
}

// truncate caps s at n bytes without splitting a rune, so previews stay
// valid UTF-8 and survive a JSON save/load cycle byte for byte.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var scriptureRef = regexp.MustCompile(`\d+:\d+`)

// ClassifyElement maps one prayer line to its source type: scripture when
// it carries a chapter:verse shape, exposition when it mentions the
// exposition, be_still otherwise.
func ClassifyElement(element string) string {
	if scriptureRef.MatchString(element) {
		return SourceScripture
	}
	if strings.Contains(strings.ToLower(element), "exposition") {
		return SourceExposition
	}
	return SourceBeStill
}

// BuildPrayerTraceMap splits prayer text into non-empty trimmed lines,
// classifies each line, and assembles a PrayerTraceMap carrying the
// deterministic id for prayerID. Scripture-typed entries reference the
// passage; others reference their source kind. Zero parseable elements is
// a hard failure: a trace map cannot be built from nothing.
func BuildPrayerTraceMap(prayerID, prayerText, passageReference string) (PrayerTraceMap, error) {
	var entries []TraceEntry
	for _, line := range strings.Split(prayerText, "\n") {
		el := strings.TrimSpace(line)
		if el == "" {
			continue
		}
		st := ClassifyElement(el)
		ref := st
		if st == SourceScripture {
			ref = passageReference
		}
		entries = append(entries, TraceEntry{
			ElementText:     el,
			SourceType:      st,
			SourceReference: ref,
		})
	}
	if len(entries) == 0 {
		return PrayerTraceMap{}, fmt.Errorf("prayer text produced no parseable elements")
	}
	return NewPrayerTraceMap(PrayerTraceMapID(prayerID), prayerID, entries)
}
