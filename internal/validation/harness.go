package validation

import (
	"strings"

	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/devotional"
)

// Out-of-band artifact validation. Loads a stored artifact and re-runs
// only its content-specific check, by wrapping the artifact in a
// synthetic stub section guaranteed to pass the unrelated checks and
// filtering the validator output down to the check of interest. Never
// mutates the store.

const groundingCheckID = "EXPOSITION_GROUNDING_MAP"

var stubExpositionText = strings.Repeat("grace ", 499) + "grace"

// CheckStoredGroundingMap loads a grounding map by id and returns only
// the grounding-completeness assessment. Load failures (missing id,
// corrupt or schema-invalid bytes) propagate.
func CheckStoredGroundingMap(id string, store *artifact.GroundingStore) ([]Assessment, error) {
	gm, err := store.Load(id)
	if err != nil {
		return nil, err
	}

	stub := devotional.Exposition{
		Text:           stubExpositionText,
		WordCount:      500,
		GroundingMapID: id,
		ApprovalStatus: devotional.ApprovalPending,
	}

	var out []Assessment
	for _, a := range ValidateExposition(stub, &gm) {
		if a.CheckID == groundingCheckID {
			out = append(out, a)
		}
	}
	return out, nil
}

const traceCheckID = "PRAYER_TRACE_MAP"

// 150 words, opens with a Trinity address: passes the word-count and
// address checks so only the trace check can fail.
var stubPrayerText = "Father, " + strings.Repeat("grace ", 148) + "grace"

// CheckStoredPrayerTraceMap is the prayer analogue of
// CheckStoredGroundingMap: loads a trace map by id and returns only the
// trace-completeness assessment.
func CheckStoredPrayerTraceMap(id string, store *artifact.TraceStore) ([]Assessment, error) {
	ptm, err := store.Load(id)
	if err != nil {
		return nil, err
	}

	stub := devotional.Prayer{
		Text:             stubPrayerText,
		WordCount:        150,
		PrayerTraceMapID: id,
		ApprovalStatus:   devotional.ApprovalPending,
	}

	var out []Assessment
	for _, a := range ValidatePrayer(stub, &ptm) {
		if a.CheckID == traceCheckID {
			out = append(out, a)
		}
	}
	return out, nil
}
