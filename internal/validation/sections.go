package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/devotional"
)

const (
	expositionWordMin = 500
	expositionWordMax = 700
	beStillPromptMin  = 3
	beStillPromptMax  = 5
	actionItemMin     = 1
	actionItemMax     = 3
	prayerWordMin     = 120
	prayerWordMax     = 200
)

var (
	secondPerson   = regexp.MustCompile(`(?i)\b(you|your)\b`)
	trinityAddress = regexp.MustCompile(`(?i)\b(Father|Jesus|Lord|Spirit|God)\b`)
)

// wordCount recomputes from live text. Stored word-count fields are never
// trusted: a generator that lies about its own output must still fail.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

// ValidateExposition checks word count, communal voice, and — when a
// grounding map is supplied — grounding completeness. A nil map omits the
// EXPOSITION_GROUNDING_MAP check entirely; absence is a skip, not a fail.
func ValidateExposition(sec devotional.Exposition, gm *artifact.GroundingMap) []Assessment {
	var results []Assessment

	// --- EXPOSITION_WORD_COUNT ---
	computed := wordCount(sec.Text)
	if computed >= expositionWordMin && computed <= expositionWordMax {
		results = append(results, passed("EXPOSITION_WORD_COUNT"))
	} else {
		results = append(results, Assessment{
			CheckID:     "EXPOSITION_WORD_COUNT",
			Result:      ResultFail,
			ReasonCode:  "EXPOSITION_WORD_COUNT_VIOLATION",
			Explanation: fmt.Sprintf("Exposition is %d words; must be %d–%d.", computed, expositionWordMin, expositionWordMax),
			Evidence:    fmt.Sprintf("computed word count: %d", computed),
		})
	}

	// --- EXPOSITION_VOICE ---
	if m := secondPerson.FindString(sec.Text); m != "" {
		results = append(results, Assessment{
			CheckID:     "EXPOSITION_VOICE",
			Result:      ResultFail,
			ReasonCode:  "EXPOSITION_SECOND_PERSON_VIOLATION",
			Explanation: "Exposition must use communal voice (we/our); second-person (you/your) is prohibited.",
			Evidence:    m,
		})
	} else {
		results = append(results, passed("EXPOSITION_VOICE"))
	}

	// --- EXPOSITION_GROUNDING_MAP (optional) ---
	if gm != nil {
		var incomplete int
		for _, e := range gm.Entries {
			if len(e.Sources) == 0 || len(e.Excerpts) == 0 {
				incomplete++
			}
		}
		if len(gm.Entries) == 4 && incomplete == 0 {
			results = append(results, passed("EXPOSITION_GROUNDING_MAP"))
		} else {
			detail := fmt.Sprintf("%d entries (expected 4)", len(gm.Entries))
			if len(gm.Entries) == 4 {
				detail = fmt.Sprintf("%d entries missing sources or excerpts", incomplete)
			}
			results = append(results, Assessment{
				CheckID:     "EXPOSITION_GROUNDING_MAP",
				Result:      ResultFail,
				ReasonCode:  "EXPOSITION_GROUNDING_MAP_INCOMPLETE",
				Explanation: fmt.Sprintf("Grounding Map must have exactly 4 non-empty entries. Found: %s.", detail),
				Evidence:    detail,
			})
		}
	}

	return results
}

// ValidateBeStill checks prompt count and that at least one prompt
// addresses the reader directly.
func ValidateBeStill(sec devotional.BeStill) []Assessment {
	var results []Assessment

	// --- BE_STILL_PROMPT_COUNT ---
	count := len(sec.Prompts)
	if count >= beStillPromptMin && count <= beStillPromptMax {
		results = append(results, passed("BE_STILL_PROMPT_COUNT"))
	} else {
		results = append(results, Assessment{
			CheckID:     "BE_STILL_PROMPT_COUNT",
			Result:      ResultFail,
			ReasonCode:  "BE_STILL_PROMPT_COUNT_VIOLATION",
			Explanation: fmt.Sprintf("Be Still section has %d prompts; must have %d–%d.", count, beStillPromptMin, beStillPromptMax),
			Evidence:    fmt.Sprintf("prompt count: %d", count),
		})
	}

	// --- BE_STILL_SECOND_PERSON ---
	hasSecondPerson := false
	for _, p := range sec.Prompts {
		if secondPerson.MatchString(p) {
			hasSecondPerson = true
			break
		}
	}
	if hasSecondPerson {
		results = append(results, passed("BE_STILL_SECOND_PERSON"))
	} else {
		results = append(results, Assessment{
			CheckID:     "BE_STILL_SECOND_PERSON",
			Result:      ResultFail,
			ReasonCode:  "BE_STILL_SECOND_PERSON_ABSENT",
			Explanation: "Be Still prompts must address the reader directly; no prompt contains explicit second-person language (you/your).",
			Evidence:    "none of the prompts contain 'you' or 'your'",
		})
	}

	return results
}

// ValidateActionSteps checks item count and connector phrase presence.
func ValidateActionSteps(sec devotional.ActionSteps) []Assessment {
	var results []Assessment

	// --- ACTION_STEPS_COUNT ---
	count := len(sec.Items)
	if count >= actionItemMin && count <= actionItemMax {
		results = append(results, passed("ACTION_STEPS_COUNT"))
	} else {
		results = append(results, Assessment{
			CheckID:     "ACTION_STEPS_COUNT",
			Result:      ResultFail,
			ReasonCode:  "ACTION_STEPS_COUNT_VIOLATION",
			Explanation: fmt.Sprintf("Action Steps has %d items; must have %d–%d.", count, actionItemMin, actionItemMax),
			Evidence:    fmt.Sprintf("item count: %d", count),
		})
	}

	// --- ACTION_STEPS_CONNECTOR_PHRASE ---
	if strings.TrimSpace(sec.ConnectorPhrase) != "" {
		results = append(results, passed("ACTION_STEPS_CONNECTOR_PHRASE"))
	} else {
		results = append(results, Assessment{
			CheckID:     "ACTION_STEPS_CONNECTOR_PHRASE",
			Result:      ResultFail,
			ReasonCode:  "ACTION_STEPS_CONNECTOR_PHRASE_MISSING",
			Explanation: "Action Steps must have a non-empty connector phrase.",
			Evidence:    fmt.Sprintf("%q", sec.ConnectorPhrase),
		})
	}

	return results
}

// ValidatePrayer checks word count, Trinity address, and — when a trace
// map is supplied — trace completeness. A nil map omits the
// PRAYER_TRACE_MAP check. An empty entry list on a supplied map is a
// content failure, not a schema error: emptiness is a runtime fact to
// validate, not prevent.
func ValidatePrayer(sec devotional.Prayer, ptm *artifact.PrayerTraceMap) []Assessment {
	var results []Assessment

	// --- PRAYER_WORD_COUNT ---
	computed := wordCount(sec.Text)
	if computed >= prayerWordMin && computed <= prayerWordMax {
		results = append(results, passed("PRAYER_WORD_COUNT"))
	} else {
		results = append(results, Assessment{
			CheckID:     "PRAYER_WORD_COUNT",
			Result:      ResultFail,
			ReasonCode:  "PRAYER_WORD_COUNT_VIOLATION",
			Explanation: fmt.Sprintf("Prayer is %d words; must be %d–%d.", computed, prayerWordMin, prayerWordMax),
			Evidence:    fmt.Sprintf("computed word count: %d", computed),
		})
	}

	// --- PRAYER_TRINITY_ADDRESS ---
	if trinityAddress.MatchString(sec.Text) {
		results = append(results, passed("PRAYER_TRINITY_ADDRESS"))
	} else {
		results = append(results, Assessment{
			CheckID:     "PRAYER_TRINITY_ADDRESS",
			Result:      ResultFail,
			ReasonCode:  "PRAYER_TRINITY_ADDRESS_MISSING",
			Explanation: "Prayer must address at least one person of the Trinity (Father, Jesus, Lord, Spirit, or God).",
			Evidence:    "no Trinity name found in prayer text",
		})
	}

	// --- PRAYER_TRACE_MAP (optional) ---
	if ptm != nil {
		var invalid int
		for _, e := range ptm.Entries {
			switch e.SourceType {
			case artifact.SourceScripture, artifact.SourceExposition, artifact.SourceBeStill:
			default:
				invalid++
			}
		}
		if len(ptm.Entries) > 0 && invalid == 0 {
			results = append(results, passed("PRAYER_TRACE_MAP"))
		} else {
			detail := "Prayer Trace Map has no entries"
			if len(ptm.Entries) > 0 {
				detail = fmt.Sprintf("%d entries have invalid source_type; must be one of [be_still exposition scripture]", invalid)
			}
			results = append(results, Assessment{
				CheckID:     "PRAYER_TRACE_MAP",
				Result:      ResultFail,
				ReasonCode:  "PRAYER_TRACE_MAP_INCOMPLETE",
				Explanation: fmt.Sprintf("All prayer elements must be traceable to scripture, exposition, or be_still. %s.", detail),
				Evidence:    detail,
			})
		}
	}

	return results
}
