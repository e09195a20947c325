package validation

import (
	"strings"
	"testing"

	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/devotional"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("grace ", n))
}

func findAssessment(t *testing.T, assessments []Assessment, checkID string) Assessment {
	t.Helper()
	for _, a := range assessments {
		if a.CheckID == checkID {
			return a
		}
	}
	t.Fatalf("no assessment with check id %q", checkID)
	return Assessment{}
}

func passingGroundingMap(t *testing.T) *artifact.GroundingMap {
	t.Helper()
	gm, err := artifact.NewGroundingMap("gm-test", "expo-1", []artifact.GroundingEntry{
		{ParagraphNumber: 1, ParagraphName: "declaration", Sources: []string{"s"}, Excerpts: []string{"e"}, Justification: "j"},
		{ParagraphNumber: 2, ParagraphName: "context", Sources: []string{"s"}, Excerpts: []string{"e"}, Justification: "j"},
		{ParagraphNumber: 3, ParagraphName: "theological", Sources: []string{"s"}, Excerpts: []string{"e"}, Justification: "j"},
		{ParagraphNumber: 4, ParagraphName: "bridge", Sources: []string{"s"}, Excerpts: []string{"e"}, Justification: "j"},
	})
	if err != nil {
		t.Fatalf("building grounding map: %v", err)
	}
	return &gm
}

func TestValidateExposition_WordCountBounds(t *testing.T) {
	tests := []struct {
		name     string
		wordQty  int
		wantPass bool
	}{
		{"below minimum", 499, false},
		{"at minimum", 500, true},
		{"at maximum", 700, true},
		{"above maximum", 701, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := devotional.Exposition{Text: words(tt.wordQty)}
			a := findAssessment(t, ValidateExposition(sec, nil), "EXPOSITION_WORD_COUNT")
			if (a.Result == ResultPass) != tt.wantPass {
				t.Errorf("result = %s, want pass=%v", a.Result, tt.wantPass)
			}
			if !tt.wantPass && a.ReasonCode != "EXPOSITION_WORD_COUNT_VIOLATION" {
				t.Errorf("reason code = %q, want EXPOSITION_WORD_COUNT_VIOLATION", a.ReasonCode)
			}
		})
	}
}

func TestValidateExposition_IgnoresStoredWordCount(t *testing.T) {
	// The stored field lies; the validator must recount from text.
	sec := devotional.Exposition{Text: words(10), WordCount: 600}
	a := findAssessment(t, ValidateExposition(sec, nil), "EXPOSITION_WORD_COUNT")
	if a.Result != ResultFail {
		t.Errorf("result = %s, want fail despite stored word_count=600", a.Result)
	}
}

func TestValidateExposition_SecondPersonVoice(t *testing.T) {
	sec := devotional.Exposition{Text: words(499) + " you"}
	a := findAssessment(t, ValidateExposition(sec, nil), "EXPOSITION_VOICE")
	if a.Result != ResultFail {
		t.Fatalf("result = %s, want fail", a.Result)
	}
	if a.ReasonCode != "EXPOSITION_SECOND_PERSON_VIOLATION" {
		t.Errorf("reason code = %q", a.ReasonCode)
	}
	if a.Evidence != "you" {
		t.Errorf("evidence = %q, want the matched word", a.Evidence)
	}
}

func TestValidateExposition_VoiceNotFooledBySubstrings(t *testing.T) {
	// "yourself" and "young" contain "you"/"your" but are whole-word misses.
	sec := devotional.Exposition{Text: words(498) + " yourself young"}
	a := findAssessment(t, ValidateExposition(sec, nil), "EXPOSITION_VOICE")
	if a.Result != ResultPass {
		t.Errorf("result = %s, want pass; evidence %q", a.Result, a.Evidence)
	}
}

func TestValidateExposition_GroundingMapOmittedWhenNil(t *testing.T) {
	for _, a := range ValidateExposition(devotional.Exposition{Text: words(500)}, nil) {
		if a.CheckID == "EXPOSITION_GROUNDING_MAP" {
			t.Fatal("grounding check should be omitted when no map is supplied")
		}
	}
}

func TestValidateExposition_GroundingMapComplete(t *testing.T) {
	sec := devotional.Exposition{Text: words(500)}
	a := findAssessment(t, ValidateExposition(sec, passingGroundingMap(t)), "EXPOSITION_GROUNDING_MAP")
	if a.Result != ResultPass {
		t.Errorf("result = %s, want pass", a.Result)
	}
}

func TestValidateExposition_GroundingMapIncompleteEntry(t *testing.T) {
	gm := passingGroundingMap(t)
	gm.Entries[2].Excerpts = nil

	sec := devotional.Exposition{Text: words(500)}
	a := findAssessment(t, ValidateExposition(sec, gm), "EXPOSITION_GROUNDING_MAP")
	if a.Result != ResultFail {
		t.Fatalf("result = %s, want fail", a.Result)
	}
	if a.ReasonCode != "EXPOSITION_GROUNDING_MAP_INCOMPLETE" {
		t.Errorf("reason code = %q", a.ReasonCode)
	}
}

func TestValidateBeStill(t *testing.T) {
	tests := []struct {
		name      string
		prompts   []string
		wantCount string
		wantVoice string
	}{
		{"passing", []string{"What do you hear?", "Sit still.", "Breathe."}, ResultPass, ResultPass},
		{"too few", []string{"What do you hear?", "Sit."}, ResultFail, ResultPass},
		{"too many", []string{"you", "you", "you", "you", "you", "you"}, ResultFail, ResultPass},
		{"no second person", []string{"Be still.", "Listen.", "Wait."}, ResultPass, ResultFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateBeStill(devotional.BeStill{Prompts: tt.prompts})
			if a := findAssessment(t, got, "BE_STILL_PROMPT_COUNT"); a.Result != tt.wantCount {
				t.Errorf("prompt count result = %s, want %s", a.Result, tt.wantCount)
			}
			if a := findAssessment(t, got, "BE_STILL_SECOND_PERSON"); a.Result != tt.wantVoice {
				t.Errorf("second person result = %s, want %s", a.Result, tt.wantVoice)
			}
		})
	}
}

func TestValidateActionSteps(t *testing.T) {
	tests := []struct {
		name          string
		items         []string
		connector     string
		wantCount     string
		wantConnector string
	}{
		{"passing", []string{"Write a note."}, "As you carry this into your day", ResultPass, ResultPass},
		{"zero items", nil, "Carry this with you", ResultFail, ResultPass},
		{"four items", []string{"a", "b", "c", "d"}, "Carry this with you", ResultFail, ResultPass},
		{"blank connector", []string{"Write a note."}, "   ", ResultPass, ResultFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateActionSteps(devotional.ActionSteps{Items: tt.items, ConnectorPhrase: tt.connector})
			if a := findAssessment(t, got, "ACTION_STEPS_COUNT"); a.Result != tt.wantCount {
				t.Errorf("count result = %s, want %s", a.Result, tt.wantCount)
			}
			if a := findAssessment(t, got, "ACTION_STEPS_CONNECTOR_PHRASE"); a.Result != tt.wantConnector {
				t.Errorf("connector result = %s, want %s", a.Result, tt.wantConnector)
			}
		})
	}
}

func TestValidatePrayer_WordCountAndAddress(t *testing.T) {
	prayer := devotional.Prayer{Text: "Father, " + words(149)}
	got := ValidatePrayer(prayer, nil)
	if a := findAssessment(t, got, "PRAYER_WORD_COUNT"); a.Result != ResultPass {
		t.Errorf("word count result = %s, want pass", a.Result)
	}
	if a := findAssessment(t, got, "PRAYER_TRINITY_ADDRESS"); a.Result != ResultPass {
		t.Errorf("trinity address result = %s, want pass", a.Result)
	}

	noAddress := devotional.Prayer{Text: words(150)}
	if a := findAssessment(t, ValidatePrayer(noAddress, nil), "PRAYER_TRINITY_ADDRESS"); a.Result != ResultFail {
		t.Errorf("trinity address result = %s, want fail", a.Result)
	}

	short := devotional.Prayer{Text: "Father, amen."}
	if a := findAssessment(t, ValidatePrayer(short, nil), "PRAYER_WORD_COUNT"); a.Result != ResultFail {
		t.Errorf("word count result = %s, want fail", a.Result)
	}
}

func TestValidatePrayer_TraceMap(t *testing.T) {
	prayer := devotional.Prayer{Text: "Father, " + words(149)}

	valid := &artifact.PrayerTraceMap{
		ID:       "ptm-1",
		PrayerID: "prayer-1",
		Entries: []artifact.TraceEntry{
			{ElementText: "be still before God", SourceType: artifact.SourceBeStill, SourceReference: "be_still"},
		},
	}
	if a := findAssessment(t, ValidatePrayer(prayer, valid), "PRAYER_TRACE_MAP"); a.Result != ResultPass {
		t.Errorf("trace map result = %s, want pass", a.Result)
	}

	// An empty supplied map is a content failure, not a schema error.
	empty := &artifact.PrayerTraceMap{ID: "ptm-2", PrayerID: "prayer-2"}
	a := findAssessment(t, ValidatePrayer(prayer, empty), "PRAYER_TRACE_MAP")
	if a.Result != ResultFail {
		t.Fatalf("trace map result = %s, want fail", a.Result)
	}
	if a.ReasonCode != "PRAYER_TRACE_MAP_INCOMPLETE" {
		t.Errorf("reason code = %q", a.ReasonCode)
	}

	invalid := &artifact.PrayerTraceMap{
		ID:       "ptm-3",
		PrayerID: "prayer-3",
		Entries: []artifact.TraceEntry{
			{ElementText: "x", SourceType: "sermon", SourceReference: "y"},
		},
	}
	if a := findAssessment(t, ValidatePrayer(prayer, invalid), "PRAYER_TRACE_MAP"); a.Result != ResultFail {
		t.Errorf("trace map result = %s, want fail for unknown source type", a.Result)
	}
}

func TestValidateDay_CheckOrder(t *testing.T) {
	day := devotional.Day{
		DayNumber:   1,
		Exposition:  devotional.Exposition{Text: words(500)},
		BeStill:     devotional.BeStill{Prompts: []string{"What do you hear?", "Sit.", "Breathe."}},
		ActionSteps: devotional.ActionSteps{Items: []string{"Write a note."}, ConnectorPhrase: "Carry this with you"},
		Prayer:      devotional.Prayer{Text: "Father, " + words(149)},
	}

	got := ValidateDay(day, nil, nil)
	wantOrder := []string{
		"EXPOSITION_WORD_COUNT",
		"EXPOSITION_VOICE",
		"BE_STILL_PROMPT_COUNT",
		"BE_STILL_SECOND_PERSON",
		"ACTION_STEPS_COUNT",
		"ACTION_STEPS_CONNECTOR_PHRASE",
		"PRAYER_WORD_COUNT",
		"PRAYER_TRINITY_ADDRESS",
	}
	if len(got) != len(wantOrder) {
		t.Fatalf("assessment count = %d, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].CheckID != id {
			t.Errorf("assessment[%d] = %q, want %q", i, got[i].CheckID, id)
		}
	}
	for _, a := range got {
		if a.Result != ResultPass {
			t.Errorf("%s failed on a passing day: %s", a.CheckID, a.Explanation)
		}
	}
}

func TestValidateDay_DoctrinalRunsOnBothTexts(t *testing.T) {
	day := devotional.Day{
		DayNumber:   1,
		Exposition:  devotional.Exposition{Text: words(499) + " prosperity gospel thinking"},
		BeStill:     devotional.BeStill{Prompts: []string{"What do you hear?", "Sit.", "Breathe."}},
		ActionSteps: devotional.ActionSteps{Items: []string{"Write a note."}, ConnectorPhrase: "Carry this with you"},
		Prayer:      devotional.Prayer{Text: "Father, help us earn your love " + words(143)},
	}

	got := ValidateDay(day, nil, nil)
	var prosperity, worksMerit int
	for _, a := range got {
		switch a.CheckID {
		case "DOCTRINAL_PROSPERITY":
			prosperity++
		case "DOCTRINAL_WORKS_MERIT":
			worksMerit++
		}
	}
	if prosperity != 1 {
		t.Errorf("prosperity failures = %d, want 1 (from exposition)", prosperity)
	}
	if worksMerit != 1 {
		t.Errorf("works merit failures = %d, want 1 (from prayer)", worksMerit)
	}
}
