// Package devotional defines the content model for multi-day devotional
// books: per-day sections, approval state, and the book assembly input.
package devotional

import (
	"fmt"
	"time"
)

// ApprovalStatus tracks human sign-off on a section. Validators and the
// export gate read it but never change it.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
)

// OutputMode selects how strictly the export gate treats pending sections.
type OutputMode string

const (
	ModePersonal     OutputMode = "personal"
	ModePublishReady OutputMode = "publish-ready"
)

// Input is the caller's request configuration for one book.
type Input struct {
	Topic            string     `json:"topic"`
	NumDays          int        `json:"num_days"`
	ScriptureVersion string     `json:"scripture_version"`
	OutputMode       OutputMode `json:"output_mode"`
	Title            string     `json:"title,omitempty"`
	DayFocus         []string   `json:"day_focus,omitempty"`
}

// NewInput applies defaults and enforces the 1–7 day range.
func NewInput(topic string, numDays int, mode OutputMode) (Input, error) {
	if numDays < 1 || numDays > 7 {
		return Input{}, fmt.Errorf("num_days %d out of range [1,7]", numDays)
	}
	if mode == "" {
		mode = ModePublishReady
	}
	return Input{
		Topic:            topic,
		NumDays:          numDays,
		ScriptureVersion: "NASB",
		OutputMode:       mode,
	}, nil
}

// TimelessWisdom opens a day with a verified public-domain quote.
type TimelessWisdom struct {
	QuoteText          string         `json:"quote_text"`
	Author             string         `json:"author"`
	SourceTitle        string         `json:"source_title"`
	PublicationYear    int            `json:"publication_year,omitempty"`
	PageOrURL          string         `json:"page_or_url"`
	PublicDomain       bool           `json:"public_domain"`
	VerificationStatus string         `json:"verification_status"`
	ApprovalStatus     ApprovalStatus `json:"approval_status"`
}

// Scripture holds the day's anchor passage.
type Scripture struct {
	Reference          string         `json:"reference"`
	Text               string         `json:"text"`
	Translation        string         `json:"translation"`
	RetrievalSource    string         `json:"retrieval_source"`
	VerificationStatus string         `json:"verification_status"`
	ApprovalStatus     ApprovalStatus `json:"approval_status"`
}

// Exposition is the day's main teaching text. WordCount is advisory only;
// validators recompute from Text.
type Exposition struct {
	Text           string         `json:"text"`
	WordCount      int            `json:"word_count"`
	GroundingMapID string         `json:"grounding_map_id"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
}

// BeStill carries 3–5 reflective prompts.
type BeStill struct {
	Prompts        []string       `json:"prompts"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
}

// ActionSteps carries 1–3 practice items joined by a connector phrase.
type ActionSteps struct {
	Items           []string       `json:"items"`
	ConnectorPhrase string         `json:"connector_phrase"`
	ApprovalStatus  ApprovalStatus `json:"approval_status"`
}

// Prayer closes the day. WordCount is advisory only.
type Prayer struct {
	Text             string         `json:"text"`
	WordCount        int            `json:"word_count"`
	PrayerTraceMapID string         `json:"prayer_trace_map_id"`
	ApprovalStatus   ApprovalStatus `json:"approval_status"`
}

// SendingPrompt appears on day 6 of a 7-day plan.
type SendingPrompt struct {
	Text           string         `json:"text"`
	WordCount      int            `json:"word_count"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
}

// Day7 is the gathered-worship variant used when a 7-day plan is requested.
type Day7 struct {
	BeforeService         string         `json:"before_service"`
	AfterServiceTrackA    []string       `json:"after_service_track_a"`
	AfterServiceTrackB    []string       `json:"after_service_track_b"`
	AfterServiceWordCount int            `json:"after_service_word_count"`
	ApprovalStatus        ApprovalStatus `json:"approval_status"`
}

// Day is one day's worth of sections. Day numbers are 1–7; the generator
// is responsible for keeping them unique within a book.
type Day struct {
	DayNumber      int            `json:"day_number"`
	DayFocus       string         `json:"day_focus,omitempty"`
	TimelessWisdom TimelessWisdom `json:"timeless_wisdom"`
	Scripture      Scripture      `json:"scripture"`
	Exposition     Exposition     `json:"exposition"`
	BeStill        BeStill        `json:"be_still"`
	ActionSteps    ActionSteps    `json:"action_steps"`
	Prayer         Prayer         `json:"prayer"`
	SendingPrompt  *SendingPrompt `json:"sending_prompt,omitempty"`
	Day7           *Day7          `json:"day7,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	LastModified   time.Time      `json:"last_modified"`
}

// NewDay validates the day number range at construction. Out-of-range day
// numbers are a schema violation, not a content failure. Every mandatory
// section starts pending; approval is always an explicit act.
func NewDay(dayNumber int) (Day, error) {
	if dayNumber < 1 || dayNumber > 7 {
		return Day{}, fmt.Errorf("day_number %d out of range [1,7]", dayNumber)
	}
	now := time.Now().UTC()
	return Day{
		DayNumber:      dayNumber,
		TimelessWisdom: TimelessWisdom{ApprovalStatus: ApprovalPending},
		Scripture:      Scripture{ApprovalStatus: ApprovalPending},
		Exposition:     Exposition{ApprovalStatus: ApprovalPending},
		BeStill:        BeStill{ApprovalStatus: ApprovalPending},
		ActionSteps:    ActionSteps{ApprovalStatus: ApprovalPending},
		Prayer:         Prayer{ApprovalStatus: ApprovalPending},
		CreatedAt:      now,
		LastModified:   now,
	}, nil
}

// Book is the assembled, ordered collection of accepted days.
type Book struct {
	ID           string `json:"id"`
	Input        Input  `json:"input"`
	Days         []Day  `json:"days"`
	SeriesID     string `json:"series_id,omitempty"`
	VolumeNumber int    `json:"volume_number,omitempty"`
}
