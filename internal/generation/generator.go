// Package generation produces devotional days: a deterministic static
// generator for dry runs and tests, a grounded generator that persists
// grounding artifacts, and LLM-backed writers that call the injected
// text-generation capability at most once per section.
package generation

import (
	"context"
	"strconv"
	"strings"

	"github.com/kalambet/devo/internal/devotional"
)

// Generator produces one day's sections. attemptNumber is 1-based and
// lets attempt-aware implementations vary output between retries.
type Generator interface {
	GenerateDay(ctx context.Context, topic string, dayNumber, attemptNumber int) (devotional.Day, error)
}

func repeatWords(words ...string) string {
	parts := make([]string, 0, len(words)*50)
	for _, w := range words {
		for i := 0; i < 50; i++ {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}

// 550 neutral theological words, no second person: passes the word-count
// and voice checks.
var staticExpositionText = repeatWords(
	"grace", "mercy", "faith", "hope", "love",
	"peace", "wisdom", "strength", "light", "truth", "spirit",
)

// 150 words opening with a Trinity address.
var staticPrayerText = "Father, " + strings.Repeat("grace ", 148) + "grace"

var staticBeStillPrompts = []string{
	"Sit in silence and reflect on this passage.",
	"What is stirring within your heart today?",
	"Rest in this stillness before moving on.",
}

// StaticGenerator emits fixed content that passes every validator. Quote
// text is unique per day number so registry deduplication stays quiet.
type StaticGenerator struct{}

func (StaticGenerator) GenerateDay(_ context.Context, topic string, dayNumber, attemptNumber int) (devotional.Day, error) {
	day, err := devotional.NewDay(dayNumber)
	if err != nil {
		return devotional.Day{}, err
	}
	fillStaticSections(&day, dayNumber)
	return day, nil
}

func fillStaticSections(day *devotional.Day, dayNumber int) {
	day.TimelessWisdom = devotional.TimelessWisdom{
		QuoteText:          "The steadfast love of the Lord endures forever. Day " + strconv.Itoa(dayNumber),
		Author:             "Charles Spurgeon",
		SourceTitle:        "Morning and Evening",
		PageOrURL:          "p.1",
		PublicDomain:       true,
		VerificationStatus: "catalog_verified",
		ApprovalStatus:     devotional.ApprovalPending,
	}
	day.Scripture = devotional.Scripture{
		Reference:          "Lamentations 3:22",
		Text:               "The steadfast love of the Lord never ceases.",
		Translation:        "NASB",
		RetrievalSource:    "operator_import",
		VerificationStatus: "catalog_verified",
		ApprovalStatus:     devotional.ApprovalPending,
	}
	day.Exposition = devotional.Exposition{
		Text:           staticExpositionText,
		WordCount:      550,
		ApprovalStatus: devotional.ApprovalPending,
	}
	day.BeStill = devotional.BeStill{
		Prompts:        staticBeStillPrompts,
		ApprovalStatus: devotional.ApprovalPending,
	}
	day.ActionSteps = devotional.ActionSteps{
		Items: []string{
			"Spend five minutes in silent prayer each morning.",
			"Offer one act of kindness to someone today.",
		},
		ConnectorPhrase: "This week, practice this:",
		ApprovalStatus:  devotional.ApprovalPending,
	}
	day.Prayer = devotional.Prayer{
		Text:           staticPrayerText,
		WordCount:      150,
		ApprovalStatus: devotional.ApprovalPending,
	}
}
