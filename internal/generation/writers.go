package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/devotional"
	"github.com/kalambet/devo/internal/llm"
	"github.com/kalambet/devo/internal/rag"
)

// ExpositionWriter generates exposition text with a single LLM call,
// grounded by deterministic catalog retrieval. The GroundingMap is built
// and persisted before the LLM call, so the returned section always
// carries a truthy grounding map id.
type ExpositionWriter struct {
	LLM      llm.Client
	Excerpts *rag.ExcerptCatalog
	Store    *artifact.GroundingStore
}

func buildExpositionPrompt(topic, passage string, contextExcerpts, theologicalExcerpts []rag.Excerpt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TOPIC: %s\nPASSAGE: %s\n\n", topic, passage)
	b.WriteString("INSTRUCTION: Use only the provided excerpts for claims; do not introduce extra facts.\n\n")

	var real []rag.Excerpt
	for _, set := range [][]rag.Excerpt{contextExcerpts, theologicalExcerpts} {
		n := 0
		for _, e := range set {
			if e.SourceTitle == rag.ShortageSource {
				continue
			}
			real = append(real, e)
			if n++; n == 3 {
				break
			}
		}
	}
	if len(real) > 0 {
		b.WriteString("PROVIDED EXCERPTS:\n")
		for i, e := range real {
			fmt.Fprintf(&b, "[%d] %q\n    — %s, %s\n", i+1, e.Text, e.Author, e.SourceTitle)
		}
		b.WriteString("\n")
	}

	b.WriteString("REQUIRED STRUCTURE:\n")
	b.WriteString("Write exactly 4 paragraphs. Begin each paragraph with its name as the first word:\n")
	b.WriteString("  1. declaration\n  2. context\n  3. theological\n  4. bridge\n\n")
	b.WriteString("TARGET LENGTH: 500-650 words total.\n")
	b.WriteString("VOICE: Do not use 'you' or 'your'. Use communal voice (we, our).")
	return b.String()
}

// Generate retrieves excerpts, persists the grounding map under the
// deterministic id for expositionID, then calls the LLM exactly once.
func (w *ExpositionWriter) Generate(ctx context.Context, expositionID, topic, passage string) (devotional.Exposition, error) {
	contextExcerpts := w.Excerpts.RetrieveForParagraph("context", passage, topic, []string{"commentary"})
	theologicalExcerpts := w.Excerpts.RetrieveForParagraph("theological", passage, topic, []string{"commentary"})

	gmID := artifact.GroundingMapID(expositionID)
	gm, err := artifact.GroundingMapBuilder{}.Build(expositionID, paragraphExcerpts(w.Excerpts, topic, passage), nil)
	if err != nil {
		return devotional.Exposition{}, fmt.Errorf("building grounding map: %w", err)
	}
	gm.ID = gmID
	if err := w.Store.Save(gm); err != nil {
		return devotional.Exposition{}, err
	}

	text, err := w.LLM.Complete(ctx, buildExpositionPrompt(topic, passage, contextExcerpts, theologicalExcerpts))
	if err != nil {
		return devotional.Exposition{}, fmt.Errorf("generating exposition: %w", err)
	}

	return devotional.Exposition{
		Text:           text,
		WordCount:      len(strings.Fields(text)),
		GroundingMapID: gmID,
		ApprovalStatus: devotional.ApprovalPending,
	}, nil
}

// PrayerWriter generates prayer text with a single LLM call and persists
// a PrayerTraceMap built from the response's classified lines.
type PrayerWriter struct {
	LLM   llm.Client
	Store *artifact.TraceStore
}

func buildPrayerPrompt(topic, passage, expositionText string, beStillPrompts []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TOPIC: %s\nPASSAGE: %s\n\n", topic, passage)
	b.WriteString("EXPOSITION (first 500 chars):\n")
	if len(expositionText) > 500 {
		expositionText = expositionText[:500]
	}
	b.WriteString(expositionText + "\n\n")
	b.WriteString("BE STILL PROMPTS:\n")
	for _, p := range beStillPrompts {
		b.WriteString("- " + p + "\n")
	}
	b.WriteString("\nINSTRUCTION: Structure the prayer into clearly separable elements (one per line). ")
	b.WriteString("Each petition must be grounded in scripture, exposition, or be_still.\n\n")
	b.WriteString("REQUIREMENTS:\n")
	b.WriteString("- 120–200 words total\n")
	b.WriteString("- Address at least one Trinity name (Father, Jesus, Lord, Spirit, God)\n")
	b.WriteString("- One petition per line\n")
	b.WriteString("- For scripture petitions include passage reference as Chapter:Verse\n")
	b.WriteString("- For exposition petitions include the word \"exposition\"")
	return b.String()
}

// Generate calls the LLM exactly once, classifies the response lines, and
// persists the trace map before returning. A response with no parseable
// lines is a hard failure of the generation step.
func (w *PrayerWriter) Generate(ctx context.Context, prayerID, topic, passage, expositionText string, beStillPrompts []string) (devotional.Prayer, error) {
	text, err := w.LLM.Complete(ctx, buildPrayerPrompt(topic, passage, expositionText, beStillPrompts))
	if err != nil {
		return devotional.Prayer{}, fmt.Errorf("generating prayer: %w", err)
	}

	ptm, err := artifact.BuildPrayerTraceMap(prayerID, text, passage)
	if err != nil {
		return devotional.Prayer{}, err
	}
	if err := w.Store.Save(ptm); err != nil {
		return devotional.Prayer{}, err
	}

	return devotional.Prayer{
		Text:             text,
		WordCount:        len(strings.Fields(text)),
		PrayerTraceMapID: ptm.ID,
		ApprovalStatus:   devotional.ApprovalPending,
	}, nil
}

// LLMGenerator assembles full days: quote from the catalog, scripture
// from the injected lookup, LLM-backed exposition and prayer, static
// reflective scaffolding. One LLM call per generated section.
type LLMGenerator struct {
	Quotes     *rag.QuoteCatalog
	Exposition *ExpositionWriter
	Prayer     *PrayerWriter
	// Passage returns the day's anchor scripture for a topic.
	Passage func(ctx context.Context, topic string, dayNumber int) (devotional.Scripture, error)
}

func (g *LLMGenerator) GenerateDay(ctx context.Context, topic string, dayNumber, attemptNumber int) (devotional.Day, error) {
	day, err := devotional.NewDay(dayNumber)
	if err != nil {
		return devotional.Day{}, err
	}
	fillStaticSections(&day, dayNumber)

	if g.Passage != nil {
		scripture, err := g.Passage(ctx, topic, dayNumber)
		if err != nil {
			return devotional.Day{}, fmt.Errorf("retrieving scripture for day %d: %w", dayNumber, err)
		}
		day.Scripture = scripture
	}

	if quotes := g.Quotes.RetrieveQuotes(topic, day.Scripture.Reference, nil, 1); len(quotes) > 0 {
		q := quotes[0]
		day.TimelessWisdom = devotional.TimelessWisdom{
			QuoteText:          q.QuoteText,
			Author:             q.Author,
			SourceTitle:        q.SourceTitle,
			PublicationYear:    q.PublicationYear,
			PageOrURL:          q.PageOrURL,
			PublicDomain:       q.PublicDomain,
			VerificationStatus: "catalog_verified",
			ApprovalStatus:     devotional.ApprovalPending,
		}
	}

	expositionID := fmt.Sprintf("expo-%s-day%d", topic, dayNumber)
	day.Exposition, err = g.Exposition.Generate(ctx, expositionID, topic, day.Scripture.Reference)
	if err != nil {
		return devotional.Day{}, err
	}

	prayerID := fmt.Sprintf("prayer-%s-day%d", topic, dayNumber)
	day.Prayer, err = g.Prayer.Generate(ctx, prayerID, topic, day.Scripture.Reference, day.Exposition.Text, day.BeStill.Prompts)
	if err != nil {
		return devotional.Day{}, err
	}

	return day, nil
}
