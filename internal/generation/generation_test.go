package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/devotional"
	"github.com/kalambet/devo/internal/rag"
	"github.com/kalambet/devo/internal/validation"
)

type fakeLLM struct {
	calls    int
	complete func(prompt string) (string, error)
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	return f.complete(prompt)
}

func testCatalog(t *testing.T) *rag.ExcerptCatalog {
	t.Helper()
	c, err := rag.NewExcerptCatalog()
	if err != nil {
		t.Fatalf("loading excerpt catalog: %v", err)
	}
	return c
}

func testGroundingStore(t *testing.T) *artifact.GroundingStore {
	t.Helper()
	store, err := artifact.NewGroundingStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening grounding store: %v", err)
	}
	return store
}

func TestStaticGenerator_PassesAllChecks(t *testing.T) {
	day, err := StaticGenerator{}.GenerateDay(context.Background(), "peace", 1, 1)
	if err != nil {
		t.Fatalf("GenerateDay: %v", err)
	}
	for _, a := range validation.ValidateDay(day, nil, nil) {
		if a.Failed() {
			t.Errorf("%s failed: %s", a.CheckID, a.Explanation)
		}
	}
}

func TestStaticGenerator_QuoteUniquePerDay(t *testing.T) {
	day1, _ := StaticGenerator{}.GenerateDay(context.Background(), "peace", 1, 1)
	day2, _ := StaticGenerator{}.GenerateDay(context.Background(), "peace", 2, 1)
	if day1.TimelessWisdom.QuoteText == day2.TimelessWisdom.QuoteText {
		t.Error("quote text must vary by day so the registry stays quiet")
	}
}

func TestStaticGenerator_RejectsBadDayNumber(t *testing.T) {
	if _, err := (StaticGenerator{}).GenerateDay(context.Background(), "peace", 8, 1); err == nil {
		t.Error("want error for day 8")
	}
}

func TestGroundedGenerator_PersistsResolvableMap(t *testing.T) {
	store := testGroundingStore(t)
	g := &GroundedGenerator{Excerpts: testCatalog(t), Store: store}

	day, err := g.GenerateDay(context.Background(), "peace", 1, 1)
	if err != nil {
		t.Fatalf("GenerateDay: %v", err)
	}
	if day.Exposition.GroundingMapID == "" {
		t.Fatal("exposition carries no grounding map id")
	}

	gm, err := artifact.ResolveGroundingMap(day.Exposition, store)
	if err != nil {
		t.Fatalf("resolving stored map: %v", err)
	}
	if err := gm.Validate(); err != nil {
		t.Errorf("stored map invalid: %v", err)
	}

	// Same topic and day produce the same id; repeats overwrite.
	again, err := g.GenerateDay(context.Background(), "peace", 1, 2)
	if err != nil {
		t.Fatalf("second GenerateDay: %v", err)
	}
	if again.Exposition.GroundingMapID != day.Exposition.GroundingMapID {
		t.Errorf("ids differ across attempts: %q vs %q", again.Exposition.GroundingMapID, day.Exposition.GroundingMapID)
	}
}

func TestExpositionWriter_OneCallAndPersistedMap(t *testing.T) {
	store := testGroundingStore(t)
	llmClient := &fakeLLM{complete: func(prompt string) (string, error) {
		if !strings.Contains(prompt, "TOPIC: peace") {
			t.Errorf("prompt missing topic: %q", prompt)
		}
		return "declaration we rest. context long ago. theological grace. bridge today.", nil
	}}
	w := &ExpositionWriter{LLM: llmClient, Excerpts: testCatalog(t), Store: store}

	sec, err := w.Generate(context.Background(), "expo-1", "peace", "Romans 8:15")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if llmClient.calls != 1 {
		t.Errorf("LLM calls = %d, want exactly 1", llmClient.calls)
	}
	if sec.GroundingMapID != artifact.GroundingMapID("expo-1") {
		t.Errorf("grounding map id = %q, want deterministic id", sec.GroundingMapID)
	}
	if !store.Exists(sec.GroundingMapID) {
		t.Error("grounding map not persisted")
	}
	if sec.WordCount != len(strings.Fields(sec.Text)) {
		t.Errorf("word count %d does not match text", sec.WordCount)
	}
	if sec.ApprovalStatus != devotional.ApprovalPending {
		t.Errorf("approval status = %s, want pending", sec.ApprovalStatus)
	}
}

func TestExpositionWriter_LLMFailurePropagates(t *testing.T) {
	w := &ExpositionWriter{
		LLM:      &fakeLLM{complete: func(string) (string, error) { return "", errors.New("model offline") }},
		Excerpts: testCatalog(t),
		Store:    testGroundingStore(t),
	}
	if _, err := w.Generate(context.Background(), "expo-1", "peace", "Romans 8:15"); err == nil {
		t.Error("want error when the LLM call fails")
	}
}

func TestPrayerWriter_PersistsTraceMap(t *testing.T) {
	store, err := artifact.NewTraceStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening trace store: %v", err)
	}
	llmClient := &fakeLLM{complete: func(prompt string) (string, error) {
		return "Father, Romans 8:15 tells of adoption.\nAs the exposition showed, we belong.\nQuiet our striving.", nil
	}}
	w := &PrayerWriter{LLM: llmClient, Store: store}

	sec, err := w.Generate(context.Background(), "prayer-1", "peace", "Romans 8:15", "exposition text", []string{"Be still."})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if llmClient.calls != 1 {
		t.Errorf("LLM calls = %d, want exactly 1", llmClient.calls)
	}
	if sec.PrayerTraceMapID != artifact.PrayerTraceMapID("prayer-1") {
		t.Errorf("trace map id = %q, want deterministic id", sec.PrayerTraceMapID)
	}
	tm, err := store.Load(sec.PrayerTraceMapID)
	if err != nil {
		t.Fatalf("loading trace map: %v", err)
	}
	if len(tm.Entries) != 3 {
		t.Errorf("trace entries = %d, want one per line", len(tm.Entries))
	}
}

func TestPrayerWriter_EmptyResponseFails(t *testing.T) {
	store, err := artifact.NewTraceStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening trace store: %v", err)
	}
	w := &PrayerWriter{
		LLM:   &fakeLLM{complete: func(string) (string, error) { return "\n \n", nil }},
		Store: store,
	}
	if _, err := w.Generate(context.Background(), "prayer-1", "peace", "Romans 8:15", "", nil); err == nil {
		t.Error("want error for a response with no parseable lines")
	}
}

func TestLLMGenerator_AssemblesDay(t *testing.T) {
	grounding := testGroundingStore(t)
	traces, err := artifact.NewTraceStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening trace store: %v", err)
	}

	llmClient := &fakeLLM{complete: func(prompt string) (string, error) {
		if strings.Contains(prompt, "REQUIRED STRUCTURE") {
			return "declaration we rest in grace today and always", nil
		}
		return "Father, Romans 8:15 speaks.\nQuiet our hearts.", nil
	}}

	quotes, err := rag.NewQuoteCatalog(nil)
	if err != nil {
		t.Fatalf("loading quote catalog: %v", err)
	}

	g := &LLMGenerator{
		Quotes:     quotes,
		Exposition: &ExpositionWriter{LLM: llmClient, Excerpts: testCatalog(t), Store: grounding},
		Prayer:     &PrayerWriter{LLM: llmClient, Store: traces},
		Passage: func(ctx context.Context, topic string, dayNumber int) (devotional.Scripture, error) {
			return devotional.Scripture{Reference: "Romans 8:15", Text: "verse text", Translation: "NASB"}, nil
		},
	}

	day, err := g.GenerateDay(context.Background(), "peace", 1, 1)
	if err != nil {
		t.Fatalf("GenerateDay: %v", err)
	}
	if day.Scripture.Reference != "Romans 8:15" {
		t.Errorf("scripture = %q, want the injected passage", day.Scripture.Reference)
	}
	if day.Exposition.GroundingMapID == "" || day.Prayer.PrayerTraceMapID == "" {
		t.Error("artifact ids missing from generated day")
	}
	if llmClient.calls != 2 {
		t.Errorf("LLM calls = %d, want one per generated section", llmClient.calls)
	}
}

func TestLLMGenerator_PassageFailureAborts(t *testing.T) {
	grounding := testGroundingStore(t)
	traces, err := artifact.NewTraceStore(t.TempDir())
	if err != nil {
		t.Fatalf("opening trace store: %v", err)
	}
	quotes, err := rag.NewQuoteCatalog(nil)
	if err != nil {
		t.Fatalf("loading quote catalog: %v", err)
	}
	llmClient := &fakeLLM{complete: func(string) (string, error) { return "text", nil }}

	g := &LLMGenerator{
		Quotes:     quotes,
		Exposition: &ExpositionWriter{LLM: llmClient, Excerpts: testCatalog(t), Store: grounding},
		Prayer:     &PrayerWriter{LLM: llmClient, Store: traces},
		Passage: func(ctx context.Context, topic string, dayNumber int) (devotional.Scripture, error) {
			return devotional.Scripture{}, errors.New("all sources exhausted")
		},
	}

	if _, err := g.GenerateDay(context.Background(), "peace", 1, 1); err == nil {
		t.Error("want error when scripture retrieval fails")
	}
	if llmClient.calls != 0 {
		t.Errorf("LLM calls = %d, want none after retrieval failure", llmClient.calls)
	}
}
