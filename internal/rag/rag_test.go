package rag

import (
	"log/slog"
	"strings"
	"testing"
)

const excerptSeed = `[
  {"text": "Grace precedes all striving.", "source_title": "Commentary A", "author": "A", "source_type": "commentary", "paragraph_type": "context"},
  {"text": "The covenant frames the promise.", "source_title": "Reference B", "author": "B", "source_type": "reference", "paragraph_type": "theological"},
  {"text": "Love endures beyond the morning.", "source_title": "Commentary C", "author": "C", "source_type": "commentary", "paragraph_type": "theological"}
]`

func TestRetrieveForParagraph_PrimaryMatch(t *testing.T) {
	c, err := newExcerptCatalog([]byte(excerptSeed))
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	got := c.RetrieveForParagraph("theological", "Romans 8:15", "peace", []string{"commentary", "reference"})
	if len(got) != 2 {
		t.Fatalf("excerpts = %d, want the two theological entries", len(got))
	}
	if got[0].SourceTitle != "Reference B" || got[1].SourceTitle != "Commentary C" {
		t.Errorf("order = %s, %s, want seed insertion order", got[0].SourceTitle, got[1].SourceTitle)
	}
}

func TestRetrieveForParagraph_FallbackToSourceType(t *testing.T) {
	c, err := newExcerptCatalog([]byte(excerptSeed))
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	got := c.RetrieveForParagraph("bridge", "Romans 8:15", "peace", []string{"reference"})
	if len(got) != 1 {
		t.Fatalf("excerpts = %d, want the source-type fallback", len(got))
	}
	if got[0].SourceTitle != "Reference B" {
		t.Errorf("fallback = %s", got[0].SourceTitle)
	}
}

func TestRetrieveForParagraph_EmptySourceTypes(t *testing.T) {
	c, err := newExcerptCatalog([]byte(excerptSeed))
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	if got := c.RetrieveForParagraph("context", "", "", nil); got != nil {
		t.Errorf("excerpts = %v, want nil for empty source types", got)
	}
}

func TestShortageExcerpt(t *testing.T) {
	e := ShortageExcerpt("theological")
	if e.SourceTitle != ShortageSource {
		t.Errorf("source title = %q, want %q", e.SourceTitle, ShortageSource)
	}
	if !strings.Contains(e.Text, "theological") {
		t.Errorf("text = %q, want slot-specific shortage message", e.Text)
	}
}

const quoteSeed = `[
  {"quote_text": "peace flows like a river of grace", "author": "Spurgeon", "source_title": "S1", "public_domain": true},
  {"quote_text": "anxious hearts find rest in peace", "author": "Lewis", "source_title": "S2", "public_domain": true},
  {"quote_text": "wholly unrelated musings on gardens", "author": "Other", "source_title": "S3", "public_domain": true}
]`

func quoteCatalog(t *testing.T, seed string) *QuoteCatalog {
	t.Helper()
	c, err := newQuoteCatalog([]byte(seed), slog.Default())
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	return c
}

func TestRetrieveQuotes_RanksByOverlap(t *testing.T) {
	c := quoteCatalog(t, quoteSeed)

	got := c.RetrieveQuotes("peace grace", "", nil, 3)
	if len(got) != 3 {
		t.Fatalf("quotes = %d, want 3", len(got))
	}
	if got[0].Author != "Spurgeon" {
		t.Errorf("top quote author = %s, want the two-token match first", got[0].Author)
	}
	if got[0].RelevanceScore <= got[1].RelevanceScore {
		t.Errorf("scores not descending: %f then %f", got[0].RelevanceScore, got[1].RelevanceScore)
	}
	if got[2].RelevanceScore != 0 {
		t.Errorf("unrelated quote score = %f, want 0", got[2].RelevanceScore)
	}
}

func TestRetrieveQuotes_AuthorWeights(t *testing.T) {
	c := quoteCatalog(t, quoteSeed)

	got := c.RetrieveQuotes("peace", "", map[string]float64{"Lewis": 10}, 1)
	if len(got) != 1 {
		t.Fatalf("quotes = %d, want 1", len(got))
	}
	if got[0].Author != "Lewis" {
		t.Errorf("top author = %s, want weighted author promoted", got[0].Author)
	}
}

func TestRetrieveQuotes_TopKCut(t *testing.T) {
	c := quoteCatalog(t, quoteSeed)
	if got := c.RetrieveQuotes("peace", "", nil, 2); len(got) != 2 {
		t.Errorf("quotes = %d, want topK cut to 2", len(got))
	}
}

func TestRetrieveQuotes_DeterministicTieBreak(t *testing.T) {
	seed := `[
	  {"quote_text": "b quote", "author": "X", "source_title": "S", "public_domain": true},
	  {"quote_text": "a quote", "author": "Y", "source_title": "S", "public_domain": true}
	]`
	c := quoteCatalog(t, seed)
	got := c.RetrieveQuotes("nothing matches", "", nil, 2)
	if got[0].QuoteText != "a quote" {
		t.Errorf("tie break order = %q first, want ascending quote text", got[0].QuoteText)
	}
}

func TestEmbeddedSeedsLoad(t *testing.T) {
	if _, err := NewExcerptCatalog(); err != nil {
		t.Errorf("embedded excerpt seeds failed to load: %v", err)
	}
	if _, err := NewQuoteCatalog(slog.Default()); err != nil {
		t.Errorf("embedded quote seeds failed to load: %v", err)
	}
}
