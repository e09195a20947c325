package rag

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

//go:embed seeds/quotes.json
var seedQuotes []byte

// QuoteCatalog ranks candidate quotes by keyword overlap with the topic
// and anchor scripture. Scoring and tie-breaking are fully deterministic:
// descending relevance, then ascending quote text.
type QuoteCatalog struct {
	quotes []Quote
	logger *slog.Logger
}

// NewQuoteCatalog loads the embedded seed set.
func NewQuoteCatalog(logger *slog.Logger) (*QuoteCatalog, error) {
	return newQuoteCatalog(seedQuotes, logger)
}

// LoadQuoteCatalog loads a seed file from disk.
func LoadQuoteCatalog(path string, logger *slog.Logger) (*QuoteCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading quote seed file: %w", err)
	}
	return newQuoteCatalog(data, logger)
}

func newQuoteCatalog(data []byte, logger *slog.Logger) (*QuoteCatalog, error) {
	var quotes []Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, fmt.Errorf("decoding quote seed data: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteCatalog{quotes: quotes, logger: logger}, nil
}

// RetrieveQuotes returns up to topK candidates ranked by keyword
// relevance. authorWeights multiplicatively scales scores for the named
// authors. A thin result set (fewer than 3 available before the topK
// cut) logs a shortage warning but never fails.
func (c *QuoteCatalog) RetrieveQuotes(topic, scriptureReference string, authorWeights map[string]float64, topK int) []Quote {
	query := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(topic + " " + scriptureReference)) {
		query[tok] = true
	}

	scored := make([]Quote, len(c.quotes))
	for i, q := range c.quotes {
		matches := 0
		seen := make(map[string]bool)
		for _, tok := range strings.Fields(strings.ToLower(q.QuoteText)) {
			if query[tok] && !seen[tok] {
				matches++
				seen[tok] = true
			}
		}
		score := float64(matches) / float64(max(len(query), 1))
		if w, ok := authorWeights[q.Author]; ok {
			score *= w
		}
		q.RelevanceScore = score
		scored[i] = q
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].RelevanceScore != scored[j].RelevanceScore {
			return scored[i].RelevanceScore > scored[j].RelevanceScore
		}
		return scored[i].QuoteText < scored[j].QuoteText
	})

	// Shortage check runs against the pre-topK count so intentional
	// topK < 3 requests do not spuriously warn.
	switch available := len(scored); {
	case available == 0:
		c.logger.Warn("[RAG_SHORTAGE][EMPTY] quote catalog returned nothing", "topic", topic)
	case available < 3:
		c.logger.Warn("[RAG_SHORTAGE][THIN] quote catalog is thin", "topic", topic, "count", available)
	}

	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored
}
