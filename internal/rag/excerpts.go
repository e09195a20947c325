package rag

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

//go:embed seeds/excerpts.json
var seedExcerpts []byte

// seedExcerpt is the on-disk excerpt shape: Excerpt fields plus the
// paragraph_type key used only for filtering.
type seedExcerpt struct {
	Excerpt
	ParagraphType string `json:"paragraph_type"`
}

// ExcerptCatalog retrieves excerpts for exposition paragraph slots from a
// JSON seed file loaded at construction. Results preserve seed insertion
// order within each filtered set; no sorting or randomization.
type ExcerptCatalog struct {
	entries []seedExcerpt
}

// NewExcerptCatalog loads the embedded seed set.
func NewExcerptCatalog() (*ExcerptCatalog, error) {
	return newExcerptCatalog(seedExcerpts)
}

// LoadExcerptCatalog loads a seed file from disk, for operator-supplied
// catalogs.
func LoadExcerptCatalog(path string) (*ExcerptCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading excerpt seed file: %w", err)
	}
	return newExcerptCatalog(data)
}

func newExcerptCatalog(data []byte) (*ExcerptCatalog, error) {
	var entries []seedExcerpt
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding excerpt seed data: %w", err)
	}
	return &ExcerptCatalog{entries: entries}, nil
}

// RetrieveForParagraph returns excerpts matching the paragraph type and
// accepted source types. When nothing matches the paragraph type, it
// falls back to a source-type-only match. An empty sourceTypes list
// returns nothing.
func (c *ExcerptCatalog) RetrieveForParagraph(paragraphType, passageReference, topic string, sourceTypes []string) []Excerpt {
	if len(sourceTypes) == 0 {
		return nil
	}

	var primary, fallback []Excerpt
	for _, e := range c.entries {
		if !slices.Contains(sourceTypes, e.SourceType) {
			continue
		}
		fallback = append(fallback, e.Excerpt)
		if e.ParagraphType == paragraphType {
			primary = append(primary, e.Excerpt)
		}
	}
	if len(primary) > 0 {
		return primary
	}
	return fallback
}
