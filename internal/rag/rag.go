// Package rag provides fixture-backed retrieval for devotional
// generation: an excerpt catalog feeding exposition grounding slots and
// a quote catalog ranked by keyword overlap. Retrieval is deterministic;
// there are no embeddings and no network calls.
package rag

// Excerpt is one retrieved passage from an approved theological source.
type Excerpt struct {
	Text           string  `json:"text"`
	SourceTitle    string  `json:"source_title"`
	Author         string  `json:"author"`
	SourceType     string  `json:"source_type"` // "commentary" | "reference"
	RelevanceScore float64 `json:"relevance_score,omitempty"`
}

// Quote is one candidate opening quote from the catalog.
type Quote struct {
	QuoteText       string  `json:"quote_text"`
	Author          string  `json:"author"`
	SourceTitle     string  `json:"source_title"`
	PublicationYear int     `json:"publication_year,omitempty"`
	PageOrURL       string  `json:"page_or_url"`
	PublicDomain    bool    `json:"public_domain"`
	RelevanceScore  float64 `json:"relevance_score,omitempty"`
}

// ShortageSource tags synthesized fallback excerpts inserted when
// retrieval returns nothing for a required slot, so downstream structural
// invariants still hold.
const ShortageSource = "RAG_SHORTAGE"

// ShortageExcerpt synthesizes a fallback excerpt for an empty slot.
func ShortageExcerpt(slot string) Excerpt {
	text := "SHORTAGE: no excerpt available"
	switch slot {
	case "context":
		text = "SHORTAGE: no context excerpt available"
	case "theological":
		text = "SHORTAGE: no theological excerpt available"
	}
	return Excerpt{
		Text:        text,
		SourceTitle: ShortageSource,
		SourceType:  "commentary",
	}
}
