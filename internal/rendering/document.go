// Package rendering turns an assembled book into a typed document tree,
// a markdown/HTML preview, and a verified PDF export.
package rendering

// BlockType identifies how the export engine lays out a block.
type BlockType string

const (
	// Content blocks.
	BlockHeading    BlockType = "heading"
	BlockBodyText   BlockType = "body_text"
	BlockQuote      BlockType = "block_quote"
	BlockFootnote   BlockType = "footnote" // Turabian attribution
	BlockPromptList BlockType = "prompt_list"
	BlockActionList BlockType = "action_list"
	BlockDivider    BlockType = "divider"
	// Front matter blocks.
	BlockTitle    BlockType = "title"
	BlockSubtitle BlockType = "subtitle"
	BlockImprint  BlockType = "imprint"
	BlockTOCEntry BlockType = "toc_entry"
)

// PageNumberStyle selects the numbering treatment for a page.
type PageNumberStyle string

const (
	NumberRoman      PageNumberStyle = "roman"
	NumberArabic     PageNumberStyle = "arabic"
	NumberSuppressed PageNumberStyle = "suppressed"
)

// Block is one laid-out unit of content. Metadata is reserved for the
// export engine (footnote ids, heading levels, TOC page placeholders).
type Block struct {
	Type     BlockType      `json:"block_type"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Page is an ordered list of blocks. Every day starts a new page.
type Page struct {
	Blocks        []Block         `json:"blocks"`
	StartsNewPage bool            `json:"starts_new_page"`
	NumberStyle   PageNumberStyle `json:"page_number_style"`
}

// Document is the full representation handed to the export engine:
// front matter pages first, then content pages.
type Document struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	FrontMatter []Page `json:"front_matter"`
	Content     []Page `json:"content_pages"`
	HasTOC      bool   `json:"has_toc"`
	HasDay7     bool   `json:"has_day7"`
}
