package rendering

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown flattens the document into a single markdown string. This is
// both the review preview source and the input handed to the PDF
// engine.
func Markdown(doc Document) string {
	var b strings.Builder
	pages := append(append([]Page{}, doc.FrontMatter...), doc.Content...)
	for i, page := range pages {
		if i > 0 && page.StartsNewPage {
			b.WriteString("\n\\newpage\n\n")
		}
		for _, block := range page.Blocks {
			writeBlock(&b, block)
		}
	}
	return strings.TrimSpace(b.String()) + "\n"
}

func writeBlock(b *strings.Builder, block Block) {
	switch block.Type {
	case BlockTitle:
		fmt.Fprintf(b, "# %s\n\n", block.Content)
	case BlockSubtitle:
		fmt.Fprintf(b, "## %s\n\n", block.Content)
	case BlockImprint:
		fmt.Fprintf(b, "*%s*\n\n", block.Content)
	case BlockHeading:
		level := 2
		if v, ok := block.Metadata["heading_level"].(int); ok && v > 0 {
			level = v + 1
		}
		fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", level), block.Content)
	case BlockBodyText:
		fmt.Fprintf(b, "%s\n\n", block.Content)
	case BlockQuote:
		for _, line := range strings.Split(block.Content, "\n") {
			fmt.Fprintf(b, "> %s\n", line)
		}
		b.WriteString("\n")
	case BlockFootnote:
		fmt.Fprintf(b, "^[%s]\n\n", block.Content)
	case BlockPromptList:
		for _, item := range splitItems(block.Content) {
			fmt.Fprintf(b, "- %s\n", item)
		}
		b.WriteString("\n")
	case BlockActionList:
		for i, item := range splitItems(block.Content) {
			fmt.Fprintf(b, "%d. %s\n", i+1, item)
		}
		b.WriteString("\n")
	case BlockDivider:
		b.WriteString("---\n\n")
	case BlockTOCEntry:
		fmt.Fprintf(b, "%s\n\n", block.Content)
	}
}

func splitItems(content string) []string {
	var items []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}

var previewMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
)

// HTMLPreview renders the document to HTML for the review surface.
func HTMLPreview(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := previewMarkdown.Convert([]byte(Markdown(doc)), &buf); err != nil {
		return "", fmt.Errorf("converting preview markdown: %w", err)
	}
	return buf.String(), nil
}
