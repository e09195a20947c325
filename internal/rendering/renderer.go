package rendering

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/kalambet/devo/internal/devotional"
)

// tocThreshold is the minimum day count before a table of contents page
// is worth the paper.
const tocThreshold = 12

//go:embed templates/introduction_sunday.md
var sundayIntroduction string

//go:embed templates/offer_page.md
var offerPage string

const introductionText = "This devotional is structured for six days of personal reading, reflection, " +
	"and prayer. Each day follows the same rhythm: a timeless quote, a scripture " +
	"passage, a reflection, a moment of stillness, action steps, and a closing prayer. " +
	"Begin on any day of the week. The order within each day is intentional; let each " +
	"element do its work before moving to the next."

// Renderer converts a book into a Document. The clock is injectable so
// tests get a stable copyright year.
type Renderer struct {
	Now func() time.Time // nil means time.Now
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Render builds the complete document: front matter (title, copyright,
// introduction, optional TOC), one content page per day, a separate
// page for the day 7 worship variant, and the closing offer page.
func (r *Renderer) Render(book devotional.Book) Document {
	hasDay7 := false
	for _, day := range book.Days {
		if day.Day7 != nil {
			hasDay7 = true
			break
		}
	}
	hasTOC := len(book.Days) >= tocThreshold
	title := book.Input.Title
	if title == "" {
		title = book.Input.Topic
	}

	frontMatter := []Page{
		titlePage(title),
		copyrightPage(r.now().Year()),
		introductionPage(hasDay7),
	}
	if hasTOC {
		frontMatter = append(frontMatter, tocPage(book.Days))
	}

	var content []Page
	for _, day := range book.Days {
		var blocks []Block
		blocks = append(blocks, renderTimelessWisdom(day.TimelessWisdom)...)
		blocks = append(blocks, renderScripture(day.Scripture)...)
		blocks = append(blocks, renderExposition(day.Exposition)...)
		blocks = append(blocks, renderBeStill(day.BeStill)...)
		blocks = append(blocks, renderActionSteps(day.ActionSteps)...)
		blocks = append(blocks, renderPrayer(day.Prayer)...)
		// The sending prompt closes the day's page rather than opening
		// a new one.
		if day.SendingPrompt != nil {
			blocks = append(blocks, renderSendingPrompt(*day.SendingPrompt)...)
		}
		content = append(content, Page{Blocks: blocks, StartsNewPage: true, NumberStyle: NumberArabic})

		if day.Day7 != nil {
			content = append(content, Page{Blocks: renderDay7(*day.Day7), StartsNewPage: true, NumberStyle: NumberArabic})
		}
	}

	content = append(content, Page{
		Blocks:        []Block{{Type: BlockBodyText, Content: strings.TrimSpace(offerPage)}},
		StartsNewPage: true,
		NumberStyle:   NumberArabic,
	})

	return Document{
		Title:       title,
		FrontMatter: frontMatter,
		Content:     content,
		HasTOC:      hasTOC,
		HasDay7:     hasDay7,
	}
}

// --- front matter ---

func titlePage(title string) Page {
	return Page{
		Blocks:        []Block{{Type: BlockTitle, Content: title}},
		StartsNewPage: true,
		NumberStyle:   NumberSuppressed,
	}
}

func copyrightPage(year int) Page {
	// Imprint only; no personal author name appears anywhere in the book.
	notice := fmt.Sprintf("Copyright © %d Sacred Whispers Publishers\n\n", year) +
		"All rights reserved. No part of this publication may be reproduced, " +
		"distributed, or transmitted in any form or by any means without prior " +
		"written permission from the publisher.\n\n" +
		"Scripture quotations marked NASB are taken from the New American Standard " +
		"Bible®, Copyright © 1960, 1971, 1977, 1995, 2020 by The Lockman " +
		"Foundation. Used by permission. All rights reserved. www.lockman.org"
	return Page{
		Blocks: []Block{
			{Type: BlockImprint, Content: "Sacred Whispers Publishers"},
			{Type: BlockBodyText, Content: notice},
		},
		StartsNewPage: true,
		NumberStyle:   NumberRoman,
	}
}

func introductionPage(hasDay7 bool) Page {
	blocks := []Block{{Type: BlockBodyText, Content: introductionText}}
	if hasDay7 {
		blocks = append(blocks, Block{Type: BlockBodyText, Content: strings.TrimSpace(sundayIntroduction)})
	}
	return Page{Blocks: blocks, StartsNewPage: true, NumberStyle: NumberRoman}
}

// tocPage emits one TOC_ENTRY per day. Page numbers are placeholders;
// the export engine fills them in after layout.
func tocPage(days []devotional.Day) Page {
	blocks := make([]Block, 0, len(days))
	for _, day := range days {
		label := day.DayFocus
		if label == "" {
			label = fmt.Sprintf("Day %d", day.DayNumber)
		}
		blocks = append(blocks, Block{
			Type:     BlockTOCEntry,
			Content:  fmt.Sprintf("Day %d: %s", day.DayNumber, label),
			Metadata: map[string]any{"page_placeholder": true, "day_number": day.DayNumber},
		})
	}
	return Page{Blocks: blocks, StartsNewPage: true, NumberStyle: NumberRoman}
}

// --- sections ---
// Reader-facing heading strings are fixed:
// Timeless Wisdom | Scripture Reading | Reflection | Still Before God | Walk It Out | Prayer

func renderTimelessWisdom(section devotional.TimelessWisdom) []Block {
	year := "n.d."
	if section.PublicationYear != 0 {
		year = fmt.Sprintf("%d", section.PublicationYear)
	}
	turabian := fmt.Sprintf("%s, %s (%s), %s.", section.Author, section.SourceTitle, year, section.PageOrURL)
	return []Block{
		{Type: BlockHeading, Content: "Timeless Wisdom"},
		{Type: BlockQuote, Content: section.QuoteText, Metadata: map[string]any{"footnote_id": "tw"}},
		{Type: BlockFootnote, Content: turabian, Metadata: map[string]any{
			"footnote_id":      "tw",
			"author":           section.Author,
			"source_title":     section.SourceTitle,
			"publication_year": section.PublicationYear,
			"page_or_url":      section.PageOrURL,
		}},
	}
}

func renderScripture(section devotional.Scripture) []Block {
	return []Block{
		{Type: BlockHeading, Content: "Scripture Reading"},
		{Type: BlockBodyText, Content: fmt.Sprintf("%s (%s)", section.Reference, section.Translation)},
		{Type: BlockQuote, Content: section.Text},
	}
}

// renderExposition uses the reader-facing label "Reflection". The
// grounding map never enters the document; it stays a review artifact.
func renderExposition(section devotional.Exposition) []Block {
	return []Block{
		{Type: BlockHeading, Content: "Reflection"},
		{Type: BlockBodyText, Content: section.Text},
	}
}

func renderBeStill(section devotional.BeStill) []Block {
	return []Block{
		{Type: BlockHeading, Content: "Still Before God"},
		{Type: BlockPromptList, Content: strings.Join(section.Prompts, "\n")},
	}
}

func renderActionSteps(section devotional.ActionSteps) []Block {
	return []Block{
		{Type: BlockHeading, Content: "Walk It Out"},
		{Type: BlockBodyText, Content: section.ConnectorPhrase},
		{Type: BlockActionList, Content: strings.Join(section.Items, "\n")},
	}
}

func renderPrayer(section devotional.Prayer) []Block {
	return []Block{
		{Type: BlockHeading, Content: "Prayer"},
		{Type: BlockBodyText, Content: section.Text},
	}
}

// renderSendingPrompt has no heading; a divider separates it from the
// prayer above.
func renderSendingPrompt(section devotional.SendingPrompt) []Block {
	return []Block{
		{Type: BlockDivider, Content: ""},
		{Type: BlockBodyText, Content: section.Text},
	}
}

// renderDay7 gives Track A and Track B equal structural weight.
func renderDay7(section devotional.Day7) []Block {
	return []Block{
		{Type: BlockHeading, Content: "Before the Service"},
		{Type: BlockBodyText, Content: section.BeforeService},
		{Type: BlockDivider, Content: ""},
		{Type: BlockHeading, Content: "After the Service"},
		{Type: BlockHeading, Content: "Track A — When the sermon connected with this week’s theme",
			Metadata: map[string]any{"heading_level": 2}},
		{Type: BlockPromptList, Content: strings.Join(section.AfterServiceTrackA, "\n")},
		{Type: BlockHeading, Content: "Track B — When the sermon went somewhere else",
			Metadata: map[string]any{"heading_level": 2}},
		{Type: BlockPromptList, Content: strings.Join(section.AfterServiceTrackB, "\n")},
	}
}
