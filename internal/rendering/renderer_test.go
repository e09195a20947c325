package rendering

import (
	"strings"
	"testing"
	"time"

	"github.com/kalambet/devo/internal/devotional"
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
}

func sampleDay(n int) devotional.Day {
	return devotional.Day{
		DayNumber: n,
		TimelessWisdom: devotional.TimelessWisdom{
			QuoteText:       "The steadfast love of the Lord endures.",
			Author:          "Charles Spurgeon",
			SourceTitle:     "Morning and Evening",
			PublicationYear: 1865,
			PageOrURL:       "p.14",
		},
		Scripture: devotional.Scripture{
			Reference:   "Romans 8:15",
			Text:        "For you did not receive a spirit of slavery.",
			Translation: "NASB",
		},
		Exposition:  devotional.Exposition{Text: "We rest in grace."},
		BeStill:     devotional.BeStill{Prompts: []string{"What do you hear?", "Sit still."}},
		ActionSteps: devotional.ActionSteps{Items: []string{"Write a note."}, ConnectorPhrase: "Carry this with you:"},
		Prayer:      devotional.Prayer{Text: "Father, hold us."},
	}
}

func sampleBook(numDays int) devotional.Book {
	book := devotional.Book{Input: devotional.Input{Topic: "Peace", NumDays: numDays}}
	for n := 1; n <= numDays; n++ {
		book.Days = append(book.Days, sampleDay(n))
	}
	return book
}

func headings(doc Document) []string {
	var out []string
	for _, page := range doc.Content {
		for _, b := range page.Blocks {
			if b.Type == BlockHeading {
				out = append(out, b.Content)
			}
		}
	}
	return out
}

func TestRender_FrontMatterAndHeadings(t *testing.T) {
	r := &Renderer{Now: fixedClock}
	doc := r.Render(sampleBook(1))

	if doc.Title != "Peace" {
		t.Errorf("title = %q, want topic fallback", doc.Title)
	}
	if len(doc.FrontMatter) != 3 {
		t.Fatalf("front matter pages = %d, want title, copyright, introduction", len(doc.FrontMatter))
	}
	if doc.FrontMatter[0].NumberStyle != NumberSuppressed {
		t.Errorf("title page numbering = %s, want suppressed", doc.FrontMatter[0].NumberStyle)
	}
	if doc.FrontMatter[1].NumberStyle != NumberRoman {
		t.Errorf("copyright page numbering = %s, want roman", doc.FrontMatter[1].NumberStyle)
	}

	var notice string
	for _, b := range doc.FrontMatter[1].Blocks {
		if b.Type == BlockBodyText {
			notice = b.Content
		}
	}
	if !strings.Contains(notice, "Copyright © 2026 Sacred Whispers Publishers") {
		t.Errorf("copyright notice missing injected year: %q", notice)
	}
	if !strings.Contains(notice, "Lockman") {
		t.Error("copyright notice missing the NASB permission text")
	}

	want := []string{"Timeless Wisdom", "Scripture Reading", "Reflection", "Still Before God", "Walk It Out", "Prayer"}
	got := headings(doc)
	if len(got) != len(want) {
		t.Fatalf("headings = %v", got)
	}
	for i, h := range want {
		if got[i] != h {
			t.Errorf("heading[%d] = %q, want %q", i, got[i], h)
		}
	}
}

func TestRender_TOCGatedByDayCount(t *testing.T) {
	r := &Renderer{Now: fixedClock}

	if doc := r.Render(sampleBook(6)); doc.HasTOC {
		t.Error("6-day book should not get a TOC")
	}

	// 7 days is the model's cap, so build a synthetic 12-day book by
	// repeating days; the renderer only counts them.
	book := sampleBook(7)
	for n := 1; n <= 5; n++ {
		book.Days = append(book.Days, sampleDay(n))
	}
	doc := r.Render(book)
	if !doc.HasTOC {
		t.Fatal("12-day book should get a TOC")
	}
	toc := doc.FrontMatter[3]
	if len(toc.Blocks) != 12 {
		t.Errorf("TOC entries = %d, want one per day", len(toc.Blocks))
	}
	if toc.Blocks[0].Type != BlockTOCEntry {
		t.Errorf("TOC block type = %s", toc.Blocks[0].Type)
	}
	if toc.Blocks[0].Content != "Day 1: Day 1" {
		t.Errorf("TOC entry = %q", toc.Blocks[0].Content)
	}
}

func TestRender_TOCUsesDayFocus(t *testing.T) {
	book := sampleBook(7)
	book.Days[0].DayFocus = "Steadfast Love"
	for n := 1; n <= 5; n++ {
		book.Days = append(book.Days, sampleDay(n))
	}

	doc := (&Renderer{Now: fixedClock}).Render(book)
	if got := doc.FrontMatter[3].Blocks[0].Content; got != "Day 1: Steadfast Love" {
		t.Errorf("TOC entry = %q", got)
	}
}

func TestRender_SendingPromptStaysOnDayPage(t *testing.T) {
	book := sampleBook(6)
	book.Days[5].SendingPrompt = &devotional.SendingPrompt{Text: "Go and carry this week outward."}

	doc := (&Renderer{Now: fixedClock}).Render(book)
	// 6 day pages plus the offer page.
	if len(doc.Content) != 7 {
		t.Fatalf("content pages = %d, want 7", len(doc.Content))
	}

	day6 := doc.Content[5]
	last := day6.Blocks[len(day6.Blocks)-1]
	if last.Type != BlockBodyText || last.Content != "Go and carry this week outward." {
		t.Errorf("last block = %+v, want the sending prompt body", last)
	}
	if day6.Blocks[len(day6.Blocks)-2].Type != BlockDivider {
		t.Error("sending prompt must be preceded by a divider")
	}
}

func TestRender_Day7GetsOwnPage(t *testing.T) {
	book := sampleBook(7)
	book.Days[6].Day7 = &devotional.Day7{
		BeforeService:      "Arrive early and sit quietly.",
		AfterServiceTrackA: []string{"Where did the sermon meet the week?"},
		AfterServiceTrackB: []string{"What did you hear instead?"},
	}

	doc := (&Renderer{Now: fixedClock}).Render(book)
	if !doc.HasDay7 {
		t.Fatal("HasDay7 = false")
	}
	// 7 day pages, one day7 page, one offer page.
	if len(doc.Content) != 9 {
		t.Fatalf("content pages = %d, want 9", len(doc.Content))
	}

	day7Page := doc.Content[7]
	if !day7Page.StartsNewPage {
		t.Error("day 7 worship page must start a new page")
	}
	if day7Page.Blocks[0].Content != "Before the Service" {
		t.Errorf("first block = %q", day7Page.Blocks[0].Content)
	}
	var trackHeadings int
	for _, b := range day7Page.Blocks {
		if b.Type == BlockHeading && strings.HasPrefix(b.Content, "Track ") {
			trackHeadings++
			if lvl, ok := b.Metadata["heading_level"].(int); !ok || lvl != 2 {
				t.Errorf("track heading metadata = %v", b.Metadata)
			}
		}
	}
	if trackHeadings != 2 {
		t.Errorf("track headings = %d, want equal weight for A and B", trackHeadings)
	}
}

func TestRender_OfferPageIsLast(t *testing.T) {
	doc := (&Renderer{Now: fixedClock}).Render(sampleBook(2))
	last := doc.Content[len(doc.Content)-1]
	if len(last.Blocks) != 1 || last.Blocks[0].Type != BlockBodyText {
		t.Fatalf("offer page blocks = %+v", last.Blocks)
	}
	if last.Blocks[0].Content == "" {
		t.Error("offer page is empty")
	}
}

func TestRender_FootnoteIsTurabian(t *testing.T) {
	doc := (&Renderer{Now: fixedClock}).Render(sampleBook(1))
	var footnote string
	for _, b := range doc.Content[0].Blocks {
		if b.Type == BlockFootnote {
			footnote = b.Content
		}
	}
	want := "Charles Spurgeon, Morning and Evening (1865), p.14."
	if footnote != want {
		t.Errorf("footnote = %q, want %q", footnote, want)
	}
}

func TestRender_UndatedQuoteUsesND(t *testing.T) {
	book := sampleBook(1)
	book.Days[0].TimelessWisdom.PublicationYear = 0
	doc := (&Renderer{Now: fixedClock}).Render(book)
	var footnote string
	for _, b := range doc.Content[0].Blocks {
		if b.Type == BlockFootnote {
			footnote = b.Content
		}
	}
	if !strings.Contains(footnote, "(n.d.)") {
		t.Errorf("footnote = %q, want n.d. for undated sources", footnote)
	}
}

func TestMarkdown_Layout(t *testing.T) {
	doc := (&Renderer{Now: fixedClock}).Render(sampleBook(2))
	md := Markdown(doc)

	if !strings.HasPrefix(md, "# Peace\n") {
		t.Errorf("markdown does not open with the title: %q", md[:40])
	}
	if !strings.Contains(md, "\\newpage") {
		t.Error("markdown missing page breaks")
	}
	if !strings.Contains(md, "## Timeless Wisdom") {
		t.Error("markdown missing section heading")
	}
	if !strings.Contains(md, "> The steadfast love of the Lord endures.") {
		t.Error("markdown missing block quote")
	}
	if !strings.Contains(md, "^[Charles Spurgeon, Morning and Evening (1865), p.14.]") {
		t.Error("markdown missing inline footnote")
	}
	if !strings.Contains(md, "- What do you hear?") {
		t.Error("markdown missing prompt list item")
	}
	if !strings.Contains(md, "1. Write a note.") {
		t.Error("markdown missing numbered action item")
	}
	if !strings.HasSuffix(md, "\n") {
		t.Error("markdown must end with a newline")
	}
}

func TestHTMLPreview(t *testing.T) {
	doc := (&Renderer{Now: fixedClock}).Render(sampleBook(1))
	html, err := HTMLPreview(doc)
	if err != nil {
		t.Fatalf("HTMLPreview: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Timeless Wisdom") {
		t.Errorf("preview html looks wrong: %.120s", html)
	}
}
