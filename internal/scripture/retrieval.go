// Package scripture retrieves and verifies Bible passages through a
// prioritised fallback chain: Bolls.life first (with one retry), then
// API.Bible when a key is configured, then an operator-supplied CSV
// import, and finally a structured failure alert for manual entry.
package scripture

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	bollsLifeBase = "https://bolls.life/get-verse"
	apiBibleBase  = "https://api.scripture.api.bible/v1"

	// NASB on API.Bible; override via RetrieverOptions.
	defaultAPIBibleBibleID = "72c7f6f5e7fa1b62-01"
)

// FailureMode classifies why retrieval produced no verified text.
type FailureMode string

const (
	FailureUnparseableReference FailureMode = "unparseable_reference"
	FailurePrimaryExhausted     FailureMode = "primary_exhausted"
	FailureAllSourcesExhausted  FailureMode = "all_sources_exhausted"
	FailureValidationFailure    FailureMode = "validation_failure"
)

// ParsedReference is a decoded scripture reference such as "Romans 8:15"
// or "1 Corinthians 13:4-7".
type ParsedReference struct {
	BookName string
	BookID   int
	Chapter  int
	Verses   []int
}

// Result is a verified passage. Text is HTML-stripped; multi-verse
// passages are concatenated with single spaces.
type Result struct {
	Reference          string `json:"reference"`
	Text               string `json:"text"`
	Translation        string `json:"translation"`
	RetrievalSource    string `json:"retrieval_source"` // "bolls_life" | "api_bible" | "operator_import"
	VerificationStatus string `json:"verification_status"`
}

// FailureAlert is the structured failure object the caller surfaces to
// the operator when no source produced a verified passage.
type FailureAlert struct {
	Reference        string      `json:"reference"`
	Translation      string      `json:"translation"`
	FailureMode      FailureMode `json:"failure_mode"`
	Message          string      `json:"message"`
	AttemptedSources []string    `json:"attempted_sources"`
}

// Retriever fetches scripture through the fallback chain. The HTTP
// client is injectable so tests can stub the network.
type Retriever struct {
	httpClient      *http.Client
	apiBibleKey     string
	apiBibleBibleID string
}

// RetrieverOptions configures optional retriever behavior.
type RetrieverOptions struct {
	HTTPClient      *http.Client
	APIBibleKey     string // empty disables the API.Bible secondary source
	APIBibleBibleID string
}

// NewRetriever builds a Retriever with sane defaults.
func NewRetriever(opts RetrieverOptions) *Retriever {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	bibleID := opts.APIBibleBibleID
	if bibleID == "" {
		bibleID = defaultAPIBibleBibleID
	}
	return &Retriever{
		httpClient:      client,
		apiBibleKey:     opts.APIBibleKey,
		apiBibleBibleID: bibleID,
	}
}

// Retrieve returns a verified Result, or a FailureAlert when every
// source is exhausted. Exactly one of the two return values is non-nil
// unless err is set. operatorImport may be empty; when set it names a
// CSV file with columns reference, translation, text.
func (r *Retriever) Retrieve(ctx context.Context, reference, translation, operatorImport string) (*Result, *FailureAlert, error) {
	parsed, err := ParseReference(reference)
	if err != nil {
		return nil, &FailureAlert{
			Reference:        reference,
			Translation:      translation,
			FailureMode:      FailureUnparseableReference,
			Message:          err.Error(),
			AttemptedSources: []string{},
		}, nil
	}

	var attempted []string

	// Bolls.life primary, one retry on failure.
	if result := r.tryBollsLife(ctx, parsed, translation); result != nil {
		return result, nil, nil
	}
	attempted = append(attempted, "bolls_life")

	// API.Bible secondary, only when a key is present.
	if r.apiBibleKey != "" {
		if result := r.tryAPIBible(ctx, parsed, reference, translation); result != nil {
			return result, nil, nil
		}
		attempted = append(attempted, "api_bible")
	}

	// Operator import file.
	if operatorImport != "" {
		if result := loadOperatorImport(reference, translation, operatorImport); result != nil {
			return result, nil, nil
		}
		attempted = append(attempted, "operator_import")
	}

	return nil, &FailureAlert{
		Reference:   reference,
		Translation: translation,
		FailureMode: FailureAllSourcesExhausted,
		Message: fmt.Sprintf("All retrieval sources exhausted for %q (%s). Manual entry required.",
			reference, translation),
		AttemptedSources: attempted,
	}, nil
}

// bollsVerse is a single verse response from Bolls.life, augmented with
// the book and chapter derived from the request URL so ValidateMatch
// has a uniform shape across sources.
type bollsVerse struct {
	Book    int    `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// validateMatch confirms a Bolls.life verse response matches the
// requested reference: book, chapter, verse number, and non-empty text
// after HTML stripping.
func validateMatch(verse bollsVerse, reference string) bool {
	parsed, err := ParseReference(reference)
	if err != nil {
		return false
	}
	if verse.Book != parsed.BookID || verse.Chapter != parsed.Chapter {
		return false
	}
	found := false
	for _, v := range parsed.Verses {
		if verse.Verse == v {
			found = true
			break
		}
	}
	return found && strings.TrimSpace(StripHTML(verse.Text)) != ""
}

func (r *Retriever) tryBollsLife(ctx context.Context, parsed ParsedReference, translation string) *Result {
	// First attempt plus one retry.
	for range 2 {
		if result := r.fetchBollsLife(ctx, parsed, translation); result != nil {
			return result
		}
	}
	return nil
}

// fetchBollsLife fetches all requested verses and returns a Result only
// when every verse passes validation.
func (r *Retriever) fetchBollsLife(ctx context.Context, parsed ParsedReference, translation string) *Result {
	var verseTexts []string

	for _, verseNum := range parsed.Verses {
		url := fmt.Sprintf("%s/%s/%d/%d/%d/", bollsLifeBase, translation, parsed.BookID, parsed.Chapter, verseNum)
		body, ok := r.get(ctx, url, nil)
		if !ok {
			return nil
		}

		var verse bollsVerse
		if err := json.Unmarshal(body, &verse); err != nil {
			return nil
		}
		// Book and chapter are baked into the request URL, not echoed
		// back by the API.
		verse.Book = parsed.BookID
		verse.Chapter = parsed.Chapter

		verseRef := fmt.Sprintf("%s %d:%d", parsed.BookName, parsed.Chapter, verseNum)
		if !validateMatch(verse, verseRef) {
			return nil
		}
		verseTexts = append(verseTexts, strings.TrimSpace(StripHTML(verse.Text)))
	}

	combined := strings.TrimSpace(strings.Join(verseTexts, " "))
	if combined == "" {
		return nil
	}

	refStr := fmt.Sprintf("%s %d:%d", parsed.BookName, parsed.Chapter, parsed.Verses[0])
	if len(parsed.Verses) > 1 {
		refStr += "-" + strconv.Itoa(parsed.Verses[len(parsed.Verses)-1])
	}

	return &Result{
		Reference:          refStr,
		Text:               combined,
		Translation:        translation,
		RetrievalSource:    "bolls_life",
		VerificationStatus: "verified",
	}
}

type apiBibleResponse struct {
	Data struct {
		Content string `json:"content"`
	} `json:"data"`
}

func (r *Retriever) tryAPIBible(ctx context.Context, parsed ParsedReference, reference, translation string) *Result {
	passageID := apiBiblePassageID(parsed)
	url := fmt.Sprintf("%s/bibles/%s/passages/%s?content-type=text&include-verse-numbers=false",
		apiBibleBase, r.apiBibleBibleID, passageID)

	body, ok := r.get(ctx, url, map[string]string{"api-key": r.apiBibleKey})
	if !ok {
		return nil
	}

	var resp apiBibleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	text := strings.TrimSpace(StripHTML(resp.Data.Content))
	if text == "" {
		return nil
	}

	return &Result{
		Reference:          reference,
		Text:               text,
		Translation:        translation,
		RetrievalSource:    "api_bible",
		VerificationStatus: "verified",
	}
}

// apiBiblePassageID converts a parsed reference to the API.Bible
// passage ID format: "Romans 8:15" becomes "ROM.8.15" and
// "Romans 8:15-17" becomes "ROM.8.15-ROM.8.17".
func apiBiblePassageID(parsed ParsedReference) string {
	abbr, ok := apiBibleAbbr[parsed.BookID]
	if !ok {
		abbr = fmt.Sprintf("B%02d", parsed.BookID)
	}
	start := fmt.Sprintf("%s.%d.%d", abbr, parsed.Chapter, parsed.Verses[0])
	if len(parsed.Verses) == 1 {
		return start
	}
	return fmt.Sprintf("%s-%s.%d.%d", start, abbr, parsed.Chapter, parsed.Verses[len(parsed.Verses)-1])
}

// get performs a GET and returns the body only on HTTP 200.
func (r *Retriever) get(ctx context.Context, url string, headers map[string]string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false
	}
	return body, true
}

// loadOperatorImport looks up the passage in an operator-provided CSV
// file with columns reference, translation, text. Reference and
// translation match case-insensitively.
func loadOperatorImport(reference, translation, path string) *Result {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	refCol, okRef := cols["reference"]
	transCol, okTrans := cols["translation"]
	textCol, okText := cols["text"]
	if !okRef || !okTrans || !okText {
		return nil
	}

	for {
		row, err := reader.Read()
		if err != nil {
			return nil
		}
		if len(row) <= refCol || len(row) <= transCol || len(row) <= textCol {
			continue
		}
		rowRef := strings.TrimSpace(row[refCol])
		rowTrans := strings.ToUpper(strings.TrimSpace(row[transCol]))
		if !strings.EqualFold(rowRef, reference) || rowTrans != strings.ToUpper(translation) {
			continue
		}
		text := strings.TrimSpace(row[textCol])
		if text == "" {
			continue
		}
		return &Result{
			Reference:          reference,
			Text:               text,
			Translation:        translation,
			RetrievalSource:    "operator_import",
			VerificationStatus: "operator_imported",
		}
	}
}

var referencePattern = regexp.MustCompile(`^(.+?)\s+(\d+):(\d+)(?:-(\d+))?$`)

// ParseReference decodes "Romans 8:15" or "1 Corinthians 13:4-7" into a
// ParsedReference. Unknown formats and book names return an error.
func ParseReference(reference string) (ParsedReference, error) {
	match := referencePattern.FindStringSubmatch(strings.TrimSpace(reference))
	if match == nil {
		return ParsedReference{}, fmt.Errorf(
			"cannot parse scripture reference %q: expected 'Book Chapter:Verse' or 'Book Chapter:Start-End'", reference)
	}

	bookName := strings.TrimSpace(match[1])
	chapter, _ := strconv.Atoi(match[2])
	verseStart, _ := strconv.Atoi(match[3])
	verseEnd := verseStart
	if match[4] != "" {
		verseEnd, _ = strconv.Atoi(match[4])
	}
	if verseEnd < verseStart {
		return ParsedReference{}, fmt.Errorf("invalid verse range %d-%d in %q", verseStart, verseEnd, reference)
	}

	bookID, ok := BookID(bookName)
	if !ok {
		return ParsedReference{}, fmt.Errorf("unknown book name %q in scripture reference", bookName)
	}

	verses := make([]int, 0, verseEnd-verseStart+1)
	for v := verseStart; v <= verseEnd; v++ {
		verses = append(verses, v)
	}

	return ParsedReference{
		BookName: bookName,
		BookID:   bookID,
		Chapter:  chapter,
		Verses:   verses,
	}, nil
}

// StripHTML removes markup and returns the concatenated text content.
func StripHTML(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}
