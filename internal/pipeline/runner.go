package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/devotional"
	"github.com/kalambet/devo/internal/generation"
	"github.com/kalambet/devo/internal/validation"
)

// maxAttempts bounds the per-day generation loop: attempt 1 routes
// failures to auto-rewrite, attempt 2 to human review, and a day that
// still fails after attempt 2 is accepted as-is with its failures
// recorded for downstream triage. There is no attempt 3.
const maxAttempts = 2

// Ledger is the usage registry surface the pipeline records to.
type Ledger interface {
	CreateSeries(id, title string) error
	CreateVolume(id, seriesID string, volumeNumber int, title string) error
	RecordQuoteUse(volumeID, seriesID, quoteText, author, sourceTitle string, publicationYear int, overrideReason string) error
	RecordScriptureUse(volumeID, reference, translation string) (string, error)
}

// Exporter renders an exportable book and returns PDF bytes.
type Exporter interface {
	Export(ctx context.Context, book devotional.Book, mode devotional.OutputMode) ([]byte, error)
}

// Runner coordinates generation, validation, rewrite routing, registry
// recording, and the export gate.
type Runner struct {
	Generator generation.Generator
	Ledger    Ledger
	Exporter  Exporter // optional; nil skips rendering
	Grounding *artifact.GroundingStore // optional; nil skips artifact resolution
	Traces    *artifact.TraceStore     // optional
	Logger    *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) validate(day devotional.Day) ([]validation.Assessment, error) {
	if r.Grounding != nil && r.Traces != nil {
		return validation.ValidateDayResolved(day, r.Grounding, r.Traces)
	}
	return validation.ValidateDay(day, nil, nil), nil
}

// Run generates a validated book for the input and returns PDF bytes
// plus metadata. seriesID may be empty; a fresh series is created.
func (r *Runner) Run(ctx context.Context, input devotional.Input, seriesID string) (Result, error) {
	if seriesID == "" {
		seriesID = uuid.NewString()
	}
	volumeID := uuid.NewString()

	if err := r.Ledger.CreateSeries(seriesID, input.Topic); err != nil {
		return Result{}, fmt.Errorf("creating series: %w", err)
	}
	if err := r.Ledger.CreateVolume(volumeID, seriesID, 1, input.Topic); err != nil {
		return Result{}, fmt.Errorf("creating volume: %w", err)
	}

	var (
		days           []devotional.Day
		allAssessments []validation.Assessment
		rewriteEvents  []RewriteEvent
	)

	for dayNum := 1; dayNum <= input.NumDays; dayNum++ {
		var (
			finalDay         devotional.Day
			finalAssessments []validation.Assessment
		)

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			day, err := r.Generator.GenerateDay(ctx, input.Topic, dayNum, attempt)
			if err != nil {
				return Result{}, fmt.Errorf("generating day %d: %w", dayNum, err)
			}
			assessments, err := r.validate(day)
			if err != nil {
				return Result{}, fmt.Errorf("validating day %d: %w", dayNum, err)
			}

			failed := false
			for _, a := range assessments {
				if a.Failed() {
					failed = true
					break
				}
			}
			if !failed {
				finalDay, finalAssessments = day, assessments
				break
			}

			decision := validation.Route(assessments, attempt)
			ids := make([]string, len(decision.Failed))
			for i, a := range decision.Failed {
				ids[i] = a.CheckID
			}
			rewriteEvents = append(rewriteEvents, RewriteEvent{
				DayNumber:      dayNum,
				AttemptNumber:  attempt,
				Signal:         decision.Signal,
				FailedCheckIDs: ids,
			})
			r.logger().Warn("day failed validation",
				"day", dayNum, "attempt", attempt, "signal", decision.Signal, "failed_checks", ids)

			if attempt == maxAttempts {
				// Accept the day as-is; failures travel with the summary.
				finalDay, finalAssessments = day, assessments
			}
		}

		if n := dayNum - 1; n < len(input.DayFocus) {
			finalDay.DayFocus = input.DayFocus[n]
		}

		tw := finalDay.TimelessWisdom
		if err := r.Ledger.RecordQuoteUse(volumeID, seriesID, tw.QuoteText, tw.Author, tw.SourceTitle, tw.PublicationYear, ""); err != nil {
			return Result{}, fmt.Errorf("recording quote use for day %d: %w", dayNum, err)
		}
		warning, err := r.Ledger.RecordScriptureUse(volumeID, finalDay.Scripture.Reference, finalDay.Scripture.Translation)
		if err != nil {
			return Result{}, fmt.Errorf("recording scripture use for day %d: %w", dayNum, err)
		}
		if warning != "" {
			r.logger().Warn("scripture reuse", "day", dayNum, "detail", warning)
		}

		allAssessments = append(allAssessments, finalAssessments...)
		days = append(days, finalDay)
	}

	book := devotional.Book{
		ID:           uuid.NewString(),
		Input:        input,
		Days:         days,
		SeriesID:     seriesID,
		VolumeNumber: 1,
	}

	gate := CheckExportability(book, input.OutputMode)

	var pdf []byte
	if gate.Exportable && r.Exporter != nil {
		var err error
		pdf, err = r.Exporter.Export(ctx, book, input.OutputMode)
		if err != nil {
			return Result{}, fmt.Errorf("exporting book: %w", err)
		}
	}

	var passed, failed int
	for _, a := range allAssessments {
		if a.Failed() {
			failed++
		} else {
			passed++
		}
	}

	return Result{
		Book: book,
		PDF:  pdf,
		Summary: ValidationSummary{
			TotalChecks:   len(allAssessments),
			Passed:        passed,
			Failed:        failed,
			RewriteEvents: rewriteEvents,
		},
		ExportGate:       gate,
		RegistryVolumeID: volumeID,
	}, nil
}
