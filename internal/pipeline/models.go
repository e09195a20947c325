// Package pipeline drives generation end to end: the per-day attempt
// loop with rewrite routing, registry recording, the export gate, and
// the final render/export handoff.
package pipeline

import (
	"github.com/kalambet/devo/internal/devotional"
)

// RewriteEvent records one failed attempt and where it was routed.
type RewriteEvent struct {
	DayNumber      int      `json:"day_number"`
	AttemptNumber  int      `json:"attempt_number"`
	Signal         string   `json:"signal"`
	FailedCheckIDs []string `json:"failed_check_ids"`
}

// ValidationSummary aggregates check outcomes across all accepted days.
type ValidationSummary struct {
	TotalChecks   int            `json:"total_checks"`
	Passed        int            `json:"passed"`
	Failed        int            `json:"failed"`
	RewriteEvents []RewriteEvent `json:"rewrite_events"`
}

// ExportabilityResult is the export gate's decision.
type ExportabilityResult struct {
	Exportable    bool     `json:"exportable"`
	BlockedReason string   `json:"blocked_reason,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Result is everything the pipeline hands back: the assembled book, PDF
// bytes (empty when export was blocked), the validation summary, the
// gate decision, and the registry volume the book was recorded under.
type Result struct {
	Book             devotional.Book     `json:"book"`
	PDF              []byte              `json:"-"`
	Summary          ValidationSummary   `json:"validation_summary"`
	ExportGate       ExportabilityResult `json:"export_gate_result"`
	RegistryVolumeID string              `json:"registry_volume_id"`
}
