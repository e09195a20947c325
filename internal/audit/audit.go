// Package audit provides a read-only reconciliation pass over devotional
// days, verifying that every referenced grounding and prayer-trace
// artifact exists and is structurally and semantically valid. The
// auditor is meant to run safely over arbitrary, partially corrupt
// production data: it never returns an error and never mutates anything.
package audit

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/devotional"
	"github.com/kalambet/devo/internal/validation"
)

// Artifact statuses.
const (
	StatusAbsent  = "absent"  // the section carries no artifact id
	StatusPass    = "pass"    // artifact loads and its content check passes
	StatusMissing = "missing" // id present but nothing stored under it
	StatusInvalid = "invalid" // artifact loads but fails its check, or bytes are corrupt
)

// Result is one day's integrity report. Grounding and prayer-trace
// statuses are independent.
type Result struct {
	DevotionalID      string   `json:"devotional_id"`
	GroundingStatus   string   `json:"grounding_status"`
	PrayerTraceStatus string   `json:"prayer_trace_status"`
	Details           []string `json:"details,omitempty"`
}

// Auditor reconciles day sections against the artifact stores.
type Auditor struct {
	grounding *artifact.GroundingStore
	traces    *artifact.TraceStore
}

// New creates an auditor over the given stores.
func New(grounding *artifact.GroundingStore, traces *artifact.TraceStore) *Auditor {
	return &Auditor{grounding: grounding, traces: traces}
}

func (a *Auditor) auditGrounding(id string) (string, []string) {
	if id == "" {
		return StatusAbsent, nil
	}
	assessments, err := validation.CheckStoredGroundingMap(id, a.grounding)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return StatusMissing, []string{fmt.Sprintf("grounding: artifact %q not found in store", id)}
		}
		return StatusInvalid, []string{fmt.Sprintf("grounding: artifact %q failed schema validation: %v", id, err)}
	}
	var details []string
	for _, as := range assessments {
		if as.Failed() {
			details = append(details, fmt.Sprintf("grounding %s: %s", as.CheckID, as.ReasonCode))
		}
	}
	if len(details) > 0 {
		return StatusInvalid, details
	}
	return StatusPass, nil
}

func (a *Auditor) auditPrayerTrace(id string) (string, []string) {
	if id == "" {
		return StatusAbsent, nil
	}
	assessments, err := validation.CheckStoredPrayerTraceMap(id, a.traces)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return StatusMissing, []string{fmt.Sprintf("prayer_trace: artifact %q not found in store", id)}
		}
		return StatusInvalid, []string{fmt.Sprintf("prayer_trace: artifact %q failed schema validation: %v", id, err)}
	}
	if len(assessments) == 0 {
		return StatusInvalid, []string{fmt.Sprintf("prayer_trace: artifact %q produced no PRAYER_TRACE_MAP assessment", id)}
	}
	if assessments[0].Failed() {
		return StatusInvalid, []string{fmt.Sprintf("prayer_trace %s: %s", assessments[0].CheckID, assessments[0].ReasonCode)}
	}
	return StatusPass, nil
}

// Audit reports artifact integrity for each day. Output is sorted by the
// derived devotional id ascending, independent of input order.
func (a *Auditor) Audit(days []devotional.Day) []Result {
	results := make([]Result, 0, len(days))
	for _, day := range days {
		gmStatus, gmDetails := a.auditGrounding(day.Exposition.GroundingMapID)
		ptmStatus, ptmDetails := a.auditPrayerTrace(day.Prayer.PrayerTraceMapID)
		results = append(results, Result{
			DevotionalID:      fmt.Sprintf("day-%d", day.DayNumber),
			GroundingStatus:   gmStatus,
			PrayerTraceStatus: ptmStatus,
			Details:           append(gmDetails, ptmDetails...),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].DevotionalID < results[j].DevotionalID
	})
	return results
}
