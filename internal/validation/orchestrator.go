package validation

import (
	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/devotional"
)

// ValidateDay runs every deterministic validator over one day and
// aggregates the assessments in fixed order:
//
//  1. exposition checks
//  2. be-still checks
//  3. action-steps checks
//  4. prayer checks
//  5. doctrinal checks on exposition text
//  6. doctrinal checks on prayer text
//
// The order is load-bearing for deterministic reporting. Artifact
// arguments are optional: a nil map omits the corresponding check. This
// function performs no artifact resolution; see ValidateDayResolved.
func ValidateDay(day devotional.Day, gm *artifact.GroundingMap, ptm *artifact.PrayerTraceMap) []Assessment {
	var assessments []Assessment
	assessments = append(assessments, ValidateExposition(day.Exposition, gm)...)
	assessments = append(assessments, ValidateBeStill(day.BeStill)...)
	assessments = append(assessments, ValidateActionSteps(day.ActionSteps)...)
	assessments = append(assessments, ValidatePrayer(day.Prayer, ptm)...)
	assessments = append(assessments, CheckDoctrinal(day.Exposition.Text)...)
	assessments = append(assessments, CheckDoctrinal(day.Prayer.Text)...)
	return assessments
}

// ValidateDayResolved loads any referenced artifacts from the canonical
// stores before validating. An empty artifact id skips the optional
// check; a set-but-missing id is an error that propagates — a non-empty
// id is a promise that must be honored, never silently skipped.
func ValidateDayResolved(day devotional.Day, gms *artifact.GroundingStore, tms *artifact.TraceStore) ([]Assessment, error) {
	gm, err := artifact.ResolveGroundingMap(day.Exposition, gms)
	if err != nil {
		return nil, err
	}
	ptm, err := artifact.ResolvePrayerTraceMap(day.Prayer, tms)
	if err != nil {
		return nil, err
	}
	return ValidateDay(day, gm, ptm), nil
}
