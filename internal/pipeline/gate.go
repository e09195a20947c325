package pipeline

import (
	"fmt"
	"strings"

	"github.com/kalambet/devo/internal/devotional"
)

// CheckExportability scans every present section of every day for
// pending approval and decides export eligibility for the requested
// mode. Personal mode surfaces pending sections as warnings and
// proceeds; publish-ready mode blocks with one aggregated reason. Pure
// function: never mutates the book.
func CheckExportability(book devotional.Book, mode devotional.OutputMode) ExportabilityResult {
	var pending []string

	for _, day := range book.Days {
		sections := []struct {
			name   string
			status devotional.ApprovalStatus
		}{
			{"timeless_wisdom", day.TimelessWisdom.ApprovalStatus},
			{"scripture", day.Scripture.ApprovalStatus},
			{"exposition", day.Exposition.ApprovalStatus},
			{"be_still", day.BeStill.ApprovalStatus},
			{"action_steps", day.ActionSteps.ApprovalStatus},
			{"prayer", day.Prayer.ApprovalStatus},
		}
		if day.SendingPrompt != nil {
			sections = append(sections, struct {
				name   string
				status devotional.ApprovalStatus
			}{"sending_prompt", day.SendingPrompt.ApprovalStatus})
		}
		if day.Day7 != nil {
			sections = append(sections, struct {
				name   string
				status devotional.ApprovalStatus
			}{"day7", day.Day7.ApprovalStatus})
		}

		// Anything short of an explicit approval counts as pending,
		// including the zero value.
		for _, s := range sections {
			if s.status != devotional.ApprovalApproved {
				pending = append(pending, fmt.Sprintf("day %d — %s", day.DayNumber, s.name))
			}
		}
	}

	if len(pending) == 0 {
		return ExportabilityResult{Exportable: true}
	}

	if mode == devotional.ModePersonal {
		warnings := make([]string, len(pending))
		for i, s := range pending {
			warnings[i] = "Section pending approval: " + s
		}
		return ExportabilityResult{Exportable: true, Warnings: warnings}
	}

	return ExportabilityResult{
		Exportable:    false,
		BlockedReason: fmt.Sprintf("%d section(s) pending approval: %s", len(pending), strings.Join(pending, "; ")),
	}
}
