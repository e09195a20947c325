package validation

import "regexp"

// Doctrinal guardrails: two independent pattern sets scanning for
// prohibited theological framing. One fail per matched category, with
// the first matching substring as evidence — never one per occurrence.

var prosperityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bGod wants you\s+(rich|wealthy|successful|prosperous)\b`),
	regexp.MustCompile(`(?i)\bfinancial blessing\b`),
	regexp.MustCompile(`(?i)\bname it and claim it\b`),
	regexp.MustCompile(`(?i)\bhealth and wealth\b`),
	regexp.MustCompile(`(?i)\bwealth gospel\b`),
	regexp.MustCompile(`(?i)\bprosperity gospel\b`),
}

var worksMeritPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bearn(ed|s)?\s+(your|God'?s)\s+(love|forgiveness|salvation|favor|grace)\b`),
	regexp.MustCompile(`(?i)\bdeserve(d|s)?\s+(grace|mercy|blessing|salvation|forgiveness)\b`),
	regexp.MustCompile(`(?i)\bgood enough for God\b`),
	regexp.MustCompile(`(?i)\bworks?\s+your way\s+to (heaven|salvation|God)\b`),
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// CheckDoctrinal scans arbitrary text against both guardrail categories.
// Returns an empty list when the text is clean.
func CheckDoctrinal(text string) []Assessment {
	var results []Assessment

	if m := firstMatch(prosperityPatterns, text); m != "" {
		results = append(results, Assessment{
			CheckID:     "DOCTRINAL_PROSPERITY",
			Result:      ResultFail,
			ReasonCode:  "DOCTRINAL_PROSPERITY_GOSPEL",
			Explanation: "Text contains prosperity gospel language, which is prohibited by the doctrinal guardrails.",
			Evidence:    m,
		})
	}

	if m := firstMatch(worksMeritPatterns, text); m != "" {
		results = append(results, Assessment{
			CheckID:     "DOCTRINAL_WORKS_MERIT",
			Result:      ResultFail,
			ReasonCode:  "DOCTRINAL_WORKS_MERIT",
			Explanation: "Text contains works-based merit language, which is prohibited by the doctrinal guardrails.",
			Evidence:    m,
		})
	}

	return results
}
