package validation

// Route maps a validator run plus attempt number to a rewrite decision.
// Attempt 1 routes to automatic rewrite; attempt 2 or later escalates to
// human review. The returned decision carries only the failing
// assessments. Routing performs no rewriting itself.
//
// Callers only invoke Route after at least one failure; an all-passing
// input still yields a well-defined decision with an empty Failed list.
func Route(assessments []Assessment, attemptNumber int) Decision {
	var failed []Assessment
	for _, a := range assessments {
		if a.Failed() {
			failed = append(failed, a)
		}
	}
	signal := SignalHumanReview
	if attemptNumber == 1 {
		signal = SignalAutoRewrite
	}
	return Decision{Signal: signal, Failed: failed}
}
