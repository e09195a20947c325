// Package validation implements the deterministic content checks that
// gate devotional sections: word counts, voice constraints, doctrinal
// guardrails, and referential checks against grounding and prayer-trace
// artifacts. All checks are pattern and length matching over text; none
// consult a model.
package validation

// Check results.
const (
	ResultPass = "pass"
	ResultFail = "fail"
)

// Assessment is one check's verdict on a section. Assessments are pure
// values; validators never mutate their subject.
type Assessment struct {
	CheckID     string `json:"check_id"`
	Result      string `json:"result"`
	ReasonCode  string `json:"reason_code"`
	Explanation string `json:"explanation"`
	Evidence    string `json:"evidence,omitempty"`
}

func passed(checkID string) Assessment {
	return Assessment{CheckID: checkID, Result: ResultPass}
}

// Failed reports whether the assessment is a failure.
func (a Assessment) Failed() bool { return a.Result == ResultFail }

// Signal values emitted by the rewrite router.
const (
	SignalAutoRewrite = "auto_rewrite"
	SignalHumanReview = "human_review"
)

// Decision is the rewrite router's output: where failing content goes
// next, and which assessments sent it there.
type Decision struct {
	Signal string       `json:"signal"`
	Failed []Assessment `json:"failed_assessments"`
}
