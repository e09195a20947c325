package validation

import "testing"

func TestRoute(t *testing.T) {
	assessments := []Assessment{
		passed("EXPOSITION_WORD_COUNT"),
		{CheckID: "EXPOSITION_VOICE", Result: ResultFail, ReasonCode: "EXPOSITION_SECOND_PERSON_VIOLATION"},
		{CheckID: "PRAYER_WORD_COUNT", Result: ResultFail, ReasonCode: "PRAYER_WORD_COUNT_VIOLATION"},
	}

	tests := []struct {
		name       string
		attempt    int
		wantSignal string
	}{
		{"first attempt rewrites", 1, SignalAutoRewrite},
		{"second attempt escalates", 2, SignalHumanReview},
		{"later attempts escalate", 3, SignalHumanReview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Route(assessments, tt.attempt)
			if d.Signal != tt.wantSignal {
				t.Errorf("signal = %s, want %s", d.Signal, tt.wantSignal)
			}
			if len(d.Failed) != 2 {
				t.Errorf("failed = %d, want 2", len(d.Failed))
			}
		})
	}
}

func TestRoute_AllPassing(t *testing.T) {
	d := Route([]Assessment{passed("EXPOSITION_WORD_COUNT")}, 1)
	if len(d.Failed) != 0 {
		t.Errorf("failed = %d, want 0", len(d.Failed))
	}
	if d.Signal != SignalAutoRewrite {
		t.Errorf("signal = %s, want %s", d.Signal, SignalAutoRewrite)
	}
}
