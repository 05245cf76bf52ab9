package task

// Verdict is the result of a Check run: a boolean with an explanation.
// The zero value is a failed verdict with no reason.
type Verdict struct {
	// Passed is true if the condition was met.
	Passed bool `json:"passed"`

	// Reason explains the verdict. Populated when the condition failed.
	Reason string `json:"reason,omitempty"`
}

// Bool returns the truth value, so verdicts read naturally in conditions.
func (v Verdict) Bool() bool {
	return v.Passed
}

// String renders the verdict for logs.
func (v Verdict) String() string {
	if v.Passed {
		if v.Reason == "" {
			return "Verdict(PASSED)"
		}
		return "Verdict(PASSED: " + v.Reason + ")"
	}
	return "Verdict(FAILED: " + v.Reason + ")"
}
