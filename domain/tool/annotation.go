package tool

// Annotations describe tool behavior the loop can rely on without
// executing the tool.
type Annotations struct {
	// ReadOnly indicates the tool does not mutate the environment.
	ReadOnly bool `json:"read_only,omitempty"`

	// Idempotent indicates repeated execution with the same arguments is
	// safe. Only idempotent tools are retried on transient failures.
	Idempotent bool `json:"idempotent,omitempty"`
}

// DefaultAnnotations returns the conservative default: mutating and
// non-idempotent.
func DefaultAnnotations() Annotations {
	return Annotations{}
}

// CanRetry reports whether the executor may retry the tool.
func (a Annotations) CanRetry() bool {
	return a.Idempotent || a.ReadOnly
}
