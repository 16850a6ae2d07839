package metrics

import "time"

// Outcome labels a resolve run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
)

// Recorder defines observability hooks for resolve runs.
type Recorder interface {
	ObserveResolveDuration(d time.Duration)
	IncResolveOutcome(outcome Outcome)
	AddIssues(severity string, n int)
	SetEntries(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveResolveDuration(time.Duration) {}
func (NoopRecorder) IncResolveOutcome(Outcome)            {}
func (NoopRecorder) AddIssues(string, int)                {}
func (NoopRecorder) SetEntries(int)                       {}
