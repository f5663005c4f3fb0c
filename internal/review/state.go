package review

// Phase is the lifecycle of one orchestrator. Each orchestrator on the desk
// (fetch, scoring batch, reset, per-image action) is either idle, running, or
// parked on its last failure. Modelling this as one small state machine per
// orchestrator keeps impossible flag combinations (scoring and resetting at
// once) unrepresentable for the renderer.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseFailed
)

// String renders the phase for logs and status lines.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseFailed:
		return "failed"
	}
	return "idle"
}

// Progress counts attempts inside a scoring batch. Current increments after
// every attempt, successful or not.
type Progress struct {
	Current int
	Total   int
}

// State is the read-only view of one orchestrator exposed to the renderer.
type State struct {
	Phase     Phase
	Progress  Progress
	LastError string
}

// Running reports whether the orchestrator is mid-flight.
func (s State) Running() bool {
	return s.Phase == PhaseRunning
}

// Outcome is the result of one scoring attempt inside a batch. Failures are
// recorded, not thrown: the batch is best-effort by contract and later
// attempts proceed regardless.
type Outcome struct {
	Path           string
	Score          float64
	Recommendation string
	Err            error
	Progress       Progress
}

// Summary describes a finished scoring batch.
type Summary struct {
	RunID  string
	Total  int
	Scored int
	Failed int
}
