package agent

// Phase is the agent's position in its wake/response cycle. Exactly one
// phase is active at a time.
type Phase int8

const (
	// PhaseInactive covers pre-market and the window at the top of every
	// wakeup before the cycle decides what to do.
	PhaseInactive Phase = iota
	// PhaseAwaitingWakeup means the agent is idle with a future wake
	// scheduled.
	PhaseAwaitingWakeup
	// PhaseAwaitingSpread means a spread query is outstanding; no second
	// query may be issued until the response arrives or a wakeup resets
	// the cycle.
	PhaseAwaitingSpread
	// PhaseActive is an extension point for specialized agents; the base
	// strategies never enter it.
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "INACTIVE"
	case PhaseAwaitingWakeup:
		return "AWAITING_WAKEUP"
	case PhaseAwaitingSpread:
		return "AWAITING_SPREAD"
	case PhaseActive:
		return "ACTIVE"
	default:
		return "UNKNOWN"
	}
}
