package ui

// Board run states as shown by the frontends.
const (
	StatusRunning = "running"
	StatusPaused  = "paused"
	StatusStalled = "stalled"
)

// Status names the run state of a board. A board that has never ticked is
// paused, not stalled, even though its last tick moved nothing.
func Status(running, moved bool, ticks uint64) string {
	switch {
	case running:
		return StatusRunning
	case ticks > 0 && !moved:
		return StatusStalled
	default:
		return StatusPaused
	}
}
