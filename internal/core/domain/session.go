package domain

import "time"

// WorkerState is the state of a screen worker's refresh loop.
type WorkerState int32

// Worker states.
const (
	WorkerStarting WorkerState = iota
	WorkerSleeping
	WorkerRendering
	WorkerBackoff
	WorkerCancelled
)

// String returns the string representation.
func (s WorkerState) String() string {
	switch s {
	case WorkerStarting:
		return "starting"
	case WorkerSleeping:
		return "sleeping"
	case WorkerRendering:
		return "rendering"
	case WorkerBackoff:
		return "backoff"
	case WorkerCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// SessionInfo is a snapshot of the live session.
type SessionInfo struct {
	// ID uniquely identifies the session across restarts.
	ID string

	// ScreenID is the live screen.
	ScreenID ScreenID

	// Generation increases by one for every session started.
	// Effects from older generations are discarded.
	Generation uint64

	// StartedAt is when the session became live.
	StartedAt time.Time

	// WorkerState is the current state of the session's worker.
	WorkerState WorkerState
}

// ButtonEvent is a discrete "show this screen" request from an input source.
type ButtonEvent struct {
	// Label is the raw input identifier (e.g. "A", a key, or a file name).
	Label string

	// ScreenID is the screen the input is bound to.
	// Empty when the label is not bound to anything.
	ScreenID ScreenID

	// At is when the input was observed.
	At time.Time
}
