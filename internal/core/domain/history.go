package domain

import "time"

// RenderTrigger describes why a render happened.
type RenderTrigger string

// Render triggers.
const (
	// TriggerSwitch is the immediate render performed inside a switch.
	TriggerSwitch RenderTrigger = "switch"

	// TriggerSchedule is a render after the update interval elapsed.
	TriggerSchedule RenderTrigger = "schedule"

	// TriggerRetry is a render after a failure backoff.
	TriggerRetry RenderTrigger = "retry"
)

// SessionEndReason describes why a session stopped being live.
type SessionEndReason string

// Session end reasons.
const (
	EndSwitched SessionEndReason = "switched"
	EndShutdown SessionEndReason = "shutdown"
)

// RenderRecord is one entry of the render history log.
type RenderRecord struct {
	// SessionID identifies the session the render belonged to.
	SessionID string

	// ScreenID identifies the rendered screen.
	ScreenID ScreenID

	// Generation is the session generation at render time.
	Generation uint64

	// Trigger is why the render happened.
	Trigger RenderTrigger

	// StartedAt is when rendering began.
	StartedAt time.Time

	// EndedAt is when the frame was committed or the attempt failed.
	EndedAt time.Time

	// Success indicates the frame was rendered and committed without error.
	Success bool

	// Committed is false when the frame was discarded because the session
	// had already been superseded.
	Committed bool

	// Error contains the error message if Success is false.
	Error string
}

// Duration returns how long the attempt took.
func (r RenderRecord) Duration() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// SessionRecord is one entry of the session history log.
type SessionRecord struct {
	// ID uniquely identifies the session.
	ID string

	// ScreenID is the screen the session showed.
	ScreenID ScreenID

	// Generation is the session generation.
	Generation uint64

	// StartedAt is when the session became live.
	StartedAt time.Time

	// EndedAt is when the session was superseded or shut down.
	// Zero while the session is live.
	EndedAt time.Time

	// EndReason is why the session ended. Empty while live.
	EndReason SessionEndReason

	// DegradedHandoff is true when the worker did not confirm it stopped
	// within the handoff timeout.
	DegradedHandoff bool
}
