package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Session Errors.

	// ErrUnknownScreen indicates a switch to a screen that was never registered.
	// The live session is left untouched.
	ErrUnknownScreen = errors.New("unknown screen")

	// ErrDuplicateScreen indicates a screen ID was registered twice.
	// This is a startup misconfiguration and is fatal.
	ErrDuplicateScreen = errors.New("screen already registered")

	// ErrInvalidInterval indicates a non-positive update interval.
	ErrInvalidInterval = errors.New("update interval must be positive")

	// ErrNoScreens indicates the dashboard was started with nothing registered.
	ErrNoScreens = errors.New("no screens registered")

	// ErrControllerClosed indicates the session controller has been shut down.
	ErrControllerClosed = errors.New("session controller closed")

	// ErrHandoffTimeout indicates the outgoing worker did not confirm it stopped
	// within the handoff timeout. The controller proceeds in degraded mode.
	ErrHandoffTimeout = errors.New("handoff timeout")

	// Render Errors.

	// ErrRender indicates a screen failed to produce a frame.
	ErrRender = errors.New("render failed")

	// ErrCommit indicates the display refused or failed to show a frame.
	ErrCommit = errors.New("commit failed")
)
