// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to driven
// ports (adapters).
//
// The SessionController and its screen workers are the only part of
// inkdash with lifecycle and concurrency contracts: one live screen at a
// time, bounded handoff between screens, and a generation fence that keeps
// the display single-writer even when an old worker overstays.
//
// Services are pure Go with no CGO or hardware dependencies.
package services
