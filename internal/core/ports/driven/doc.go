// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the dashboard to function:
//
//   - Screen: Produces frames for one logical screen
//   - DisplaySink: Commits finished frames to the panel
//   - ButtonSource: Produces "switch to screen X" events
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the dashboard degrades gracefully:
//
//   - HistoryStore: Render and session log. Without it nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or screen package
package driven
