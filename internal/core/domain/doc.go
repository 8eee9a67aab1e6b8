// Package domain defines the core entities for inkdash.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ScreenID: The key a screen is registered under
//   - ScreenHandle: A registered screen and its refresh interval
//   - Frame: A fully rendered image ready for the display
//   - SessionInfo: The record of which screen is currently live
//   - RenderRecord / SessionRecord: Entries of the render history log
//   - DashboardConfig: Startup configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
