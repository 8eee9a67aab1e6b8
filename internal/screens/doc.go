// Package screens provides the built-in dashboard screens and a registry
// that builds them from configuration. Each screen lives in its own
// subpackage and knows how to fetch its data and lay out a frame.
//
// Screens are built once at startup and registered with the session
// controller.
package screens
