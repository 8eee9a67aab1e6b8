// Package cli provides the inkdash command tree.
//
// Commands load the dashboard configuration through the settings service
// and wire display, input and history adapters on demand, so that
// read-only commands such as history never touch the panel hardware.
package cli
