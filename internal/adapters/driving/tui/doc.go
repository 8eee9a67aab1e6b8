// Package tui is the terminal preview of the dashboard.
//
// A Preview is both ends of the hardware: it shows committed frames in the
// terminal (half-block characters, two pixels per cell) and turns key
// presses into button events. Quitting the preview ends the button stream,
// which shuts the session down.
package tui
