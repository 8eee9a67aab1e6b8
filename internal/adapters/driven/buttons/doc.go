// Package buttons holds the pieces shared by the button sources: press
// debouncing and a source that never fires.
package buttons
