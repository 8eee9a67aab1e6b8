package buttons

import (
	"fmt"
	"io"
)

// ErrClosed is returned by Next after Close. It wraps io.EOF so the
// session controller treats it as the end of the stream.
var ErrClosed = fmt.Errorf("button source closed: %w", io.EOF)
