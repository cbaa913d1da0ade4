// Package termio talks to the controlling terminal: escape-sequence queries
// with hard deadlines, input draining and window size.
package termio

import "errors"

// ErrTimeout is returned when a query reply did not complete in time.
var ErrTimeout = errors.New("terminal query timed out")

// Size is the window size reported by the kernel. Pixel fields are zero
// when the terminal does not report them.
type Size struct {
	Cols, Rows     int
	XPixel, YPixel int
}

// CellPixels returns the pixel size of one character cell, or (0, 0) when
// the pixel fields are missing.
func (s Size) CellPixels() (w, h int) {
	if s.Cols <= 0 || s.Rows <= 0 || s.XPixel <= 0 || s.YPixel <= 0 {
		return 0, 0
	}
	return s.XPixel / s.Cols, s.YPixel / s.Rows
}

// Terminator reports whether a reply buffer is complete.
type Terminator func(reply []byte) bool

// EndsWith completes a reply on any of the given final bytes.
func EndsWith(final ...byte) Terminator {
	return func(reply []byte) bool {
		if len(reply) == 0 {
			return false
		}
		last := reply[len(reply)-1]
		for _, b := range final {
			if last == b {
				return true
			}
		}
		return false
	}
}

// OSCEnd completes an OSC reply on BEL or ST (ESC \).
func OSCEnd(reply []byte) bool {
	n := len(reply)
	if n == 0 {
		return false
	}
	if reply[n-1] == '\a' {
		return true
	}
	return n >= 2 && reply[n-2] == 0x1b && reply[n-1] == '\\'
}
