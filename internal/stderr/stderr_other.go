//go:build !unix

// Package stderr provides a no-op implementation where fd 2 cannot be
// redirected.
package stderr

import "os"

// Capture is a no-op on this platform.
type Capture struct{}

// Start is a no-op on this platform.
func Start() (*Capture, error) {
	return nil, nil
}

// Lines returns nil; nothing is captured.
func (c *Capture) Lines() <-chan string {
	return nil
}

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op on this platform.
func (c *Capture) Stop() {}
