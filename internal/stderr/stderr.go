//go:build unix

// Package stderr captures output written to file descriptor 2 while the
// browser owns the screen, so stray diagnostics do not corrupt the grid.
// Captured lines are handed to the UI instead.
package stderr

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Capture redirects fd 2 into a pipe until Stop is called.
type Capture struct {
	orig      int
	pipeRead  *os.File
	pipeWrite *os.File
	lines     chan string
	done      chan struct{}
}

// Start begins capturing stderr output.
// On error the program can continue without capture; output just goes to
// the original stderr.
func Start() (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		orig:      orig,
		pipeRead:  r,
		pipeWrite: w,
		lines:     make(chan string, 100),
		done:      make(chan struct{}),
	}
	go c.read()
	return c, nil
}

func (c *Capture) read() {
	defer close(c.done)
	defer close(c.lines)
	scanner := bufio.NewScanner(c.pipeRead)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case c.lines <- line:
		default:
			// Channel full, drop message to avoid blocking
		}
	}
}

// Lines receives captured stderr lines. It is closed after Stop.
func (c *Capture) Lines() <-chan string {
	if c == nil {
		return nil
	}
	return c.lines
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// After Stop fd 2 is the original again.
func (c *Capture) WriteOriginal(msg string) {
	if c == nil || c.pipeWrite == nil {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr and waits for the reader to finish.
// Safe to call on a nil Capture and more than once.
func (c *Capture) Stop() {
	if c == nil || c.pipeWrite == nil {
		return
	}

	_ = dup2(c.orig, int(os.Stderr.Fd()))
	_ = unix.Close(c.orig)

	c.pipeWrite.Close()
	c.pipeWrite = nil
	<-c.done
	c.pipeRead.Close()
}
