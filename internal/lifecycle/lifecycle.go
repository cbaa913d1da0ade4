// Package lifecycle puts the terminal back the way it was found, whatever
// path the program exits through.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/llehouerou/lsix/internal/errmsg"
	"github.com/llehouerou/lsix/internal/graphics"
)

// Escape sequences written by Restore, in order.
const (
	leaveAltScreen = "\x1b[?1049l"
	showCursor     = "\x1b[?25h"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

type guard struct {
	name string
	fn   func() error
}

// Controller is a stack of cleanup guards plus the saved terminal state.
// It is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	out       io.Writer
	logger    *log.Logger
	guards    []guard
	fd        int
	state     *term.State
	altScreen bool
	restored  bool
}

// New creates a controller writing its reset sequences to out.
func New(out io.Writer, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{out: out, logger: logger, fd: -1}
}

// Push registers a cleanup. Guards run last-in first-out.
func (c *Controller) Push(name string, fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guards = append(c.guards, guard{name: name, fn: fn})
}

// SaveTerminal remembers the line discipline of fd so Restore can bring it
// back. Only the first call is kept.
func (c *Controller) SaveTerminal(fd int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != nil {
		return nil
	}
	state, err := term.GetState(fd)
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpRestoreTerm, err)
	}
	c.fd, c.state = fd, state
	return nil
}

// MarkAltScreen records that the alternate screen was entered.
func (c *Controller) MarkAltScreen() {
	c.mu.Lock()
	c.altScreen = true
	c.mu.Unlock()
}

// LeftAltScreen records that the alternate screen was left normally.
func (c *Controller) LeftAltScreen() {
	c.mu.Lock()
	c.altScreen = false
	c.mu.Unlock()
}

// Restore runs the guards, ends any pending sixel stream, leaves the
// alternate screen if needed, shows the cursor and restores the saved line
// discipline. Only the first call does anything; later calls return nil.
func (c *Controller) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restored {
		return nil
	}
	c.restored = true

	var errs []error
	for i := len(c.guards) - 1; i >= 0; i-- {
		g := c.guards[i]
		if err := g.fn(); err != nil {
			c.logger.Debug("cleanup failed", "guard", g.name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", g.name, err))
		}
	}
	c.guards = nil

	seq := graphics.Stop
	if c.altScreen {
		seq += leaveAltScreen
	}
	seq += showCursor
	if c.out != nil {
		if _, err := io.WriteString(c.out, seq); err != nil {
			errs = append(errs, err)
		}
		if f, ok := c.out.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if c.state != nil {
		if err := term.Restore(c.fd, c.state); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", errmsg.OpRestoreTerm, err))
		}
	}

	return errors.Join(errs...)
}

// NotifyInterrupt returns a context canceled on SIGINT or SIGTERM.
// Until the cancel func runs, SIGPIPE is caught too, so a write to a
// closed stdout fails with EPIPE instead of killing the process before
// Restore.
func NotifyInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	pipe := make(chan os.Signal, 1)
	signal.Notify(pipe, syscall.SIGPIPE)

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return sigCtx, func() {
		stop()
		signal.Stop(pipe)
	}
}

// ExitCode maps the outcome of a run to a process exit status.
// interrupted reports whether the run was stopped by a signal.
func ExitCode(err error, interrupted bool) int {
	if interrupted {
		return ExitInterrupted
	}
	switch errmsg.Kind(err) {
	case errmsg.ErrInterrupt:
		return ExitInterrupted
	case errmsg.ErrOutputClosed:
		return ExitOK
	}
	if err == nil {
		return ExitOK
	}
	return ExitFailure
}
