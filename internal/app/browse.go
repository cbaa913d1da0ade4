package app

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/llehouerou/lsix/internal/browser"
	"github.com/llehouerou/lsix/internal/errmsg"
	"github.com/llehouerou/lsix/internal/stderr"
	"github.com/llehouerou/lsix/internal/termprobe"
	"github.com/llehouerou/lsix/internal/thumbs"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// flushCaptured stops the capture and hands the lines the browser never
// showed to the real stderr, including those still in the pipe.
func flushCaptured(c *stderr.Capture) {
	lines := c.Lines()
	c.Stop()
	if lines == nil {
		return
	}
	for line := range lines {
		c.WriteOriginal(line + "\n")
	}
}

// browse runs the interactive grid on the alternate screen.
func (a *app) browse(ctx context.Context, entries []thumbs.Entry, profile termprobe.Profile) error {
	if !isTerminal(a.opts.Stdin) || !isTerminal(a.opts.Stdout) {
		return fmt.Errorf("%w: the browser needs a terminal on stdin and stdout", errmsg.ErrEnvironmentUnsupported)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cellW, cellH := termprobe.CellSize(a.querier())

	capture, err := stderr.Start()
	if err != nil {
		a.log.Debug("stderr not captured", "err", err)
	}
	a.ctrl.Push("stderr", func() error {
		flushCaptured(capture)
		return nil
	})

	var drain func()
	if a.tty != nil {
		drain = a.tty.Drain
	}

	return browser.Run(ctx, browser.Options{
		Entries: entries,
		Pool:    a.pool,
		Profile: profile,
		CellW:   cellW,
		CellH:   cellH,
		Cwd:     cwd,
		Stderr:  capture.Lines(),
		Logger:  a.log,
		Drain:   drain,
		Input:   a.opts.Stdin,
		Output:  a.opts.Stdout,
	}, a.ctrl)
}
