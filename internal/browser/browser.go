// Package browser is the interactive thumbnail grid shown on the alternate
// screen.
package browser

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/llehouerou/lsix/internal/errmsg"
	"github.com/llehouerou/lsix/internal/lifecycle"
	"github.com/llehouerou/lsix/internal/termprobe"
	"github.com/llehouerou/lsix/internal/thumbs"
)

// Options configures a browser session.
type Options struct {
	Entries []thumbs.Entry
	Pool    *thumbs.Pool
	Profile termprobe.Profile

	// Pixel size of one character cell.
	CellW, CellH int

	Cwd    string
	Stderr <-chan string // captured stderr lines shown on the status line
	Logger *log.Logger

	// Drain discards pending terminal input before the alternate screen
	// is entered. May be nil.
	Drain func()

	// Input and Output default to the program's stdin and stdout.
	Input  io.Reader
	Output io.Writer
}

// Run shows the browser until the user quits or ctx is canceled.
// Ctrl-C returns errmsg.ErrInterrupt.
func Run(ctx context.Context, opts Options, ctrl *lifecycle.Controller) error {
	if opts.Drain != nil {
		opts.Drain()
	}

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	p := tea.NewProgram(New(opts), programOpts...)
	if ctrl != nil {
		ctrl.MarkAltScreen()
	}
	final, err := p.Run()
	if ctrl != nil && err == nil {
		ctrl.LeftAltScreen()
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return errmsg.ErrInterrupt
		}
		return err
	}
	if m, ok := final.(Model); ok && m.interrupted {
		return errmsg.ErrInterrupt
	}
	return nil
}
