// Package app wires the lsix components together for one run.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/lsix/internal/config"
	"github.com/llehouerou/lsix/internal/errmsg"
	"github.com/llehouerou/lsix/internal/imgsrc"
	"github.com/llehouerou/lsix/internal/lifecycle"
	"github.com/llehouerou/lsix/internal/rowcache"
	"github.com/llehouerou/lsix/internal/termio"
	"github.com/llehouerou/lsix/internal/termprobe"
	"github.com/llehouerou/lsix/internal/thumbs"
)

// Options is the parsed command line plus the process streams.
type Options struct {
	Args      []string
	Recursive bool
	Long      bool
	TUI       bool
	NoCache   bool
	Debug     bool

	Stdin  *os.File
	Stdout *os.File
	Stderr io.Writer

	// Lookup reads environment variables. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
	// Config replaces the settings read from the config files.
	Config *config.Config
}

type app struct {
	opts   Options
	cfg    *config.Config
	env    config.Env
	log    *log.Logger
	ctrl   *lifecycle.Controller
	tty    *termio.TTY
	pool   *thumbs.Pool
	cache  *rowcache.Cache
	pruned sync.WaitGroup
}

// Run executes one lsix invocation and returns the process exit status.
func Run(ctx context.Context, opts Options) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}

	logger := log.NewWithOptions(opts.Stderr, log.Options{Prefix: "lsix"})
	if opts.Debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}

	a := &app{opts: opts, log: logger}
	if err := a.configure(); err != nil {
		logger.Error(errmsg.Format(errmsg.OpLoadConfig, err))
		return lifecycle.ExitFailure
	}

	sigCtx, stop := lifecycle.NotifyInterrupt(ctx)
	defer stop()

	a.openTerminal()
	err := a.run(sigCtx)
	if restoreErr := a.ctrl.Restore(); restoreErr != nil {
		logger.Debug(errmsg.Format(errmsg.OpRestoreTerm, restoreErr))
	}
	if a.tty != nil {
		_ = a.tty.Close()
	}
	a.pruned.Wait()

	interrupted := sigCtx.Err() != nil && ctx.Err() == nil
	switch {
	case err == nil, errors.Is(err, errmsg.ErrOutputClosed):
	case interrupted, errors.Is(err, context.Canceled), errors.Is(err, errmsg.ErrInterrupt):
		logger.Debug("interrupted")
	default:
		logger.Error(err.Error())
	}
	return lifecycle.ExitCode(err, interrupted)
}

// configure merges config files, the optional env file, the environment
// and the command line, in increasing order of precedence.
func (a *app) configure() error {
	if err := config.LoadDotenv(); err != nil {
		a.log.Warn("ignoring env file", "err", err)
	}
	a.env = config.ReadEnv(a.opts.Lookup)

	cfg := a.opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
	}
	cfg.ApplyEnv(a.env)
	cfg.Recursive = cfg.Recursive || a.opts.Recursive
	cfg.LongLabels = cfg.LongLabels || a.opts.Long
	a.cfg = cfg
	return nil
}

// openTerminal opens the controlling terminal and sets up the controller
// that restores it. Reset sequences go to the terminal, never to stdout.
func (a *app) openTerminal() {
	tty, err := termio.Open()
	if err != nil {
		a.log.Debug("no controlling terminal", "err", err)
		a.ctrl = lifecycle.New(nil, a.log)
		return
	}
	a.tty = tty
	a.ctrl = lifecycle.New(tty, a.log)
	if err := a.ctrl.SaveTerminal(tty.Fd()); err != nil {
		a.log.Debug("terminal state not saved", "err", err)
	}
}

func (a *app) run(ctx context.Context) error {
	profile, err := termprobe.Probe(ctx, a.env, a.querier())
	if err != nil {
		return err
	}
	a.log.Debug("terminal profile",
		"graphics", profile.GraphicsSource,
		"width", profile.PixelWidth, "widthSource", profile.WidthSource,
		"colors", profile.ColorBudget, "colorsSource", profile.ColorsSource,
		"bg", profile.Background, "fg", profile.Foreground)

	res := imgsrc.Resolve(a.opts.Args, imgsrc.Options{
		Recursive:  a.cfg.Recursive,
		LongLabels: a.cfg.LongLabels,
		Logger:     a.log,
	})
	a.pool = thumbs.NewPool(thumbs.Options{Workers: a.cfg.Workers, Logger: a.log})
	entries, err := a.pool.Validate(ctx, res.Entries)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, _ = io.WriteString(a.opts.Stderr, "No image files found.\n")
		return nil
	}
	a.log.Debug("images", "found", len(entries), "skipped", res.Skipped+len(res.Entries)-countSources(entries))

	if !a.opts.NoCache {
		a.openCache()
	}

	if a.opts.TUI {
		return a.browse(ctx, entries, profile)
	}
	return a.batch(ctx, entries, profile)
}

// querier returns the tty as a probe target, or nil without a terminal.
func (a *app) querier() termprobe.Querier {
	if a.tty == nil {
		return nil
	}
	return a.tty
}

func (a *app) openCache() {
	maxAge := time.Duration(a.cfg.CacheMaxAgeDays) * 24 * time.Hour
	cache, err := rowcache.Open(a.cfg.CacheDir, maxAge)
	if err != nil {
		a.log.Debug(errmsg.FormatWith(errmsg.OpCacheOpen, a.cfg.CacheDir, err))
		return
	}
	a.cache = cache
	a.log.Debug("row cache", "dir", cache.Dir(), "maxAge", maxAge)

	a.pruned.Add(1)
	go func() {
		defer a.pruned.Done()
		if n := cache.Prune(); n > 0 {
			a.log.Debug("pruned row cache", "removed", n)
		}
	}()
}

// countSources counts distinct files, so expanded GIF frames count once.
func countSources(entries []thumbs.Entry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.Path] = struct{}{}
	}
	return len(seen)
}
