// Package pipeline renders rows in parallel and writes them in order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/lsix/internal/errmsg"
	"github.com/llehouerou/lsix/internal/layout"
	"github.com/llehouerou/lsix/internal/thumbs"
)

// RowRenderer renders one row. *montage.Renderer implements it.
type RowRenderer interface {
	RenderRow(ctx context.Context, entries []thumbs.Entry, p layout.Params) ([]byte, error)
}

type Options struct {
	Workers int // 0 means runtime.NumCPU()
	// Window bounds how many rows may be rendered ahead of the one being
	// written. 0 means twice the worker count.
	Window int
	Logger *log.Logger
	// Progress is called after each row is written or skipped.
	Progress func(done, total int)
}

// Stats summarizes a run.
type Stats struct {
	Rows    int
	Written int
	Skipped int
	Bytes   int64
}

type result struct {
	data []byte
	err  error
}

// Stream partitions entries into rows of p.TilesPerRow, renders them on a
// bounded worker pool and writes each row to w strictly in row order. Row
// failures are logged and skipped, as are empty rows, unless errmsg.Fatal
// reports them, which ends the stream with that error. It stops at the first
// write error (errmsg.ErrOutputClosed for a closed pipe) or when ctx is
// done, in which case ctx's error is returned.
func Stream(ctx context.Context, w io.Writer, entries []thumbs.Entry, p layout.Params, r RowRenderer, opts Options) (Stats, error) {
	rows := layout.Rows(len(entries), p.TilesPerRow)
	stats := Stats{Rows: len(rows)}
	if len(rows) == 0 {
		return stats, nil
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	window := opts.Window
	if window <= 0 {
		window = 2 * workers
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]chan result, len(rows))
	for i := range slots {
		slots[i] = make(chan result, 1)
	}
	tokens := make(chan struct{}, window)

	var g errgroup.Group
	g.SetLimit(workers)

	produced := make(chan struct{})
	go func() {
		defer close(produced)
		for i, span := range rows {
			select {
			case tokens <- struct{}{}:
			case <-ctx.Done():
				return
			}
			if ctx.Err() != nil {
				return
			}
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					slots[i] <- result{err: err}
					return nil
				}
				data, err := r.RenderRow(ctx, entries[span.Start:span.End], p)
				slots[i] <- result{data: data, err: err}
				return nil
			})
		}
	}()

	err := drain(ctx, w, slots, tokens, logger, &stats, opts.Progress)

	cancel()
	<-produced
	_ = g.Wait() //nolint:errcheck // workers never return errors

	return stats, err
}

// drain is the only writer to w.
func drain(ctx context.Context, w io.Writer, slots []chan result, tokens chan struct{}, logger *log.Logger, stats *Stats, progress func(int, int)) error {
	for i, slot := range slots {
		var res result
		select {
		case res = <-slot:
		case <-ctx.Done():
			return ctx.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		switch {
		case errmsg.Fatal(res.err):
			return res.err
		case res.err != nil:
			logger.Warn(errmsg.Format(errmsg.OpRenderRow, res.err), "row", i+1)
			stats.Skipped++
		case len(res.data) == 0:
			stats.Skipped++
		default:
			n, err := w.Write(res.data)
			stats.Bytes += int64(n)
			if err != nil {
				return writeError(err)
			}
			stats.Written++
		}

		<-tokens
		if progress != nil {
			progress(i+1, len(slots))
		}
	}
	return nil
}

func writeError(err error) error {
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return fmt.Errorf("%w: %w", errmsg.ErrOutputClosed, err)
	}
	return fmt.Errorf("%s: %w", errmsg.OpWriteOutput, err)
}
