package app

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/lsix/internal/layout"
	"github.com/llehouerou/lsix/internal/montage"
	"github.com/llehouerou/lsix/internal/pipeline"
	"github.com/llehouerou/lsix/internal/termprobe"
	"github.com/llehouerou/lsix/internal/thumbs"
)

// batch streams the montage rows to stdout.
func (a *app) batch(ctx context.Context, entries []thumbs.Entry, profile termprobe.Profile) error {
	params := layout.Compute(profile, layout.Options{
		TileSize: a.cfg.TileSize,
		Colors:   a.cfg.Colors,
		Shadow:   a.cfg.Shadow,
	})
	a.log.Debug("montage",
		"tile", params.TileW, "perRow", params.TilesPerRow,
		"colors", params.PaletteSize(), "font", params.FontSize)

	renderer := montage.NewRenderer(montage.Options{
		Pool:   a.pool,
		Cache:  a.cache,
		Logger: a.log,
	})

	stats, err := pipeline.Stream(ctx, a.opts.Stdout, entries, params, renderer, pipeline.Options{
		Workers: a.cfg.Workers,
		Logger:  a.log,
		Progress: func(done, total int) {
			a.log.Debug("rows", "done", done, "total", total)
		},
	})
	a.log.Debug("done",
		"rows", stats.Rows, "written", stats.Written, "skipped", stats.Skipped,
		"bytes", humanize.Bytes(uint64(max(stats.Bytes, 0))))
	return err
}
