// Package montage renders rows of thumbnails into sixel data, reusing rows
// cached on disk when their sources have not changed.
package montage

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/lsix/internal/errmsg"
	"github.com/llehouerou/lsix/internal/graphics"
	"github.com/llehouerou/lsix/internal/layout"
	"github.com/llehouerou/lsix/internal/rowcache"
	"github.com/llehouerou/lsix/internal/thumbs"
)

type Options struct {
	Pool   *thumbs.Pool
	Cache  *rowcache.Cache // nil disables the row cache
	Logger *log.Logger
	// KeepDecoded leaves bitmaps in the pool after their row is rendered.
	KeepDecoded bool
}

// Renderer turns a row of entries into sixel bytes. It is safe for
// concurrent use by several row workers.
type Renderer struct {
	pool  *thumbs.Pool
	cache *rowcache.Cache
	log   *log.Logger
	keep  bool
}

func NewRenderer(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	pool := opts.Pool
	if pool == nil {
		pool = thumbs.NewPool(thumbs.Options{Logger: logger})
	}
	return &Renderer{
		pool:  pool,
		cache: opts.Cache,
		log:   logger,
		keep:  opts.KeepDecoded,
	}
}

// RenderRow returns the sixel stream for one row. A row where no picture
// could be decoded yields nil bytes and no error.
func (r *Renderer) RenderRow(ctx context.Context, entries []thumbs.Entry, p layout.Params) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	key, err := Fingerprint(entries, p)
	if err != nil {
		r.log.Debug("Row fingerprint failed, cache skipped", "err", err)
	}

	if key != "" {
		if data, ok := r.cache.Get(key, modTimes(entries)); ok {
			r.log.Debug("Row cache hit", "key", key)
			return data, nil
		}
	}

	tiles := r.decode(entries)
	if !r.keep {
		defer func() {
			for _, e := range entries {
				r.pool.Evict(e)
			}
		}()
	}
	if len(tiles) == 0 {
		r.log.Warn("No valid images in this row")
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	face, err := newFace(p.FontSize)
	if err != nil {
		r.log.Warn("Labels disabled", "err", err)
		face = nil
	}
	canvas := Compose(tiles, p, face)
	if face != nil {
		face.Close()
	}

	data, err := graphics.Encode(canvas, p.PaletteSize())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.OpEncodeRow, err)
	}

	if key != "" {
		if err := r.cache.Put(key, data); err != nil {
			r.log.Warn(errmsg.Format(errmsg.OpCacheWrite, err))
		}
	}
	return data, nil
}

func (r *Renderer) decode(entries []thumbs.Entry) []Tile {
	tiles := make([]Tile, 0, len(entries))
	for _, e := range entries {
		d, err := r.pool.Get(e)
		if err != nil {
			r.log.Warn(errmsg.FormatWith(errmsg.OpDecodeImage, e.Path, err))
			continue
		}
		tiles = append(tiles, Tile{Image: d.Image, Label: e.Label})
	}
	return tiles
}

func modTimes(entries []thumbs.Entry) []time.Time {
	out := make([]time.Time, len(entries))
	for i, e := range entries {
		out[i] = e.ModTime
	}
	return out
}
