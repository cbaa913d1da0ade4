// Package thumbs validates image files and keeps decoded bitmaps in a shared
// cache for the renderers.
package thumbs

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/lsix/internal/errmsg"
	"github.com/llehouerou/lsix/internal/imgsrc"
)

// Entry is an image that passed validation. Frame is -1 for the image as a
// whole (first frame of an animation) or the index of one expanded GIF frame.
type Entry struct {
	Path    string
	Label   string
	Frame   int
	ModTime time.Time
	Format  string
	Width   int
	Height  int
}

// Decoded is a bitmap held by the pool.
type Decoded struct {
	Path      string
	Frame     int
	Image     image.Image
	Width     int
	Height    int
	ColorType string
}

type key struct {
	path  string
	frame int
}

func keyOf(e Entry) key {
	abs, err := filepath.Abs(e.Path)
	if err != nil {
		abs = e.Path
	}
	return key{path: abs, frame: e.Frame}
}

type Options struct {
	Workers int // 0 means runtime.NumCPU()
	Logger  *log.Logger
}

// Pool is safe for concurrent use.
type Pool struct {
	workers int
	log     *log.Logger

	mu    sync.Mutex
	items map[key]*Decoded
}

func NewPool(opts Options) *Pool {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Pool{
		workers: workers,
		log:     logger,
		items:   make(map[key]*Decoded),
	}
}

// Validate checks every entry in parallel and returns the decodable ones in
// input order. Explicitly named animated GIFs expand to one entry per frame.
// Failures are logged and dropped. The error is only ever ctx's.
func (p *Pool) Validate(ctx context.Context, entries []imgsrc.Entry) ([]Entry, error) {
	results := make([][]Entry, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, src := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			valid, err := validate(src)
			if err != nil {
				p.log.Warn(errmsg.FormatWith(errmsg.OpReadFile, src.Path, err))
				return nil
			}
			results[i] = valid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Entry
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func validate(src imgsrc.Entry) ([]Entry, error) {
	info, err := os.Stat(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errmsg.ErrInputMissing, err)
	}

	countFrames := src.Explicit && !src.FirstFrameOnly
	h, err := inspect(src.Path, countFrames)
	if err != nil {
		return nil, err
	}

	base := Entry{
		Path:    src.Path,
		Label:   src.Label,
		Frame:   -1,
		ModTime: info.ModTime(),
		Format:  h.format,
		Width:   h.width,
		Height:  h.height,
	}
	if h.frames <= 1 {
		return []Entry{base}, nil
	}

	frames := make([]Entry, h.frames)
	for i := range frames {
		e := base
		e.Frame = i
		e.Label = fmt.Sprintf("%s[%d]", src.Label, i)
		frames[i] = e
	}
	return frames, nil
}

// Get returns the decoded bitmap for e, decoding it on a miss. Concurrent
// misses for the same key may both decode; the first stored result wins and
// every caller gets that same *Decoded.
func (p *Pool) Get(e Entry) (*Decoded, error) {
	k := keyOf(e)

	p.mu.Lock()
	d, ok := p.items[k]
	p.mu.Unlock()
	if ok {
		return d, nil
	}

	img, err := decode(e)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	fresh := &Decoded{
		Path:      e.Path,
		Frame:     e.Frame,
		Image:     img,
		Width:     b.Dx(),
		Height:    b.Dy(),
		ColorType: colorType(img.ColorModel()),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if d, ok := p.items[k]; ok {
		return d, nil
	}
	p.items[k] = fresh
	return fresh, nil
}

// Evict drops the bitmap for e so its memory can be reclaimed.
func (p *Pool) Evict(e Entry) {
	k := keyOf(e)
	p.mu.Lock()
	delete(p.items, k)
	p.mu.Unlock()
}

// Len returns the number of cached bitmaps.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
