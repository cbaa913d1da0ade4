package browser

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"

	"github.com/llehouerou/lsix/internal/errmsg"
	"github.com/llehouerou/lsix/internal/graphics"
	"github.com/llehouerou/lsix/internal/layout"
)

// maxFullscreenSide is the longest side a picture is shrunk to before it is
// fitted to the screen.
const maxFullscreenSide = 1920

// sixelBand is the pixel height of one sixel row.
const sixelBand = 6

// box identifies an encoded picture: which entry, fitted to which pixel box.
type box struct {
	index int
	w, h  int
}

// placed is encoded sixel data plus its offset, in cells, inside its box.
type placed struct {
	data     []byte
	col, row int
}

type imageCache struct {
	thumbs map[box]placed
	failed map[int]bool

	fullBox box
	full    placed
	fullErr error
}

func newImageCache() *imageCache {
	return &imageCache{
		thumbs:  make(map[box]placed),
		failed:  make(map[int]bool),
		fullBox: box{index: -1},
	}
}

func (c *imageCache) resetThumbs() {
	clear(c.thumbs)
}

// pixelBox returns the pixel size of a cell rectangle, cut down to whole
// sixel bands so the picture never spills into the row below.
func (m Model) pixelBox(r layout.Rect) (int, int) {
	h := r.H * m.cellH
	h -= h % sixelBand
	return r.W * m.cellW, h
}

// thumbRect is the screen rectangle of the picture of entry i on the
// current page.
func (m Model) thumbRect(i int) layout.Rect {
	return m.grid.ImageRect(i - m.PageOffset())
}

func (m Model) pageRange() (start, end int) {
	start = m.PageOffset()
	return start, min(start+m.grid.PerPage(), len(m.entries))
}

// preparePage decodes and encodes every picture of the shown page that is
// not cached yet.
func (m *Model) preparePage() {
	start, end := m.pageRange()
	for i := start; i < end; i++ {
		if m.images.failed[i] {
			continue
		}
		w, h := m.pixelBox(m.thumbRect(i))
		key := box{index: i, w: w, h: h}
		if _, ok := m.images.thumbs[key]; ok {
			continue
		}
		p, err := m.encode(i, w, h, false)
		if err != nil {
			m.images.failed[i] = true
			m.log.Warn(errmsg.FormatWith(errmsg.OpDecodeImage, m.entries[i].Path, err))
			continue
		}
		m.images.thumbs[key] = p
	}
}

// releasePage drops the decoded bitmaps of the page that was shown before
// that are not on the page shown now. The old page is measured with the
// page size it was shown with, which a resize may have changed.
func (m *Model) releasePage() {
	start, end := m.pageRange()
	oldEnd := min(m.page+m.pagePer, len(m.entries))
	for i := m.page; i < oldEnd; i++ {
		if i < start || i >= end {
			m.pool.Evict(m.entries[i])
		}
	}
	m.page, m.pagePer = start, m.grid.PerPage()
}

func (m *Model) prepareFullscreen() {
	i := m.cursor.Pos()
	w, h := m.pixelBox(layout.Rect{W: m.width, H: max(m.height-footerLines, 1)})
	key := box{index: i, w: w, h: h}
	if m.images.fullBox == key {
		return
	}
	m.images.fullBox = key
	m.images.full, m.images.fullErr = m.encode(i, w, h, true)
	if m.images.fullErr != nil {
		m.log.Warn(errmsg.FormatWith(errmsg.OpDecodeImage, m.entries[i].Path, m.images.fullErr))
	}
}

// encode decodes entry i and fits it into a w x h pixel box.
func (m *Model) encode(i, w, h int, fullscreen bool) (placed, error) {
	d, err := m.pool.Get(m.entries[i])
	if err != nil {
		return placed{}, err
	}
	img := d.Image
	if fullscreen && max(d.Width, d.Height) >= maxFullscreenSide {
		img = resize.Thumbnail(maxFullscreenSide, maxFullscreenSide, img, resize.Lanczos3)
	}
	return fit(img, w, h, m.profile.ColorBudget, m.cellW, m.cellH)
}

// fit scales img down to the box, keeping its aspect ratio, encodes it and
// centers it on the cell grid.
func fit(img image.Image, boxW, boxH, registers, cellW, cellH int) (placed, error) {
	b := img.Bounds()
	w, h := layout.Fit(b.Dx(), b.Dy(), boxW, boxH)
	if w == 0 || h == 0 {
		return placed{}, fmt.Errorf("%w: no room for a %dx%d picture", errmsg.ErrEncodeFailed, b.Dx(), b.Dy())
	}

	scaled := img
	if w != b.Dx() || h != b.Dy() {
		scaled = resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
	}
	data, err := graphics.Encode(scaled, registers)
	if err != nil {
		return placed{}, err
	}
	return placed{
		data: data,
		col:  (boxW - w) / 2 / cellW,
		row:  (boxH - h) / 2 / cellH,
	}, nil
}
