package montage

import (
	"image"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"

	"github.com/llehouerou/lsix/internal/layout"
	"github.com/llehouerou/lsix/internal/palette"
	"github.com/llehouerou/lsix/internal/termprobe"
)

// Tile is one decoded picture with its caption.
type Tile struct {
	Image image.Image
	Label string
}

var (
	fallbackBG = colorful.Color{R: 0x28 / 255.0, G: 0x2a / 255.0, B: 0x36 / 255.0}
	fallbackFG = colorful.Color{R: 1, G: 1, B: 1}
)

func shadowOffset(tile int) int {
	return max(2, tile/60)
}

// Compose lays tiles out left to right on one row: each picture shrunk to
// fit the tile box, centered, optionally shadowed, with its caption under
// it. face may be nil to skip captions.
func Compose(tiles []Tile, p layout.Params, face font.Face) *image.NRGBA {
	cellW, cellH := p.CellSize()
	canvas := image.NewNRGBA(image.Rect(0, 0, max(len(tiles), 1)*cellW, cellH))

	bg := palette.ParseOr(p.Background, palette.ParseOr(termprobe.DefaultBackground, fallbackBG))
	fg := palette.ParseOr(p.Foreground, fallbackFG)
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(palette.NRGBA(bg)), image.Point{}, draw.Src)

	shadow := image.NewUniform(palette.NRGBA(palette.Shadow(bg)))
	ink := image.NewUniform(palette.NRGBA(fg))
	off := shadowOffset(p.TileW)

	for i, t := range tiles {
		x0 := i*cellW + p.MarginX
		y0 := p.MarginY

		if t.Image != nil {
			thumb := resize.Thumbnail(uint(p.TileW), uint(p.TileH), t.Image, resize.Lanczos3)
			tb := thumb.Bounds()
			at := image.Pt(x0+(p.TileW-tb.Dx())/2, y0+(p.TileH-tb.Dy())/2)
			dst := image.Rectangle{Min: at, Max: at.Add(tb.Size())}

			if p.Shadow {
				draw.Draw(canvas, dst.Add(image.Pt(off, off)), shadow, image.Point{}, draw.Src)
			}
			draw.Draw(canvas, dst, thumb, tb.Min, draw.Over)
		}

		if face != nil && t.Label != "" {
			drawLabel(canvas, face, ink, t.Label, i*cellW, y0+p.TileH, cellW)
		}
	}
	return canvas
}
