// Package layout provides pure functions for montage and grid geometry.
package layout

import "github.com/llehouerou/lsix/internal/termprobe"

const (
	// DefaultTileSize is the tile edge in pixels when nothing overrides it.
	DefaultTileSize = 360
	// MinFontSize is the smallest label font size in points.
	MinFontSize = 10
	// MaxSixelColors is the palette size the sixel encoder can address.
	MaxSixelColors = 255
)

// Params describes how rows of thumbnails are composed.
type Params struct {
	TileW       int
	TileH       int
	MarginX     int
	MarginY     int
	TilesPerRow int
	FontSize    int
	ColorBudget int
	Background  string
	Foreground  string
	Shadow      bool
}

// Options are the user overrides, already merged from config file and
// environment. Zero values keep the defaults.
type Options struct {
	TileSize int
	Colors   int
	Shadow   bool
}

// Compute derives the montage parameters from the terminal profile.
func Compute(p termprobe.Profile, opts Options) Params {
	tile := opts.TileSize
	if tile <= 0 {
		tile = DefaultTileSize
	}

	width := max(p.PixelWidth, 1)
	// Space on either side of a tile is under 0.5% of the screen width.
	marginX := width / 201
	marginY := marginX / 2

	colors := p.ColorBudget
	if opts.Colors > 0 {
		colors = opts.Colors
	}
	colors = max(colors, termprobe.MinColors)

	return Params{
		TileW:       tile,
		TileH:       tile,
		MarginX:     marginX,
		MarginY:     marginY,
		TilesPerRow: max(1, width/(tile+2*marginX+1)),
		FontSize:    max(MinFontSize, tile/10),
		ColorBudget: colors,
		Background:  p.Background,
		Foreground:  p.Foreground,
		Shadow:      opts.Shadow,
	}
}

// PaletteSize is the number of colors a row is quantized to.
func (p Params) PaletteSize() int {
	return min(p.ColorBudget, MaxSixelColors)
}

// LabelHeight is the pixel height reserved under each tile for its caption.
func (p Params) LabelHeight() int {
	return p.FontSize + p.FontSize/2
}

// CellSize is the pixel size of one tile including margins and caption.
func (p Params) CellSize() (w, h int) {
	return p.TileW + 2*p.MarginX, p.TileH + p.LabelHeight() + 2*p.MarginY
}

// Span is a half-open range [Start, End) of entry indexes.
type Span struct {
	Start, End int
}

// Len returns the number of entries in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Rows partitions n entries into consecutive rows of at most perRow. The last
// row is not padded.
func Rows(n, perRow int) []Span {
	if n <= 0 {
		return nil
	}
	perRow = max(perRow, 1)
	rows := make([]Span, 0, (n+perRow-1)/perRow)
	for start := 0; start < n; start += perRow {
		rows = append(rows, Span{Start: start, End: min(start+perRow, n)})
	}
	return rows
}
