package layout

const (
	MaxGridCols = 5
	MaxGridRows = 3
	MinCellCols = 12
	MinCellRows = 8
)

// Rect is an area in character cells, 0-based.
type Rect struct {
	X, Y, W, H int
}

// Grid is the thumbnail grid of the browser.
type Grid struct {
	Area  Rect
	Cols  int
	Rows  int
	CellW int
	CellH int
}

// NewGrid fits at most 5x3 cells into area, each cell at least 12x8.
func NewGrid(area Rect) Grid {
	cols := min(max(1, area.W/MinCellCols), MaxGridCols)
	rows := min(max(1, area.H/MinCellRows), MaxGridRows)
	return Grid{
		Area:  area,
		Cols:  cols,
		Rows:  rows,
		CellW: max(area.W/cols, 1),
		CellH: max(area.H/rows, 1),
	}
}

// PerPage is the number of cells on one page.
func (g Grid) PerPage() int {
	return g.Cols * g.Rows
}

// Cell returns the rectangle of slot i (0-based within the page).
func (g Grid) Cell(i int) Rect {
	r, c := i/g.Cols, i%g.Cols
	return Rect{
		X: g.Area.X + c*g.CellW,
		Y: g.Area.Y + r*g.CellH,
		W: g.CellW,
		H: g.CellH,
	}
}

// ImageRect returns the part of slot i left for the picture: inside the
// border, above the one-line caption.
func (g Grid) ImageRect(i int) Rect {
	c := g.Cell(i)
	return Rect{
		X: c.X + 1,
		Y: c.Y + 1,
		W: max(c.W-2, 1),
		H: max(c.H-3, 1),
	}
}

// PageOffset returns the index of the first item on the page holding
// selected.
func PageOffset(selected, perPage int) int {
	if perPage <= 0 || selected <= 0 {
		return 0
	}
	return selected / perPage * perPage
}

// PageCount returns the number of pages needed for total items.
func PageCount(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Fit scales a w x h picture to fit inside bw x bh keeping its aspect
// ratio. Pictures are never enlarged.
func Fit(w, h, bw, bh int) (int, int) {
	if w <= 0 || h <= 0 || bw <= 0 || bh <= 0 {
		return 0, 0
	}
	if w <= bw && h <= bh {
		return w, h
	}
	// Compare w/bw against h/bh without floats.
	if w*bh >= h*bw {
		return bw, max(1, h*bw/w)
	}
	return max(1, w*bh/h), bh
}
