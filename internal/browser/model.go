package browser

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/llehouerou/lsix/internal/keymap"
	"github.com/llehouerou/lsix/internal/layout"
	"github.com/llehouerou/lsix/internal/termprobe"
	"github.com/llehouerou/lsix/internal/thumbs"
	"github.com/llehouerou/lsix/internal/ui/cursor"
	"github.com/llehouerou/lsix/internal/ui/styles"
)

// Screen rows around the grid: header and grid title above, status below.
const (
	headerLines = 2
	footerLines = 1
)

// Model is the browser state. The update loop is single-threaded; images
// are decoded and encoded lazily, on the loop, when a page is shown.
type Model struct {
	entries []thumbs.Entry
	pool    *thumbs.Pool
	profile termprobe.Profile
	cellW   int
	cellH   int
	cwd     string
	stderr  <-chan string
	log     *log.Logger

	width  int
	height int
	grid   layout.Grid
	cursor cursor.Cursor

	fullscreen  bool
	interrupted bool
	status      string // last captured stderr line

	// gen is bumped on every visible change so graphics placements are
	// re-emitted by the renderer.
	gen uint64

	// page is the offset whose bitmaps are held by the pool, pagePer the
	// page size it was shown with.
	page    int
	pagePer int

	gridKeys *keymap.Resolver
	fullKeys *keymap.Resolver
	help     help.Model
	theme    *styles.Theme
	images   *imageCache
}

// New creates the browser model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	pool := opts.Pool
	if pool == nil {
		pool = thumbs.NewPool(thumbs.Options{Logger: logger})
	}
	cellW, cellH := opts.CellW, opts.CellH
	if cellW <= 0 || cellH <= 0 {
		cellW, cellH = termprobe.CellSize(nil)
	}
	return Model{
		entries:  opts.Entries,
		pool:     pool,
		profile:  opts.Profile,
		cellW:    cellW,
		cellH:    cellH,
		cwd:      opts.Cwd,
		stderr:   opts.Stderr,
		log:      logger,
		cursor:   cursor.New(),
		gridKeys: keymap.ForContext(keymap.ContextGrid),
		fullKeys: keymap.ForContext(keymap.ContextFullscreen),
		help:     help.New(),
		theme:    styles.ForTerminal(opts.Profile.Background, opts.Profile.Foreground),
		images:   newImageCache(),
	}
}

// Selected returns the index of the selected image.
func (m Model) Selected() int {
	return m.cursor.Pos()
}

// PageOffset returns the index of the first image on the shown page.
func (m Model) PageOffset() int {
	return m.cursor.PageOffset(m.grid.PerPage())
}

// Grid returns the current grid geometry.
func (m Model) Grid() layout.Grid {
	return m.grid
}

// Fullscreen reports whether the selected image is shown alone.
func (m Model) Fullscreen() bool {
	return m.fullscreen
}

func (m Model) Init() tea.Cmd {
	return watchStderr(m.stderr)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.grid = layout.NewGrid(layout.Rect{
			X: 0,
			Y: headerLines,
			W: msg.Width,
			H: max(msg.Height-headerLines-footerLines, 1),
		})
		m.help.Width = msg.Width
		m.cursor.ClampToBounds(len(m.entries))
		m.images.resetThumbs()
		m.changed()
		return m, nil

	case StderrMsg:
		m.status = msg.Line
		return m, watchStderr(m.stderr)

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if m.fullscreen {
		switch m.fullKeys.Resolve(key) {
		case keymap.ActionBack:
			m.fullscreen = false
			m.changed()
		case keymap.ActionQuit:
			m.interrupted = true
			return m, tea.Quit
		}
		// Navigation is ignored while an image is shown alone.
		return m, nil
	}

	action := m.gridKeys.Resolve(key)
	switch action {
	case "":
		return m, nil
	case keymap.ActionQuit:
		m.interrupted = key == "ctrl+c"
		return m, tea.Quit
	case keymap.ActionView:
		if len(m.entries) > 0 {
			m.fullscreen = true
			m.changed()
		}
		return m, nil
	}

	before := m.cursor.Pos()
	m.cursor.HandleAction(action, len(m.entries), m.grid.Cols, m.grid.PerPage())
	if m.cursor.Pos() != before {
		m.changed()
	}
	return m, nil
}

// changed records a visible state change and prepares the images it needs.
func (m *Model) changed() {
	m.gen++
	if m.width <= 0 || m.height <= 0 || len(m.entries) == 0 {
		return
	}
	if m.fullscreen {
		m.prepareFullscreen()
		return
	}
	m.releasePage()
	m.preparePage()
}
