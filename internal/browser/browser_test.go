package browser

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lsix/internal/termprobe"
	"github.com/llehouerou/lsix/internal/thumbs"
	"github.com/llehouerou/lsix/internal/ui/testutil"
)

const (
	testWidth  = 80
	testHeight = 27 // 24 grid lines: a 5x3 grid of 16x8 cells
)

func writeImages(t *testing.T, n int) []thumbs.Entry {
	t.Helper()
	dir := t.TempDir()
	entries := make([]thumbs.Entry, n)
	for i := range n {
		img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
		for y := range 6 {
			for x := range 8 {
				img.Set(x, y, color.NRGBA{R: uint8(i * 12), G: uint8(x * 30), B: uint8(y * 40), A: 255})
			}
		}
		name := fmt.Sprintf("img%02d.png", i)
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
		entries[i] = thumbs.Entry{Path: path, Label: name, Frame: -1, Format: "png", Width: 8, Height: 6}
	}
	return entries
}

func newHarness(t *testing.T, entries []thumbs.Entry, stderr <-chan string) (*testutil.Harness, *thumbs.Pool) {
	t.Helper()
	logger := log.New(io.Discard)
	pool := thumbs.NewPool(thumbs.Options{Workers: 1, Logger: logger})
	profile := termprobe.Default()
	profile.GraphicsSupported = true
	profile.Background = "#000000"
	profile.Foreground = "#ffffff"

	h := testutil.NewHarness(New(Options{
		Entries: entries,
		Pool:    pool,
		Profile: profile,
		CellW:   10,
		CellH:   20,
		Cwd:     "/photos",
		Stderr:  stderr,
		Logger:  logger,
	}))
	h.Resize(testWidth, testHeight)
	return h, pool
}

func model(h *testutil.Harness) Model {
	return h.Model().(Model)
}

func TestBrowser_NavigationScenario(t *testing.T) {
	h, _ := newHarness(t, writeImages(t, 20), nil)

	g := model(h).Grid()
	require.Equal(t, 5, g.Cols)
	require.Equal(t, 3, g.Rows)
	require.Equal(t, 15, g.PerPage())

	h.SendKey(tea.KeyPgDown)
	assert.Equal(t, 15, model(h).Selected())
	assert.Equal(t, 15, model(h).PageOffset())

	h.SendKey(tea.KeyEnd)
	h.SendKey(tea.KeyLeft)
	require.Equal(t, 18, model(h).Selected())

	h.SendKey(tea.KeyDown)
	assert.Equal(t, 3, model(h).Selected())
	assert.Equal(t, 0, model(h).PageOffset())

	h.SendKey(tea.KeyUp)
	assert.Equal(t, 18, model(h).Selected())

	cmd := h.SendRunes("q")
	assert.True(t, testutil.IsQuit(cmd))
	assert.False(t, model(h).interrupted)
}

func TestBrowser_JumpKeys(t *testing.T) {
	h, _ := newHarness(t, writeImages(t, 7), nil)

	h.SendRunes("G")
	assert.Equal(t, 6, model(h).Selected())
	h.SendKey(tea.KeyCtrlG)
	assert.Equal(t, 0, model(h).Selected())
	h.SendKey(tea.KeyEnd)
	h.SendKey(tea.KeyHome)
	assert.Equal(t, 0, model(h).Selected())
	h.SendKey(tea.KeyPgUp)
	assert.Equal(t, 0, model(h).Selected())
	h.SendKey(tea.KeyRight)
	assert.Equal(t, 1, model(h).Selected())
}

func TestBrowser_GridView(t *testing.T) {
	h, _ := newHarness(t, writeImages(t, 20), nil)

	view := h.View()
	text := testutil.StripANSI(view)
	lines := strings.Split(text, "\n")

	assert.Len(t, lines, testHeight)
	for i, line := range lines {
		assert.LessOrEqual(t, testutil.MeasureWidth(line), testWidth, "line %d too wide", i)
	}
	assert.True(t, strings.HasPrefix(lines[0], "TUI Image Browser - /photos"))
	assert.Contains(t, lines[1], "Image Grid (5x3) - Page 1/2")
	assert.Contains(t, lines[len(lines)-1], "1/20 | Page 1/2")
	assert.True(t, testutil.ContainsLine(text, "img00.png"))
	assert.True(t, testutil.ContainsLine(text, "img14.png"))
	assert.False(t, testutil.ContainsLine(text, "img15.png"))
	assert.Equal(t, 15, testutil.CountSixels(view))

	h.SendKey(tea.KeyPgDown)
	view = h.View()
	assert.Equal(t, 5, testutil.CountSixels(view))
	assert.Contains(t, testutil.StripANSI(view), "16/20 | Page 2/2")
}

func TestBrowser_RedrawOnlyOnChange(t *testing.T) {
	h, _ := newHarness(t, writeImages(t, 4), nil)

	before := h.View()
	h.SendRunes("x") // unbound
	assert.Equal(t, before, h.View())

	h.SendKey(tea.KeyLeft) // already first: no change
	assert.Equal(t, before, h.View())

	h.SendKey(tea.KeyRight)
	after := h.View()
	assert.NotEqual(t, before, after)

	h.SendKey(tea.KeyLeft)
	// Same selection as at the start, but placements carry a new generation.
	assert.NotEqual(t, before, h.View())
	assert.Equal(t, testutil.StripANSI(before), testutil.StripANSI(h.View()))
}

func TestBrowser_PageChangeReleasesBitmaps(t *testing.T) {
	h, pool := newHarness(t, writeImages(t, 20), nil)
	assert.Equal(t, 15, pool.Len())

	h.SendKey(tea.KeyPgDown)
	assert.Equal(t, 5, pool.Len())
}

func TestBrowser_Fullscreen(t *testing.T) {
	h, _ := newHarness(t, writeImages(t, 20), nil)
	h.SendKey(tea.KeyRight)
	h.SendKey(tea.KeyRight)
	h.SendKey(tea.KeyRight)

	h.SendKey(tea.KeyEnter)
	require.True(t, model(h).Fullscreen())

	view := h.View()
	lines := testutil.SplitLines(testutil.StripANSI(view))
	assert.Len(t, lines, testHeight)
	assert.Contains(t, lines[len(lines)-1], "img03.png | q/ESC: Back | 4/20")
	assert.Equal(t, 1, testutil.CountSixels(view))

	// Navigation is ignored in fullscreen.
	h.SendKey(tea.KeyDown)
	h.SendKey(tea.KeyPgDown)
	assert.Equal(t, 3, model(h).Selected())

	cmd := h.SendKey(tea.KeyEsc)
	assert.Nil(t, cmd)
	assert.False(t, model(h).Fullscreen())

	h.SendKey(tea.KeyEnter)
	h.SendRunes("q")
	assert.False(t, model(h).Fullscreen(), "q leaves fullscreen without quitting")
}

func TestBrowser_DecodeFailureLeavesEmptyCell(t *testing.T) {
	entries := writeImages(t, 3)
	require.NoError(t, os.WriteFile(entries[1].Path, []byte("not a png"), 0o644))

	h, _ := newHarness(t, entries, nil)

	view := h.View()
	assert.Equal(t, 2, testutil.CountSixels(view))
	assert.True(t, testutil.ContainsLine(testutil.StripANSI(view), "img01.png"))

	h.SendKey(tea.KeyRight)
	h.SendKey(tea.KeyEnter)
	view = h.View()
	assert.Contains(t, testutil.StripANSI(view), "Error: Failed to decode image")
	assert.Equal(t, 0, testutil.CountSixels(view))
}

func TestBrowser_CtrlCInterrupts(t *testing.T) {
	h, _ := newHarness(t, writeImages(t, 2), nil)

	cmd := h.SendKey(tea.KeyCtrlC)
	assert.True(t, testutil.IsQuit(cmd))
	assert.True(t, model(h).interrupted)
}

func TestBrowser_StderrLineOnStatus(t *testing.T) {
	ch := make(chan string, 1)
	h, _ := newHarness(t, writeImages(t, 2), ch)
	require.Len(t, h.Commands(), 1, "Init watches stderr")

	cmd := h.Send(StderrMsg{Line: "libpng warning: iCCP"})
	assert.NotNil(t, cmd, "watch continues")
	assert.Contains(t, testutil.StripANSI(h.View()), "libpng warning: iCCP")

	close(ch)
	assert.Nil(t, testutil.ExecuteCmd(cmd))
}

func TestBrowser_SmallTerminal(t *testing.T) {
	h, _ := newHarness(t, writeImages(t, 3), nil)
	h.Resize(20, 6)

	g := model(h).Grid()
	assert.Equal(t, 1, g.Cols)
	assert.Equal(t, 1, g.Rows)
	lines := strings.Split(testutil.StripANSI(h.View()), "\n")
	assert.Len(t, lines, 6)

	h.SendKey(tea.KeyDown)
	assert.Equal(t, 1, model(h).Selected())
	assert.Equal(t, 1, model(h).PageOffset())
}

func TestFit_CentersOnCells(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 100))
	p, err := fit(img, 200, 96, 256, 10, 20)
	require.NoError(t, err)
	assert.NotEmpty(t, p.data)
	// 200x50 inside 200x96: centered vertically by (96-50)/2 = 23px, one cell.
	assert.Equal(t, 0, p.col)
	assert.Equal(t, 1, p.row)

	_, err = fit(img, 0, 96, 256, 10, 20)
	assert.Error(t, err)
}

func TestBrowser_ResizeReleasesOffPageBitmaps(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.KeyType
		wantHeld int
		wantSel  int
	}{
		{"first page", nil, 15, 0},
		{"last page", []tea.KeyType{tea.KeyPgDown}, 5, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, pool := newHarness(t, writeImages(t, 20), nil)
			for _, k := range tt.keys {
				h.SendKey(k)
			}
			require.Equal(t, tt.wantHeld, pool.Len())

			// One picture per page from here on.
			h.Resize(20, 6)
			assert.Equal(t, tt.wantSel, model(h).Selected())
			assert.Equal(t, 1, pool.Len())

			h.SendKey(tea.KeyRight)
			assert.Equal(t, 1, pool.Len())
		})
	}
}

func TestKeyLabels(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{nil, ""},
		{[]string{"q"}, "q"},
		{[]string{"q", "esc"}, "q/ESC"},
		{[]string{"ctrl+c"}, "CTRL+C"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, keyLabels(tt.keys), "%v", tt.keys)
	}
}
