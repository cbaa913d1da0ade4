package montage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/llehouerou/lsix/internal/layout"
	"github.com/llehouerou/lsix/internal/palette"
	"github.com/llehouerou/lsix/internal/rowcache"
	"github.com/llehouerou/lsix/internal/thumbs"
)

func testParams() layout.Params {
	return layout.Params{
		TileW:       40,
		TileH:       40,
		MarginX:     2,
		MarginY:     1,
		TilesPerRow: 3,
		FontSize:    10,
		ColorBudget: 64,
		Background:  "#282a36",
		Foreground:  "white",
	}
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) thumbs.Entry {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	info, err := os.Stat(path)
	require.NoError(t, err)
	return thumbs.Entry{
		Path:    path,
		Label:   filepath.Base(path),
		Frame:   -1,
		ModTime: info.ModTime(),
		Format:  "png",
	}
}

func quiet() *log.Logger {
	return log.New(io.Discard)
}

func TestFingerprint(t *testing.T) {
	now := time.Now()
	entries := []thumbs.Entry{
		{Path: "/a.png", Frame: -1, ModTime: now, Label: "a.png"},
		{Path: "/b.png", Frame: -1, ModTime: now, Label: "b.png"},
	}
	p := testParams()

	key, err := Fingerprint(entries, p)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), key)

	again, err := Fingerprint(entries, p)
	require.NoError(t, err)
	assert.Equal(t, key, again, "fingerprint is stable")

	touched := append([]thumbs.Entry(nil), entries...)
	touched[1].ModTime = now.Add(time.Second)
	other, _ := Fingerprint(touched, p)
	assert.NotEqual(t, key, other, "mtime is part of the key")

	p2 := p
	p2.Shadow = true
	other, _ = Fingerprint(entries, p2)
	assert.NotEqual(t, key, other, "parameters are part of the key")

	relabeled := append([]thumbs.Entry(nil), entries...)
	relabeled[0].Label = "/a.png"
	other, _ = Fingerprint(relabeled, p)
	assert.NotEqual(t, key, other, "labels are part of the key")

	swapped := []thumbs.Entry{entries[1], entries[0]}
	other, _ = Fingerprint(swapped, p)
	assert.NotEqual(t, key, other, "order is part of the key")
}

func TestCompose_Geometry(t *testing.T) {
	p := testParams()
	red := color.NRGBA{R: 255, A: 255}
	tiles := []Tile{
		{Image: solid(20, 10, red), Label: "a"},
		{Image: solid(80, 40, red), Label: "b"},
	}

	img := Compose(tiles, p, nil)

	cellW, cellH := p.CellSize()
	assert.Equal(t, image.Rect(0, 0, 2*cellW, cellH), img.Bounds())

	bg := palette.NRGBA(palette.ParseOr(p.Background, fallbackBG))
	assert.Equal(t, bg, img.NRGBAAt(0, 0), "margin is background")

	// 20x10 picture centered in the 40x40 box of tile 0, never enlarged.
	cx, cy := p.MarginX+20, p.MarginY+20
	assert.Equal(t, red, img.NRGBAAt(cx, cy))
	assert.Equal(t, bg, img.NRGBAAt(p.MarginX+1, p.MarginY+1), "outside the picture stays background")

	// 80x40 picture shrunk to 40x20 in tile 1.
	x1 := cellW + p.MarginX
	assert.Equal(t, red, img.NRGBAAt(x1+20, p.MarginY+20))
	assert.Equal(t, bg, img.NRGBAAt(x1+1, p.MarginY+5))
}

func TestCompose_Shadow(t *testing.T) {
	p := testParams()
	p.Shadow = true
	red := color.NRGBA{R: 255, A: 255}

	img := Compose([]Tile{{Image: solid(20, 20, red)}}, p, nil)

	bg := palette.ParseOr(p.Background, fallbackBG)
	want := palette.NRGBA(palette.Shadow(bg))
	// Picture spans [x0+10, x0+30); the shadow shows just past its corner.
	x := p.MarginX + 30
	y := p.MarginY + 30
	assert.Equal(t, want, img.NRGBAAt(x, y))
}

func TestCompose_Label(t *testing.T) {
	p := testParams()
	face, err := newFace(p.FontSize)
	require.NoError(t, err)
	defer face.Close()

	img := Compose([]Tile{{Label: "label"}}, p, face)

	bg := palette.NRGBA(palette.ParseOr(p.Background, fallbackBG))
	changed := false
	for y := p.MarginY + p.TileH; y < img.Bounds().Dy(); y++ {
		for x := range img.Bounds().Dx() {
			if img.NRGBAAt(x, y) != bg {
				changed = true
			}
		}
	}
	assert.True(t, changed, "caption pixels drawn under the tile")
}

func TestFitLabel(t *testing.T) {
	face, err := newFace(12)
	require.NoError(t, err)
	defer face.Close()

	short := "a.png"
	assert.Equal(t, short, fitLabel(face, short, 200))

	long := "a-very-long-file-name-that-cannot-fit.png"
	got := fitLabel(face, long, 60)
	assert.True(t, len(got) < len(long))
	assert.Contains(t, got, ellipsis)
	assert.LessOrEqual(t, font.MeasureString(face, got), fixed.I(60))

	assert.Empty(t, fitLabel(face, long, 1))
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "a?b?c", cleanLabel("a\nb\x1bc"))
	assert.Equal(t, "日本.png", cleanLabel("日本.png"))
}

func TestRenderRow_EncodesAndCaches(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, filepath.Join(dir, "a.png"), solid(30, 30, color.NRGBA{R: 200, A: 255}))
	b := writePNG(t, filepath.Join(dir, "b.png"), solid(50, 20, color.NRGBA{B: 200, A: 255}))
	cache, err := rowcache.Open(filepath.Join(dir, "cache"), time.Hour)
	require.NoError(t, err)
	pool := thumbs.NewPool(thumbs.Options{Logger: quiet()})
	r := NewRenderer(Options{Pool: pool, Cache: cache, Logger: quiet()})
	entries := []thumbs.Entry{a, b}

	first, err := r.RenderRow(context.Background(), entries, testParams())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(first, []byte("\x1bP")))
	assert.Equal(t, 0, pool.Len(), "bitmaps evicted after the row")

	// With the sources gone, only the cache can answer.
	require.NoError(t, os.Remove(a.Path))
	require.NoError(t, os.Remove(b.Path))

	second, err := r.RenderRow(context.Background(), entries, testParams())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderRow_NoCache(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, filepath.Join(dir, "a.png"), solid(10, 10, color.White))
	pool := thumbs.NewPool(thumbs.Options{Logger: quiet()})
	r := NewRenderer(Options{Pool: pool, Logger: quiet(), KeepDecoded: true})

	data, err := r.RenderRow(context.Background(), []thumbs.Entry{a}, testParams())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, 1, pool.Len(), "KeepDecoded leaves the bitmap cached")
}

func TestRenderRow_SkipsFailedTiles(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, filepath.Join(dir, "a.png"), solid(10, 10, color.White))
	gone := thumbs.Entry{Path: filepath.Join(dir, "gone.png"), Label: "gone.png", Frame: -1}
	r := NewRenderer(Options{Logger: quiet()})

	data, err := r.RenderRow(context.Background(), []thumbs.Entry{a, gone}, testParams())
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	data, err = r.RenderRow(context.Background(), []thumbs.Entry{gone}, testParams())
	require.NoError(t, err)
	assert.Nil(t, data, "a row with no decodable picture is empty")
}

func TestRenderRow_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRenderer(Options{Logger: quiet()})

	_, err := r.RenderRow(ctx, []thumbs.Entry{{Path: "x.png"}}, testParams())
	assert.ErrorIs(t, err, context.Canceled)
}
