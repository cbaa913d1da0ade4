package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lsix/internal/config"
	"github.com/llehouerou/lsix/internal/lifecycle"
)

func lookup(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func forcedEnv() map[string]string {
	return map[string]string{
		"FORCE_GRAPHICS": "1",
		"SKIP_QUERIES":   "1",
		"FORCE_WIDTH":    "800",
		"TERM":           "xterm",
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		TileSize:        100,
		CacheDir:        t.TempDir(),
		CacheMaxAgeDays: config.DefaultCacheMaxAgeDays,
		Workers:         2,
	}
}

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := range 30 {
		for x := range 40 {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func imageDir(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := range n {
		c := color.NRGBA{R: uint8(40 * i), G: 120, B: 200, A: 255}
		writePNG(t, filepath.Join(dir, "img"+string(rune('a'+i))+".png"), c)
	}
	return dir
}

func outputFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRun_NoImages(t *testing.T) {
	t.Chdir(t.TempDir())
	var errOut bytes.Buffer
	out := outputFile(t)
	code := Run(context.Background(), Options{
		NoCache: true,
		Stdout:  out,
		Stderr:  &errOut,
		Lookup:  lookup(forcedEnv()),
		Config:  testConfig(t),
	})

	assert.Equal(t, lifecycle.ExitOK, code)
	assert.Equal(t, "No image files found.\n", errOut.String())
	data, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRun_BatchWritesSixelRows(t *testing.T) {
	dir := imageDir(t, 3)
	out := outputFile(t)
	var errOut bytes.Buffer

	code := Run(context.Background(), Options{
		Args:    []string{dir},
		NoCache: true,
		Stdout:  out,
		Stderr:  &errOut,
		Lookup:  lookup(forcedEnv()),
		Config:  testConfig(t),
	})
	require.Equal(t, lifecycle.ExitOK, code, errOut.String())

	data, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\x1bP")
	assert.NotContains(t, errOut.String(), "No image files found.")
}

// TestRun_ClosedStdout runs lsix in a child process whose fd 1 is a pipe
// with no reader, as in `lsix | head -c 10`.
func TestRun_ClosedStdout(t *testing.T) {
	if dir := os.Getenv("LSIX_CLOSED_STDOUT_DIR"); dir != "" {
		os.Exit(Run(context.Background(), Options{
			Args:    []string{dir},
			NoCache: true,
			Lookup:  lookup(forcedEnv()),
			Config:  testConfig(t),
		}))
	}
	if runtime.GOOS == "windows" {
		t.Skip("no SIGPIPE")
	}

	r, w, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, r.Close())

	var errOut bytes.Buffer
	cmd := exec.Command(os.Args[0], "-test.run=^TestRun_ClosedStdout$")
	cmd.Env = append(os.Environ(), "LSIX_CLOSED_STDOUT_DIR="+imageDir(t, 3))
	cmd.Stdout = w
	cmd.Stderr = &errOut
	err = cmd.Run()
	require.NoError(t, w.Close())

	require.NoError(t, err, errOut.String())
	assert.NotContains(t, errOut.String(), "ERRO")
}

func TestRun_BatchFillsRowCache(t *testing.T) {
	dir := imageDir(t, 2)
	cfg := testConfig(t)
	var errOut bytes.Buffer

	code := Run(context.Background(), Options{
		Args:   []string{dir},
		Stdout: outputFile(t),
		Stderr: &errOut,
		Lookup: lookup(forcedEnv()),
		Config: cfg,
	})
	require.Equal(t, lifecycle.ExitOK, code, errOut.String())

	artifacts := 0
	err := filepath.WalkDir(cfg.CacheDir, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			artifacts++
		}
		return err
	})
	require.NoError(t, err)
	assert.Positive(t, artifacts)
}

func TestRun_DebugReportsRowCache(t *testing.T) {
	cfg := testConfig(t)
	var errOut bytes.Buffer

	code := Run(context.Background(), Options{
		Args:   []string{imageDir(t, 1)},
		Debug:  true,
		Stdout: outputFile(t),
		Stderr: &errOut,
		Lookup: lookup(forcedEnv()),
		Config: cfg,
	})
	require.Equal(t, lifecycle.ExitOK, code, errOut.String())

	assert.Contains(t, errOut.String(), "row cache")
	assert.Contains(t, errOut.String(), filepath.Join(cfg.CacheDir, "rows"))
}

func TestRun_UnsupportedTerminal(t *testing.T) {
	var errOut bytes.Buffer
	code := Run(context.Background(), Options{
		Args:    []string{imageDir(t, 1)},
		NoCache: true,
		Stdout:  outputFile(t),
		Stderr:  &errOut,
		Lookup:  lookup(map[string]string{"SKIP_QUERIES": "1", "TERM": "dumb"}),
		Config:  testConfig(t),
	})

	assert.Equal(t, lifecycle.ExitFailure, code)
	assert.Contains(t, errOut.String(), "FORCE_GRAPHICS")
}

func TestRun_BrowserNeedsTerminal(t *testing.T) {
	var errOut bytes.Buffer
	code := Run(context.Background(), Options{
		Args:    []string{imageDir(t, 1)},
		TUI:     true,
		NoCache: true,
		Stdin:   outputFile(t),
		Stdout:  outputFile(t),
		Stderr:  &errOut,
		Lookup:  lookup(forcedEnv()),
		Config:  testConfig(t),
	})

	assert.Equal(t, lifecycle.ExitFailure, code)
	assert.True(t, strings.Contains(errOut.String(), "needs a terminal"), errOut.String())
}

func TestConfigure_FlagsAndEnvOverrideConfig(t *testing.T) {
	cfg := testConfig(t)
	a := &app{
		opts: Options{
			Recursive: true,
			Long:      true,
			Lookup:    lookup(map[string]string{"TILESIZE": "240", "SHADOW": "1"}),
			Config:    cfg,
		},
		log: quietLogger(),
	}
	require.NoError(t, a.configure())

	assert.Equal(t, 240, a.cfg.TileSize)
	assert.True(t, a.cfg.Shadow)
	assert.True(t, a.cfg.Recursive)
	assert.True(t, a.cfg.LongLabels)
}
