// Package imgsrc turns command-line arguments into the ordered list of image
// files to display.
package imgsrc

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/lsix/internal/errmsg"
)

// Extensions accepted when scanning, lower-case without the dot.
var Extensions = []string{
	"jpg", "jpeg", "png", "gif", "webp", "tiff", "tif",
	"pnm", "ppm", "pgm", "pbm", "pam",
	"xbm", "xpm", "bmp", "ico", "svg", "eps",
}

var allowed = func() map[string]bool {
	m := make(map[string]bool, len(Extensions))
	for _, e := range Extensions {
		m[e] = true
	}
	return m
}()

// Entry is one image to display.
type Entry struct {
	Path  string
	Label string
	// FirstFrameOnly is set on multi-frame formats found by a directory
	// scan: only their first frame is shown.
	FirstFrameOnly bool
	// Explicit is set when the path was named on the command line.
	Explicit bool
}

type Options struct {
	Recursive  bool
	LongLabels bool
	Logger     *log.Logger
}

// Result of a resolve. Skipped counts unreadable or missing arguments.
type Result struct {
	Entries []Entry
	Skipped int
}

// Resolve expands args into image entries sorted by path. No args means the
// current directory. It never fails: unreadable entries are logged and
// skipped, and an empty result is left for the caller to report.
func Resolve(args []string, opts Options) Result {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	r := resolver{opts: opts, log: logger, seen: make(map[string]int)}

	if len(args) == 0 {
		r.scanDir(".", false, log.DebugLevel)
	}
	for _, arg := range args {
		r.add(arg)
	}

	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].Path < r.entries[j].Path
	})

	return Result{Entries: r.entries, Skipped: r.skipped}
}

type resolver struct {
	opts    Options
	log     *log.Logger
	entries []Entry
	seen    map[string]int // cleaned path -> index in entries
	skipped int
}

func (r *resolver) add(arg string) {
	info, err := os.Stat(arg)
	if err != nil {
		r.log.Warn(errmsg.FormatWith(errmsg.OpReadFile, arg, err))
		r.skipped++
		return
	}

	if info.IsDir() {
		r.scanDir(arg, r.opts.Recursive, log.InfoLevel)
		return
	}

	if !HasImageExt(arg) {
		r.log.Debug("Skipping non-image file", "path", arg)
		return
	}
	r.push(arg, true)
}

func (r *resolver) scanDir(dir string, recursive bool, level log.Level) {
	if recursive {
		r.log.Log(level, "Recursively scanning: "+dir)
	} else {
		r.log.Log(level, "Scanning directory: "+dir)
	}

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			r.log.Warn(errmsg.FormatWith(errmsg.OpScanDirectory, dir, err))
			r.skipped++
			return
		}
		for _, d := range entries {
			r.visit(filepath.Join(dir, d.Name()), d)
		}
		return
	}

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error { //nolint:errcheck // walk errors are handled per entry
		if err != nil {
			r.log.Warn(errmsg.FormatWith(errmsg.OpScanDirectory, path, err))
			r.skipped++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		r.visit(path, d)
		return nil
	})
}

func (r *resolver) visit(path string, d fs.DirEntry) {
	if !HasImageExt(path) {
		return
	}
	if !isRegular(path, d) {
		return
	}
	r.push(path, false)
}

func (r *resolver) push(path string, explicit bool) {
	e := Entry{
		Path:           path,
		Label:          Label(path, r.opts.LongLabels),
		Explicit:       explicit,
		FirstFrameOnly: !explicit && IsMultiFrame(path),
	}

	key := filepath.Clean(path)
	if i, ok := r.seen[key]; ok {
		// A path named explicitly keeps all its frames.
		if explicit && !r.entries[i].Explicit {
			r.entries[i] = e
		}
		return
	}
	r.seen[key] = len(r.entries)
	r.entries = append(r.entries, e)
}

func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Ext returns the lower-case extension of path without the dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// HasImageExt reports whether path carries an accepted extension.
func HasImageExt(path string) bool {
	return allowed[Ext(path)]
}

// IsMultiFrame reports whether path is a format that may hold several frames.
func IsMultiFrame(path string) bool {
	switch Ext(path) {
	case "gif", "webp":
		return true
	}
	return false
}

// Label is the caption drawn under a tile: the base name, or the path as
// given when long is set.
func Label(path string, long bool) string {
	label := path
	if !long {
		label = filepath.Base(path)
	}
	return strings.TrimPrefix(label, "file://")
}
