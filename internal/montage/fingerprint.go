package montage

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/llehouerou/lsix/internal/layout"
	"github.com/llehouerou/lsix/internal/thumbs"
)

// formatVersion changes whenever the composed output changes for the same
// inputs, so stale artifacts are never reused.
const formatVersion = 1

type fingerprintTile struct {
	Path    string
	Frame   int
	ModTime int64
	Label   string
}

type fingerprintInput struct {
	Version    int
	Tiles      []fingerprintTile
	TileW      int
	TileH      int
	MarginX    int
	MarginY    int
	FontSize   int
	Colors     int
	Background string
	Foreground string
	Shadow     bool
}

// Fingerprint identifies the rendered output of a row: the same entries
// (path, frame, mtime, label) with the same parameters always hash to the
// same 16 hex digits.
func Fingerprint(entries []thumbs.Entry, p layout.Params) (string, error) {
	in := fingerprintInput{
		Version:    formatVersion,
		Tiles:      make([]fingerprintTile, len(entries)),
		TileW:      p.TileW,
		TileH:      p.TileH,
		MarginX:    p.MarginX,
		MarginY:    p.MarginY,
		FontSize:   p.FontSize,
		Colors:     p.PaletteSize(),
		Background: p.Background,
		Foreground: p.Foreground,
		Shadow:     p.Shadow,
	}
	for i, e := range entries {
		abs, err := filepath.Abs(e.Path)
		if err != nil {
			abs = e.Path
		}
		in.Tiles[i] = fingerprintTile{
			Path:    abs,
			Frame:   e.Frame,
			ModTime: e.ModTime.UnixNano(),
			Label:   e.Label,
		}
	}

	h, err := hashstructure.Hash(in, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h), nil
}
