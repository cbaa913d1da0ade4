package thumbs

import (
	"fmt"
	"image"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/llehouerou/lsix/internal/errmsg"
)

const (
	svgDefaultSize = 512
	svgMaxSize     = 2048
)

// rasterizeSVG renders an SVG document at its view box size, bounded to
// svgMaxSize on the longest side.
func rasterizeSVG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errmsg.ErrInputMissing, err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errmsg.ErrDecodeFailed, err)
	}

	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = svgDefaultSize, svgDefaultSize
	}
	if longest := max(w, h); longest > svgMaxSize {
		w = w * svgMaxSize / longest
		h = h * svgMaxSize / longest
	}
	w, h = max(w, 1), max(h, 1)

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	return img, nil
}
