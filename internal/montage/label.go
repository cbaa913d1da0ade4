package montage

import (
	"image"
	"image/draw"
	"strings"
	"sync"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const ellipsis = "…"

var parseFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// newFace returns a face at size pixels. Faces are not safe for concurrent
// use, so every row gets its own.
func newFace(size int) (font.Face, error) {
	f, err := parseFont()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// cleanLabel replaces control characters with '?'.
func cleanLabel(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '?'
		}
		return r
	}, s)
}

// fitLabel shortens s at grapheme boundaries until it fits in maxW.
func fitLabel(face font.Face, s string, maxW int) string {
	limit := fixed.I(maxW)
	if font.MeasureString(face, s) <= limit {
		return s
	}

	budget := limit - font.MeasureString(face, ellipsis)
	if budget <= 0 {
		return ""
	}

	var b strings.Builder
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if font.MeasureString(face, b.String()+gr.Str()) > budget {
			break
		}
		b.WriteString(gr.Str())
	}
	return b.String() + ellipsis
}

// drawLabel centers text horizontally in [x0, x0+width) with its top at y.
func drawLabel(dst draw.Image, face font.Face, fg image.Image, text string, x0, y, width int) {
	text = fitLabel(face, cleanLabel(text), width)
	if text == "" {
		return
	}
	w := font.MeasureString(face, text).Ceil()
	d := font.Drawer{
		Dst:  dst,
		Src:  fg,
		Face: face,
		Dot:  fixed.P(x0+(width-w)/2, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}
