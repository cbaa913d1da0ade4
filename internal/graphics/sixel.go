// Package graphics encodes bitmaps as sixel data and positions them on screen.
package graphics

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/mattn/go-sixel"
	"github.com/soniakeys/quant/median"

	"github.com/llehouerou/lsix/internal/errmsg"
)

// MaxRegisters is the number of color registers a sixel image may use.
// Register 0 is kept by the encoder for transparency.
const MaxRegisters = 255

// Stop is the String Terminator that ends any pending sixel stream.
const Stop = "\x1b\\"

// Quantize reduces img to at most registers-1 colors with a median cut
// palette and Floyd-Steinberg dithering.
func Quantize(img image.Image, registers int) *image.Paletted {
	registers = min(max(registers, 2), MaxRegisters)
	if p, ok := img.(*image.Paletted); ok && len(p.Palette) < registers {
		return p
	}
	paletted := median.Quantizer(registers - 1).Paletted(img)
	draw.FloydSteinberg.Draw(paletted, img.Bounds(), img, img.Bounds().Min)
	return paletted
}

// Encode quantizes img to the register budget and returns the sixel stream.
func Encode(img image.Image, registers int) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image", errmsg.ErrEncodeFailed)
	}

	paletted := Quantize(img, registers)

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Dither = false

	if err := enc.Encode(paletted); err != nil {
		return nil, fmt.Errorf("%w: %w", errmsg.ErrEncodeFailed, err)
	}
	return buf.Bytes(), nil
}

// Place wraps sixel data so it is drawn at the 1-based (row, col) cell and
// the cursor is put back where it was.
//
// gen is embedded in a no-op SGR sequence. Bubble Tea only repaints lines
// whose text changed, so a placement that must be redrawn needs a new gen.
func Place(data []byte, row, col int, gen uint64) string {
	if len(data) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(data) + 32)
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH", row, col)
	sb.Write(data)
	fmt.Fprintf(&sb, "\x1b[u\x1b[%dm\x1b[0m", gen%255+1)
	return sb.String()
}

// Placeholder returns blank lines that reserve width x height cells for
// lipgloss layout measurement.
func Placeholder(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
