package thumbs

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// xbmMaxSize bounds how much of an XBM source file is read.
const xbmMaxSize = 32 << 20

func init() {
	image.RegisterFormat("xbm", "#define", decodeXBM, decodeXBMConfig)
}

var xbmPalette = color.Palette{color.White, color.Black}

type xbmHeader struct {
	width, height int
	// body is the text after the opening brace of the bits array.
	body []byte
	// wide is set for X10 bitmaps, which store 16-bit words.
	wide bool
}

func parseXBM(r io.Reader) (xbmHeader, error) {
	src, err := io.ReadAll(io.LimitReader(r, xbmMaxSize))
	if err != nil {
		return xbmHeader{}, err
	}

	var h xbmHeader
	brace := bytes.IndexByte(src, '{')
	if brace < 0 {
		return xbmHeader{}, errors.New("xbm: no bits array")
	}
	for _, line := range strings.Split(string(src[:brace]), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 3 && fields[0] == "#define" {
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				continue
			}
			switch {
			case strings.HasSuffix(fields[1], "_width") || fields[1] == "width":
				h.width = n
			case strings.HasSuffix(fields[1], "_height") || fields[1] == "height":
				h.height = n
			}
		}
		if strings.Contains(line, "short") && strings.Contains(line, "[]") {
			h.wide = true
		}
	}
	if h.width <= 0 || h.height <= 0 {
		return xbmHeader{}, errors.New("xbm: missing dimensions")
	}
	h.body = src[brace+1:]
	return h, nil
}

func decodeXBMConfig(r io.Reader) (image.Config, error) {
	h, err := parseXBM(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: xbmPalette, Width: h.width, Height: h.height}, nil
}

// decodeXBM unpacks the bits array. Bits are least significant first and
// each row starts on a word boundary; a set bit is foreground (black).
func decodeXBM(r io.Reader) (image.Image, error) {
	h, err := parseXBM(r)
	if err != nil {
		return nil, err
	}

	end := bytes.IndexByte(h.body, '}')
	if end < 0 {
		return nil, errors.New("xbm: unterminated bits array")
	}
	var words []uint16
	for tok := range strings.SplitSeq(string(h.body[:end]), ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseUint(tok, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("xbm: bad value %q: %w", tok, err)
		}
		words = append(words, uint16(v))
	}

	bits := 8
	if h.wide {
		bits = 16
	}
	perRow := (h.width + bits - 1) / bits
	if len(words) < perRow*h.height {
		return nil, fmt.Errorf("xbm: %d values, want %d", len(words), perRow*h.height)
	}

	img := image.NewPaletted(image.Rect(0, 0, h.width, h.height), xbmPalette)
	for y := range h.height {
		for x := range h.width {
			w := words[y*perRow+x/bits]
			if w>>(x%bits)&1 == 1 {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img, nil
}
