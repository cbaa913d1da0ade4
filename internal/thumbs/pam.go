package thumbs

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// PAM (P7) is the one Netpbm variant gopnm leaves unregistered.
func init() {
	image.RegisterFormat("pam", "P7", decodePAM, decodePAMConfig)
}

type pamHeader struct {
	width, height, depth, maxval int
}

func readPAMHeader(br *bufio.Reader) (pamHeader, error) {
	magic, err := br.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "P7" {
		return pamHeader{}, errors.New("pam: bad magic")
	}

	var h pamHeader
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return pamHeader{}, fmt.Errorf("pam: truncated header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "ENDHDR" {
			break
		}
		field, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)
		switch field {
		case "WIDTH":
			h.width, err = strconv.Atoi(value)
		case "HEIGHT":
			h.height, err = strconv.Atoi(value)
		case "DEPTH":
			h.depth, err = strconv.Atoi(value)
		case "MAXVAL":
			h.maxval, err = strconv.Atoi(value)
		}
		if err != nil {
			return pamHeader{}, fmt.Errorf("pam: %s: %w", field, err)
		}
	}

	if h.width <= 0 || h.height <= 0 {
		return pamHeader{}, errors.New("pam: missing dimensions")
	}
	if h.depth < 1 || h.depth > 4 {
		return pamHeader{}, fmt.Errorf("pam: unsupported depth %d", h.depth)
	}
	if h.maxval < 1 || h.maxval > 65535 {
		return pamHeader{}, fmt.Errorf("pam: bad maxval %d", h.maxval)
	}
	return h, nil
}

func decodePAMConfig(r io.Reader) (image.Config, error) {
	h, err := readPAMHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: h.width, Height: h.height}, nil
}

// decodePAM reads GRAYSCALE, GRAYSCALE_ALPHA, RGB and RGB_ALPHA tuples,
// chosen by DEPTH.
func decodePAM(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readPAMHeader(br)
	if err != nil {
		return nil, err
	}

	sampleSize := 1
	if h.maxval > 255 {
		sampleSize = 2
	}
	row := make([]byte, h.width*h.depth*sampleSize)
	samples := make([]uint8, h.depth)
	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))

	for y := range h.height {
		if _, err := io.ReadFull(br, row); err != nil {
			return nil, fmt.Errorf("pam: row %d: %w", y, err)
		}
		for x := range h.width {
			for s := range h.depth {
				off := (x*h.depth + s) * sampleSize
				v := int(row[off])
				if sampleSize == 2 {
					v = v<<8 | int(row[off+1])
				}
				samples[s] = uint8(min(v, h.maxval) * 255 / h.maxval)
			}
			img.SetNRGBA(x, y, pamColor(samples))
		}
	}
	return img, nil
}

func pamColor(s []uint8) color.NRGBA {
	switch len(s) {
	case 1:
		return color.NRGBA{R: s[0], G: s[0], B: s[0], A: 0xff}
	case 2:
		return color.NRGBA{R: s[0], G: s[0], B: s[0], A: s[1]}
	case 3:
		return color.NRGBA{R: s[0], G: s[1], B: s[2], A: 0xff}
	default:
		return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
	}
}
