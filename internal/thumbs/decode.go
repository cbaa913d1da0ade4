package thumbs

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "github.com/jbuchbinder/gopnm"    // register decoder
	_ "github.com/sergeymakinen/go-ico" // register decoder
	_ "golang.org/x/image/bmp"          // register decoder
	_ "golang.org/x/image/tiff"         // register decoder
	_ "golang.org/x/image/webp"         // register decoder

	"github.com/llehouerou/lsix/internal/errmsg"
	"github.com/llehouerou/lsix/internal/imgsrc"
)

// sniffLen is the header length filetype needs for every matcher.
const sniffLen = 261

// headerDecoded lists extensions filetype cannot identify whose decoders are
// registered with image and recognize the file by its own header.
var headerDecoded = map[string]bool{
	"pnm": true, "ppm": true, "pgm": true, "pbm": true, "pam": true,
	"xbm": true, "ico": true,
}

// undecodable lists listed extensions with no Go decoder.
var undecodable = map[string]bool{"xpm": true, "eps": true}

type header struct {
	format string
	width  int
	height int
	frames int
}

// inspect checks that path holds a decodable image without decoding pixels.
// frames is only counted when countFrames is set and the file is a GIF.
func inspect(path string, countFrames bool) (header, error) {
	f, err := os.Open(path)
	if err != nil {
		return header{}, fmt.Errorf("%w: %w", errmsg.ErrInputMissing, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return header{}, fmt.Errorf("%w: %w", errmsg.ErrInputMissing, err)
	}
	head = head[:n]

	ext := imgsrc.Ext(path)
	if ext == "svg" {
		if !looksLikeSVG(head) {
			return header{}, fmt.Errorf("%w: not an svg document", errmsg.ErrDecodeFailed)
		}
		return header{format: "svg", frames: 1}, nil
	}

	if undecodable[ext] {
		return header{}, fmt.Errorf("%w: no decoder for %s images", errmsg.ErrDecodeFailed, ext)
	}
	if !filetype.IsImage(head) && !headerDecoded[ext] {
		return header{}, fmt.Errorf("%w: unrecognized image data", errmsg.ErrDecodeFailed)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return header{}, fmt.Errorf("%w: %w", errmsg.ErrInputMissing, err)
	}
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		kind, _ := filetype.Match(head)
		name := kind.Extension
		if name == "unknown" {
			name = ext
		}
		return header{}, fmt.Errorf("%w: unsupported %s: %w", errmsg.ErrDecodeFailed, name, err)
	}
	h := header{format: format, width: cfg.Width, height: cfg.Height, frames: 1}

	if countFrames && format == "gif" {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return header{}, fmt.Errorf("%w: %w", errmsg.ErrInputMissing, err)
		}
		all, err := gif.DecodeAll(f)
		if err != nil {
			return header{}, fmt.Errorf("%w: %w", errmsg.ErrDecodeFailed, err)
		}
		h.frames = len(all.Image)
	}
	return h, nil
}

func looksLikeSVG(head []byte) bool {
	return bytes.Contains(head, []byte("<svg")) || bytes.Contains(head, []byte("<?xml"))
}

// decode loads the pixels of e, auto-oriented from EXIF.
func decode(e Entry) (image.Image, error) {
	if e.Format == "svg" {
		return rasterizeSVG(e.Path)
	}

	f, err := os.Open(e.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errmsg.ErrInputMissing, err)
	}
	defer f.Close()

	if e.Frame >= 0 {
		img, err := gifFrame(f, e.Frame)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errmsg.ErrDecodeFailed, err)
		}
		return img, nil
	}

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errmsg.ErrDecodeFailed, err)
	}
	return img, nil
}

// gifFrame renders frame i of an animated GIF over the frames before it.
func gifFrame(r io.Reader, i int) (image.Image, error) {
	all, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if i >= len(all.Image) {
		return nil, fmt.Errorf("frame %d out of range (%d frames)", i, len(all.Image))
	}

	w, h := all.Config.Width, all.Config.Height
	if w == 0 || h == 0 {
		b := all.Image[0].Bounds()
		w, h = b.Dx(), b.Dy()
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))

	for n := 0; n <= i; n++ {
		frame := all.Image[n]
		var saved *image.NRGBA
		if n < len(all.Disposal) && all.Disposal[n] == gif.DisposalPrevious && n < i {
			saved = imaging.Clone(canvas)
		}
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		if n == i {
			break
		}
		if n < len(all.Disposal) {
			switch all.Disposal[n] {
			case gif.DisposalBackground:
				draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				if saved != nil {
					canvas = saved
				}
			}
		}
	}
	return canvas, nil
}

func colorType(m color.Model) string {
	switch m {
	case color.RGBAModel:
		return "rgba"
	case color.RGBA64Model:
		return "rgba64"
	case color.NRGBAModel:
		return "nrgba"
	case color.NRGBA64Model:
		return "nrgba64"
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.YCbCrModel:
		return "ycbcr"
	case color.CMYKModel:
		return "cmyk"
	}
	if _, ok := m.(color.Palette); ok {
		return "paletted"
	}
	return "unknown"
}
