package termprobe

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// csiParams splits the numeric parameters of a CSI reply such as
// "ESC [ ? 2 ; 0 ; 1920 ; 1080 S". Empty or non-numeric fields are -1.
func csiParams(reply []byte, final byte) []int {
	start := bytes.LastIndex(reply, []byte("\x1b["))
	if start < 0 {
		return nil
	}
	body := reply[start+2:]
	end := bytes.IndexByte(body, final)
	if end < 0 {
		return nil
	}
	body = bytes.TrimPrefix(body[:end], []byte("?"))

	fields := strings.Split(string(body), ";")
	params := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = -1
		}
		params[i] = n
	}
	return params
}

// hasSixel reports whether a DA1 reply advertises attribute 4.
func hasSixel(reply []byte) bool {
	fields := strings.FieldsFunc(string(reply), func(r rune) bool {
		return r == ';' || r == '?' || r == 'c' || r == '\x1b' || r == '['
	})
	for _, f := range fields {
		if f == "4" {
			return true
		}
	}
	return false
}

// parseGraphicsAttr reads an XTSMGRAPHICS reply "ESC [ ? Pi ; Ps ; Pv... S"
// for item pi and returns its values on success (Ps == 0).
func parseGraphicsAttr(reply []byte, pi int) []int {
	p := csiParams(reply, 'S')
	if len(p) < 3 || p[0] != pi || p[1] != 0 {
		return nil
	}
	return p[2:]
}

// parseSixelGeometry returns the width of a sixel geometry reply.
func parseSixelGeometry(reply []byte) int {
	v := parseGraphicsAttr(reply, 2)
	if len(v) < 1 || v[0] <= 0 {
		return 0
	}
	return v[0]
}

// parseColorRegisters returns the register count of a color register reply.
func parseColorRegisters(reply []byte) int {
	v := parseGraphicsAttr(reply, 1)
	if len(v) < 1 || v[0] <= 0 {
		return 0
	}
	return v[0]
}

// parseWindowPixels reads "ESC [ 4 ; height ; width t" and returns the width.
func parseWindowPixels(reply []byte) int {
	p := csiParams(reply, 't')
	if len(p) < 3 || p[0] != 4 || p[2] <= 0 {
		return 0
	}
	return p[2]
}

// parseOSCColor reads an OSC 10/11 reply carrying "rgb:R/G/B" with 1 to 4
// hex digits per channel and returns it as #rrggbb.
func parseOSCColor(reply []byte) (string, bool) {
	s := string(reply)
	i := strings.Index(s, "rgb:")
	if i < 0 {
		return "", false
	}
	s = s[i+len("rgb:"):]
	s = strings.TrimRight(s, "\a\\\x1b")

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", false
	}

	var ch [3]float64
	for i, p := range parts {
		if len(p) == 0 || len(p) > 4 {
			return "", false
		}
		v, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return "", false
		}
		maxVal := float64(uint64(1)<<(4*len(p)) - 1)
		ch[i] = float64(v) / maxVal
	}

	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}.Hex(), true
}
