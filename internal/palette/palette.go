// Package palette parses the color names and hex values used for montage
// backgrounds, labels and shadows.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var named = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"gray":    "#808080",
	"grey":    "#808080",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
}

// Parse accepts #rgb, #rrggbb, rrggbb and a few basic color names.
func Parse(s string) (colorful.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := named[s]; ok {
		s = hex
	}
	if s != "" && s[0] != '#' {
		s = "#" + s
	}
	if len(s) == 4 {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c, nil
}

// ParseOr is Parse with a fallback for unparseable input.
func ParseOr(s string, fallback colorful.Color) colorful.Color {
	c, err := Parse(s)
	if err != nil {
		return fallback
	}
	return c
}

// NRGBA converts c to an opaque color.NRGBA.
func NRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// IsDark reports whether c is closer to black than to white.
func IsDark(c colorful.Color) bool {
	l, _, _ := c.Lab()
	return l < 0.5
}

// Shadow returns the drop shadow color for a background: darker on light
// backgrounds, a deep near-black on dark ones.
func Shadow(bg colorful.Color) colorful.Color {
	black := colorful.Color{}
	if IsDark(bg) {
		return bg.BlendLab(black, 0.7).Clamped()
	}
	return bg.BlendLab(black, 0.45).Clamped()
}
