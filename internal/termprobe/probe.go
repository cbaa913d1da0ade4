// Package termprobe detects what the terminal can display: sixel support,
// pixel width, color register budget and the foreground/background colors.
package termprobe

import (
	"context"
	"fmt"
	"time"

	"github.com/llehouerou/lsix/internal/config"
	"github.com/llehouerou/lsix/internal/errmsg"
	"github.com/llehouerou/lsix/internal/termio"
)

const (
	DefaultWidth      = 1920
	DefaultColors     = 256
	MinColors         = 16
	DefaultBackground = "#282a36"
	DefaultForeground = "white"

	// pixels per character column when only the column count is known
	columnPixels = 12

	defaultCellW = 10
	defaultCellH = 20

	capabilityTimeout = 50 * time.Millisecond
	colorBudget       = 250 * time.Millisecond
)

// Escape sequences sent to the terminal.
const (
	seqDeviceAttrs    = "\x1b[c"
	seqSixelGeometry  = "\x1b[?2;1;0S"
	seqColorRegisters = "\x1b[?1;1;0S"
	seqWindowPixels   = "\x1b[14t"
	seqBackground     = "\x1b]11;?\x1b\\"
	seqForeground     = "\x1b]10;?\x1b\\"
)

// Where a profile value came from.
const (
	SourceEnv     = "env"
	SourceKnown   = "known terminal"
	SourceQuery   = "query"
	SourceIoctl   = "ioctl"
	SourceColumns = "columns"
	SourceDefault = "default"
)

// Querier is the terminal as seen by the probe. termio.TTY implements it.
type Querier interface {
	Query(seq string, timeout time.Duration, done termio.Terminator) ([]byte, error)
	WindowSize() (termio.Size, error)
}

// Profile describes the terminal. It is built once at startup and never
// changed afterwards.
type Profile struct {
	GraphicsSupported bool
	PixelWidth        int
	ColorBudget       int
	Background        string
	Foreground        string

	GraphicsSource string
	WidthSource    string
	ColorsSource   string
	ThemeSource    string
}

// Default returns the profile used when nothing can be probed.
func Default() Profile {
	return Profile{
		PixelWidth:     DefaultWidth,
		ColorBudget:    DefaultColors,
		Background:     DefaultBackground,
		Foreground:     DefaultForeground,
		GraphicsSource: SourceDefault,
		WidthSource:    SourceDefault,
		ColorsSource:   SourceDefault,
		ThemeSource:    SourceDefault,
	}
}

// Probe builds the terminal profile. Environment overrides win, then the
// known terminal list, then escape-sequence queries through q. q may be nil
// when there is no controlling terminal. The only error returned is
// errmsg.ErrEnvironmentUnsupported (or ctx's error); every other failure
// falls back to defaults.
func Probe(ctx context.Context, env config.Env, q Querier) (Profile, error) {
	p := Default()
	queries := q != nil && !env.SkipQueries

	switch {
	case env.ForceGraphics:
		p.GraphicsSupported, p.GraphicsSource = true, SourceEnv
	case IsKnownGraphicsTerm(env.Term, env.TermProgram):
		p.GraphicsSupported, p.GraphicsSource = true, SourceKnown
	case queries:
		reply, _ := q.Query(seqDeviceAttrs, capabilityTimeout, termio.EndsWith('c'))
		p.GraphicsSupported, p.GraphicsSource = hasSixel(reply), SourceQuery
	}
	if !p.GraphicsSupported {
		return p, fmt.Errorf("%w: your terminal does not report sixel graphics support; "+
			"use a sixel capable terminal such as xterm -ti vt340, or set FORCE_GRAPHICS=1 to force it",
			errmsg.ErrEnvironmentUnsupported)
	}

	if err := ctx.Err(); err != nil {
		return p, err
	}
	p.PixelWidth, p.WidthSource = pixelWidth(env, q, queries)

	if err := ctx.Err(); err != nil {
		return p, err
	}
	p.ColorBudget, p.ColorsSource = colorRegisters(env, q, queries)

	if err := ctx.Err(); err != nil {
		return p, err
	}
	p.Background, p.Foreground, p.ThemeSource = theme(env, q, queries)

	return p, nil
}

func pixelWidth(env config.Env, q Querier, queries bool) (int, string) {
	if env.ForceWidth > 0 {
		return env.ForceWidth, SourceEnv
	}

	if queries {
		if reply, err := q.Query(seqSixelGeometry, capabilityTimeout, termio.EndsWith('S')); err == nil {
			if w := parseSixelGeometry(reply); w > 0 {
				return w, SourceQuery
			}
		}
		if reply, err := q.Query(seqWindowPixels, capabilityTimeout, termio.EndsWith('t')); err == nil {
			if w := parseWindowPixels(reply); w > 0 {
				return w, SourceQuery
			}
		}
	}

	var size termio.Size
	if q != nil {
		if s, err := q.WindowSize(); err == nil {
			size = s
			if s.XPixel > 0 {
				return s.XPixel, SourceIoctl
			}
		}
	}

	if env.Columns > 0 {
		return env.Columns * columnPixels, SourceColumns
	}
	if size.Cols > 0 {
		return size.Cols * columnPixels, SourceColumns
	}

	return DefaultWidth, SourceDefault
}

func colorRegisters(env config.Env, q Querier, queries bool) (int, string) {
	n, src := DefaultColors, SourceDefault

	if env.Colors > 0 {
		n, src = env.Colors, SourceEnv
	} else if queries {
		if reply, err := q.Query(seqColorRegisters, capabilityTimeout, termio.EndsWith('S')); err == nil {
			if c := parseColorRegisters(reply); c > 0 {
				n, src = c, SourceQuery
			}
		}
	}

	if n < MinColors {
		n = MinColors
	}
	return n, src
}

func theme(env config.Env, q Querier, queries bool) (bg, fg, src string) {
	bg, fg, src = DefaultBackground, DefaultForeground, SourceDefault

	if env.ForceBackground != "" || env.ForceForeground != "" {
		if env.ForceBackground != "" {
			bg = env.ForceBackground
		}
		if env.ForceForeground != "" {
			fg = env.ForceForeground
		}
		return bg, fg, SourceEnv
	}

	if !queries {
		return bg, fg, src
	}

	deadline := time.Now().Add(colorBudget)

	reply, err := q.Query(seqBackground, time.Until(deadline), termio.OSCEnd)
	qbg, ok := parseOSCColor(reply)
	if err != nil || !ok {
		return bg, fg, src
	}
	left := time.Until(deadline)
	if left <= 0 {
		return bg, fg, src
	}
	reply, err = q.Query(seqForeground, left, termio.OSCEnd)
	qfg, ok := parseOSCColor(reply)
	if err != nil || !ok {
		return bg, fg, src
	}

	return qbg, qfg, SourceQuery
}

// CellSize returns the pixel size of a character cell, 10x20 when the
// terminal does not report pixel dimensions.
func CellSize(q Querier) (w, h int) {
	if q == nil {
		return defaultCellW, defaultCellH
	}
	size, err := q.WindowSize()
	if err != nil {
		return defaultCellW, defaultCellH
	}
	w, h = size.CellPixels()
	if w <= 0 || h <= 0 {
		return defaultCellW, defaultCellH
	}
	return w, h
}
