// Package styles holds the browser's colors and lipgloss styles.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/llehouerou/lsix/internal/palette"
)

// Theme defines the color palette and pre-built styles of the browser.
type Theme struct {
	// Brand/accent colors
	Primary   lipgloss.Color // selected cell border, header
	Secondary lipgloss.Color // header gradient end

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	// Backgrounds
	BgBase   lipgloss.Color // terminal background
	BgStatus lipgloss.Color // status line

	// Borders
	Border      lipgloss.Color // unselected cells
	BorderFocus lipgloss.Color // selected cell

	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles.
type Styles struct {
	Base     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Title    lipgloss.Style
	Caption  lipgloss.Style // file name under a thumbnail
	Selected lipgloss.Style // caption of the selected cell
	Status   lipgloss.Style // bottom status line
	Error    lipgloss.Style
	Warning  lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	BgBase:   lipgloss.Color("#1a1a1a"),
	BgStatus: lipgloss.Color("#303030"),

	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#a78bfa"),

	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// ForTerminal derives a theme from the terminal's own colors, keeping the
// default accents. Muted and subtle text are the foreground blended toward
// the background.
func ForTerminal(bg, fg string) *Theme {
	t := defaultTheme
	t.styles = nil

	b, err := palette.Parse(bg)
	if err != nil {
		return &t
	}
	f, err := palette.Parse(fg)
	if err != nil {
		return &t
	}

	t.BgBase = hex(b)
	t.FgBase = hex(f)
	t.FgMuted = hex(f.BlendLab(b, 0.4))
	t.FgSubtle = hex(f.BlendLab(b, 0.65))
	t.Border = t.FgSubtle
	t.BgStatus = hex(b.BlendLab(f, 0.15))
	return &t
}

func hex(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:     base,
		Muted:    lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:   lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:    base.Bold(true),
		Caption:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Selected: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Status: lipgloss.NewStyle().
			Background(t.BgStatus).
			Foreground(t.FgBase),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}
