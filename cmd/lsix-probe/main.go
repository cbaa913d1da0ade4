// lsix-probe prints what lsix detects about the current terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/llehouerou/lsix/internal/config"
	"github.com/llehouerou/lsix/internal/layout"
	"github.com/llehouerou/lsix/internal/termio"
	"github.com/llehouerou/lsix/internal/termprobe"
	"github.com/llehouerou/lsix/internal/ui/render"
	"github.com/llehouerou/lsix/internal/ui/styles"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	env := config.ReadEnv(os.LookupEnv)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv(env)

	var q termprobe.Querier
	if tty, err := termio.Open(); err == nil {
		defer tty.Close()
		q = tty
	} else {
		fmt.Fprintf(os.Stderr, "No terminal: %v\n", err)
	}

	profile, probeErr := termprobe.Probe(ctx, env, q)
	theme := styles.ForTerminal(profile.Background, profile.Foreground)
	s := theme.S()
	cellW, cellH := termprobe.CellSize(q)

	row := func(name string, value any, source string) {
		line := fmt.Sprintf("%-10s %v", name, value)
		if source != "" {
			line += " " + s.Muted.Render("("+source+")")
		}
		fmt.Println(line)
	}
	heading := func(title string) {
		fmt.Println(styles.ApplyBoldGradient(title, theme.Primary, theme.Secondary))
		fmt.Println(styles.ApplyGradient(render.Separator(24), theme.Primary, theme.Secondary))
	}

	heading("terminal")
	row("graphics", profile.GraphicsSupported, profile.GraphicsSource)
	row("width", profile.PixelWidth, profile.WidthSource)
	row("colors", profile.ColorBudget, profile.ColorsSource)
	row("bg", profile.Background, profile.ThemeSource)
	row("fg", profile.Foreground, profile.ThemeSource)
	row("cell", fmt.Sprintf("%dx%d", cellW, cellH), "")

	if probeErr != nil {
		fmt.Println(s.Error.Render(probeErr.Error()))
		os.Exit(1)
	}

	p := layout.Compute(profile, layout.Options{TileSize: cfg.TileSize, Colors: cfg.Colors, Shadow: cfg.Shadow})
	tileW, tileH := p.CellSize()
	fmt.Println()
	heading("montage")
	row("tile", fmt.Sprintf("%dx%d", p.TileW, p.TileH), "")
	row("margin", fmt.Sprintf("%dx%d", p.MarginX, p.MarginY), "")
	row("per row", p.TilesPerRow, "")
	row("cell", fmt.Sprintf("%dx%d", tileW, tileH), "")
	row("font", p.FontSize, "")
	row("palette", p.PaletteSize(), "")
	row("shadow", p.Shadow, "")
}
