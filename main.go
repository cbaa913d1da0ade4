package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/lsix/internal/app"
	"github.com/llehouerou/lsix/internal/lifecycle"
)

var version = "dev"

func main() {
	var (
		opts app.Options
		code int
	)

	cmd := &cobra.Command{
		Use:   "lsix [FILES...]",
		Short: "List images as sixel thumbnails",
		Long: "lsix shows thumbnails of images in the terminal using sixel graphics.\n" +
			"With no arguments it lists the images in the current directory.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Args = args
			code = app.Run(cmd.Context(), opts)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "descend into directories")
	cmd.Flags().BoolVarP(&opts.TUI, "tui", "t", false, "browse the images in an interactive grid")
	cmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "label tiles with the full path")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "do not read or write the row cache")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "log debug details to stderr")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(lifecycle.ExitFailure)
	}
	os.Exit(code)
}
