package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/csheth/folio/internal/tui"
)

const defaultRenderWidth = 100

func newRenderCmd(opts *options) *cobra.Command {
	var (
		width   int
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the whole portfolio page once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			if width <= 0 {
				width = terminalWidth()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			cfg := a.tuiConfig()
			var refs []string
			for _, project := range a.portfolio.Projects {
				refs = append(refs, project.ImageRefs()...)
			}
			cfg.Images, err = a.loader.Preload(ctx, refs, a.cfg.Gallery.PreloadLimit)
			if err != nil {
				return fmt.Errorf("loading images: %w", err)
			}
			// The resume is loaded asynchronously in the TUI; render skips it.
			cfg.ResumePath = ""
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tui.Render(cfg, width))
			return err
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 0, "page width in columns (defaults to the terminal width)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "how long to wait for remote images")
	return cmd
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultRenderWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultRenderWidth
	}
	return width
}
