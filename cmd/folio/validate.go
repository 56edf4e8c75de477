package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/csheth/folio/internal/content"
)

func newValidateCmd(opts *options) *cobra.Command {
	var checkImages bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the config and portfolio content for mistakes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			out := cmd.OutOrStdout()

			var problems []string
			unmatched, err := content.UnmatchedGlobs(a.cfg.Content.Path)
			if err != nil {
				return err
			}
			for _, glob := range unmatched {
				problems = append(problems, "image glob matches nothing: "+glob)
			}

			if checkImages {
				var refs []string
				for _, project := range a.portfolio.Projects {
					for _, ref := range project.ImageRefs() {
						if !content.IsRemote(ref) {
							refs = append(refs, ref)
						}
					}
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				results, err := a.loader.Preload(ctx, refs, a.cfg.Gallery.PreloadLimit)
				if err != nil {
					return err
				}
				for ref, res := range results {
					if res.Err != nil {
						problems = append(problems, fmt.Sprintf("image %s: %v", ref, res.Err))
					}
				}
			}

			if len(problems) > 0 {
				sort.Strings(problems)
				for _, p := range problems {
					fmt.Fprintln(out, "✗", p)
				}
				return fmt.Errorf("%d problem(s) found", len(problems))
			}
			images := 0
			for _, project := range a.portfolio.Projects {
				images += len(project.ImageRefs())
			}
			fmt.Fprintf(out, "✓ %s: %d projects, %d images\n", a.portfolio.Site.Name, len(a.portfolio.Projects), images)
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkImages, "images", true, "decode every local image")
	return cmd
}
