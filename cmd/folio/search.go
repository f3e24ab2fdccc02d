package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search query...",
		Short: "Search the posts",
		Long:  "The search subcommand searches all posts and prints each matching section with its anchor.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			lib, err := cfg.Library()
			if err != nil {
				return err
			}
			result, err := lib.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if result.Total == 0 {
				return &exitCodeError{fmt.Errorf("no results found"), 1}
			}

			out := cmd.OutOrStdout()
			for _, dr := range result.DocumentResults {
				for _, sr := range dr.SectionResults {
					var moreExcerpts string
					if len(sr.Excerpts) >= 2 {
						moreExcerpts = fmt.Sprintf(" (+%d more)", len(sr.Excerpts)-1)
					}
					if len(sr.Excerpts) > 0 {
						fmt.Fprintf(out, "%s#%s: %s%s\n", dr.ID, sr.ID, sr.Excerpts[0], dim(moreExcerpts))
					} else {
						fmt.Fprintf(out, "%s#%s\n", dr.ID, sr.ID)
					}
				}
			}
			return nil
		},
	}
}
