package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foliopress/folio/markdown"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Check posts for structural problems and broken links",
		Long: `The check subcommand reports missing or duplicated titles, skipped heading levels,
images without alt text, code blocks without a language, very short posts and
in-page links to anchors that do not exist.

With no file, every post in the content directory is checked, including links
between posts and to images.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			lib, err := cfg.Library()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				problems, err := lib.Check(cmd.Context())
				if err != nil {
					return err
				}
				for _, problem := range problems {
					fmt.Fprintf(out, "%s %s\n", warningIcon, problem)
				}
				if len(problems) > 0 {
					return &exitCodeError{fmt.Errorf("%d problems found", len(problems)), 1}
				}
				fmt.Fprintf(out, "%s no problems found\n", successIcon)
				return nil
			}

			var errorCount int
			for _, name := range args {
				content, err := readInput(cmd, name)
				if err != nil {
					return err
				}
				for _, p := range markdown.Check(content, lib.CheckOptions) {
					icon := infoIcon
					switch p.Severity {
					case markdown.Error:
						icon = errorIcon
						errorCount++
					case markdown.Warning:
						icon = warningIcon
					}
					fmt.Fprintf(out, "%s %s: %s\n", icon, name, p)
					if p.Suggestion != "" {
						fmt.Fprintf(out, "  %s\n", dim(p.Suggestion))
					}
				}
			}
			if errorCount > 0 {
				return &exitCodeError{fmt.Errorf("%d errors found", errorCount), 1}
			}
			return nil
		},
	}
}
