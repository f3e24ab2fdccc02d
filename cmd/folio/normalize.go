package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foliopress/folio/markdown"
)

func newNormalizeCmd(opts *globalOptions) *cobra.Command {
	var (
		title string
		write bool
		check bool
	)
	cmd := &cobra.Command{
		Use:   "normalize [file...]",
		Short: "Rewrite loosely formatted Markdown into clean Markdown",
		Long: `The normalize subcommand repairs headings, lists, checkboxes, code fences, tables and
emphasis in Markdown that was pasted from other tools, and fixes blank-line spacing.
Normalizing twice gives the same result as normalizing once.

With no file, the post is read from standard input and written to standard output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && check {
				return &usageError{fmt.Errorf("--write and --check are mutually exclusive")}
			}
			if len(args) == 0 {
				if write {
					return &usageError{fmt.Errorf("--write needs at least one file")}
				}
				args = []string{"-"}
			}

			var changed []string
			for _, name := range args {
				content, err := readInput(cmd, name)
				if err != nil {
					return err
				}
				out := markdown.Normalize(content, title)
				switch {
				case check:
					if out != content {
						changed = append(changed, name)
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s would change\n", warningIcon, name)
					}
				case write:
					if out == content {
						continue
					}
					if err := os.WriteFile(name, []byte(out), 0o644); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successIcon, name)
				default:
					fmt.Fprint(cmd.OutOrStdout(), out)
				}
			}
			if len(changed) > 0 {
				return &exitCodeError{fmt.Errorf("%d files are not normalized", len(changed)), 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title to add as a level 1 heading when the post has none")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVar(&check, "check", false, "exit non-zero if any file would change")
	return cmd
}
