package main

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/foliopress/folio/internal/config"
	"github.com/foliopress/folio/markdown"
)

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a post to the terminal or to HTML",
		Long: `The render subcommand renders a Markdown post. By default it is styled for the
terminal; with --html it prints the HTML a preview page would show, including
an anchor for every element that analyze lists.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			content, err := readInput(cmd, name)
			if err != nil {
				return err
			}

			if html {
				doc, err := markdown.Run([]byte(content), markdown.Options{HighlightStyle: cfg.Render.HighlightStyle})
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(doc.HTML)
				return err
			}

			_, body, err := markdown.ParseMetadata([]byte(content))
			if err != nil {
				return err
			}
			r, err := newTermRenderer(cfg.Render, isTerminal(cmd))
			if err != nil {
				return err
			}
			out, err := r.RenderBytes(body)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "print HTML instead of terminal output")
	return cmd
}

func newTermRenderer(cfg config.RenderConfig, tty bool) (*glamour.TermRenderer, error) {
	style := glamour.WithStandardStyle(cfg.TerminalStyle)
	switch {
	case !tty:
		style = glamour.WithStandardStyle("notty")
	case cfg.TerminalStyle == "" || cfg.TerminalStyle == "auto":
		style = glamour.WithAutoStyle()
	}
	return glamour.NewTermRenderer(style, glamour.WithWordWrap(cfg.Width))
}

// isTerminal reports whether the command writes to a terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
