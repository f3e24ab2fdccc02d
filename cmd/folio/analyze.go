package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/foliopress/folio/markdown"
)

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "List the structural elements of a post and their anchors",
		Long: `The analyze subcommand lists the headings, tables, checklists, code blocks, images,
callouts and step lists of a Markdown post, each with the anchor id a rendered
page gives it. With no file, the post is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			content, err := readInput(cmd, name)
			if err != nil {
				return err
			}
			return writeItems(cmd.OutOrStdout(), format, markdown.Analyze(content))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output `format`: text, json or yaml")
	return cmd
}

func writeItems(w io.Writer, format string, items []markdown.Item) error {
	if items == nil {
		items = []markdown.Item{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "yaml":
		data, err := yaml.Marshal(items)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "text":
		for _, group := range markdown.GroupByKind(items) {
			fmt.Fprintln(w, group.Title)
			for _, item := range group.Items {
				indent := "  "
				if item.Level == 3 {
					indent = "    "
				}
				fmt.Fprintf(w, "%s%s %s\n", indent, item.Label, dim("#"+item.ID))
			}
		}
		return nil
	default:
		return &usageError{fmt.Errorf("unknown format %q (want text, json or yaml)", format)}
	}
}
