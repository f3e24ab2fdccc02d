package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/foliopress/folio/internal/config"
)

var (
	successIcon = color.New(color.FgGreen).Sprint("✓")
	warningIcon = color.New(color.FgYellow).Sprint("⚠")
	errorIcon   = color.New(color.FgRed).Sprint("✗")
	infoIcon    = color.New(color.FgCyan).Sprint("ℹ")

	dim = color.New(color.Faint).SprintFunc()
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	configFile string
	contentDir string
}

func newRootCmd() *cobra.Command {
	var opts globalOptions
	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "Analyze, normalize and preview Markdown posts",
		Long: `folio finds the structure of Markdown posts (headings, tables, checklists, code,
images, callouts and step lists) and gives each element a stable anchor. It also
normalizes loosely formatted Markdown, checks posts for problems, and serves
previews with in-page navigation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config `file` (default ./folio.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.contentDir, "content", "", "`dir` containing the posts (overrides content.dir)")

	rootCmd.AddCommand(
		newAnalyzeCmd(&opts),
		newNormalizeCmd(&opts),
		newCheckCmd(&opts),
		newRenderCmd(&opts),
		newSearchCmd(&opts),
		newServeCmd(&opts),
		newInfoCmd(&opts),
	)
	return rootCmd
}

func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.contentDir != "" {
		cfg.Content.Dir = o.contentDir
	}
	return cfg, nil
}

// readInput reads the named file, or standard input when name is "" or "-".
func readInput(cmd *cobra.Command, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "" || name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", errors.WithMessage(err, "read input")
	}
	return string(data), nil
}

// usageError is an error type that subcommands can return in order to signal
// that a usage error has occurred.
type usageError struct {
	error
}

// exitCodeError is an error type that subcommands can return in order to
// specify the exact exit code.
type exitCodeError struct {
	error
	exitCode int
}
