package terminal

import (
	"io"
	"os"

	"github.com/de-tools/estimator/pkg/runtime/terminal/commands"
	"github.com/de-tools/estimator/pkg/runtime/terminal/export"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Styled forces terminal styling. When nil it is enabled for terminals only.
	Styled *bool
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	styled := isTerminal(opts.Output)
	if opts.Styled != nil {
		styled = *opts.Styled
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output, styled),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs replaces os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "estimator",
		Short:         "Construction project documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewRenderCmd(cli.reporter))
	cmd.AddCommand(commands.NewTotalsCmd(cli.reporter))
	cmd.AddCommand(commands.NewPublishCmd(cli.reporter))
	cmd.AddCommand(commands.NewImportCmd(cli.reporter))
	cmd.AddCommand(commands.NewApplyCmd(cli.reporter))

	return cmd
}
