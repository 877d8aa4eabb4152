package commands

import (
	"github.com/de-tools/estimator/pkg/runtime/app"
	"github.com/de-tools/estimator/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type TotalsCmd struct {
	input      string
	configPath string
	reporter   *export.Reporter
}

func NewTotalsCmd(reporter *export.Reporter) *cobra.Command {
	tc := &TotalsCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print the price breakdown of a bundle file",
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.input, "input", "", "Bundle file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&tc.configPath, "config", "", "Path to the configuration file")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (tc *TotalsCmd) run(cmd *cobra.Command, _ []string) error {
	kind, records, err := loadBundle(tc.input, "")
	if err != nil {
		return err
	}

	ctx, a, err := open(cmd, tc.configPath, app.Options{})
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	totals, err := a.Documents.Totals(ctx, kind, records)
	if err != nil {
		return err
	}

	title := records.Project.Name
	if title == "" {
		title = "Totals"
	}
	return tc.reporter.HandleTotals(title, totals, a.Engine.Locale)
}
