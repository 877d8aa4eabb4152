package commands

import (
	"fmt"

	"github.com/de-tools/estimator/pkg/runtime/app"
	"github.com/de-tools/estimator/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	input      string
	configPath string
	reporter   *export.Reporter
}

func NewImportCmd(reporter *export.Reporter) *cobra.Command {
	ic := &ImportCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a bundle file as a project",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.input, "input", "", "Bundle file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&ic.configPath, "config", "", "Path to the configuration file")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	_, records, err := loadBundle(ic.input, "")
	if err != nil {
		return err
	}

	ctx, a, err := open(cmd, ic.configPath, app.Options{Store: true})
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	stored, err := a.Documents.Import(ctx, records)
	if err != nil {
		return err
	}

	return ic.reporter.Handle(export.Section{
		Title: "Imported " + stored.Project.Name,
		Rows: []export.Row{
			{Label: "Project", Value: stored.Project.ID},
			{Label: "Items", Value: fmt.Sprint(len(stored.Items))},
			{Label: "Addons", Value: fmt.Sprint(len(stored.Addons))},
			{Label: "Checkpoints", Value: fmt.Sprint(len(stored.Checkpoints))},
			{Label: "Phases", Value: fmt.Sprint(len(stored.Phases))},
			{Label: "Activities", Value: fmt.Sprint(len(stored.Activities))},
		},
	})
}
