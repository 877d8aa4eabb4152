package commands

import (
	"fmt"

	"github.com/de-tools/estimator/pkg/adapters"
	"github.com/de-tools/estimator/pkg/models/api"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/runtime/terminal/export"
	"github.com/de-tools/estimator/pkg/services/delta"
	"github.com/spf13/cobra"
)

type ApplyCmd struct {
	input     string
	deltaPath string
	out       string
	reporter  *export.Reporter
}

func NewApplyCmd(reporter *export.Reporter) *cobra.Command {
	ac := &ApplyCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply an interpretation delta to a bundle file",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.input, "input", "", "Bundle file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&ac.deltaPath, "delta", "", "Delta file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&ac.out, "out", "", "Bundle file the result is written to")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("delta")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func changes(d domain.Delta) int {
	return len(d.Checkpoints) + len(d.AddItems) + len(d.UpdateItems) + len(d.Phases)
}

func (ac *ApplyCmd) run(_ *cobra.Command, _ []string) error {
	kind, records, err := loadBundle(ac.input, "")
	if err != nil {
		return err
	}

	file, err := api.LoadDelta(ac.deltaPath)
	if err != nil {
		return err
	}
	d, err := adapters.MapDeltaApiToDomain(*file)
	if err != nil {
		return fmt.Errorf("invalid delta %s: %w", ac.deltaPath, err)
	}

	updated, rejections := delta.Apply(records, d)
	if err := api.WriteBundleFile(ac.out, adapters.MapRecordsToBundleFile(kind, updated)); err != nil {
		return err
	}

	return ac.reporter.HandleRejections(ac.out, changes(d)-len(rejections), rejections)
}
