package commands

import (
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/de-tools/estimator/pkg/runtime/app"
	"github.com/de-tools/estimator/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type PublishCmd struct {
	projectID  string
	kind       string
	configPath string
	reporter   *export.Reporter
}

func NewPublishCmd(reporter *export.Reporter) *cobra.Command {
	pc := &PublishCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Generate a document for a stored project and upload it",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&pc.kind, "kind", "", "Document kind (estimate, inspection, schedule, activity-log, project-report)")
	cmd.Flags().StringVar(&pc.configPath, "config", "", "Path to the configuration file")

	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func (pc *PublishCmd) run(cmd *cobra.Command, _ []string) error {
	kind, err := domain.ParseKind(pc.kind)
	if err != nil {
		return err
	}

	ctx, a, err := open(cmd, pc.configPath, app.Options{Store: true, Objects: true})
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	pub, err := a.Documents.Publish(ctx, pc.projectID, kind)
	if err != nil {
		return err
	}
	return pc.reporter.HandleReceipt(pub.Receipt, pub.Warnings)
}
