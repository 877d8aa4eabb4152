package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/estimator/pkg/runtime/app"
	"github.com/de-tools/estimator/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type RenderCmd struct {
	input      string
	outDir     string
	kind       string
	configPath string
	reporter   *export.Reporter
}

func NewRenderCmd(reporter *export.Reporter) *cobra.Command {
	rc := &RenderCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a bundle file to PDF",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.input, "input", "", "Bundle file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&rc.outDir, "out", ".", "Directory the PDF is written to")
	cmd.Flags().StringVar(&rc.kind, "kind", "", "Document kind, overrides the kind in the bundle")
	cmd.Flags().StringVar(&rc.configPath, "config", "", "Path to the configuration file")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, _ []string) error {
	kind, records, err := loadBundle(rc.input, rc.kind)
	if err != nil {
		return err
	}
	if kind == "" {
		return fmt.Errorf("bundle %s has no kind, pass --kind", rc.input)
	}

	ctx, a, err := open(cmd, rc.configPath, app.Options{})
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	artifact, err := a.Documents.Render(ctx, kind, records)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(rc.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	target := filepath.Join(rc.outDir, artifact.Result.FileName)
	if err := os.WriteFile(target, artifact.PDF, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	return rc.reporter.HandleArtifact(kind, target, len(artifact.Result.Pages), len(artifact.PDF), artifact.Result.Warnings)
}
