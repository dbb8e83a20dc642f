package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/churnscore/scoring/artifact"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print artifact envelope metadata without loading the pipeline",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadPipelineConfig(configPath, artifactsDir)
		if err != nil {
			logrus.Fatalf("Failed to load config: %v", err)
		}
		descs, descErr := artifact.Describe(artifact.LayoutFromConfig(cfg.Artifacts))
		if err := writeOutput(os.Stdout, outputFormat, descs); err != nil {
			logrus.Fatal(err)
		}
		if descErr != nil {
			logrus.Fatalf("Artifact set is incomplete: %v", descErr)
		}
	},
}
