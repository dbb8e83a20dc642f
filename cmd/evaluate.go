package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/churnscore/scoring/dataset"
	"github.com/inference-sim/churnscore/scoring/evaluation"
)

var (
	evalDataPath    string // Labeled CSV
	evalLabelColumn string // Name of the label column
	evalShowMisses  bool   // Print mispredicted rows after the report
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a labeled CSV and print the confusion matrix",
	Run: func(cmd *cobra.Command, args []string) {
		if evalDataPath == "" {
			logrus.Fatalf("--data is required")
		}
		p := mustLoadPipeline()

		batch, labeled, err := dataset.LoadCSV(evalDataPath, p.Schema(), evalLabelColumn)
		if err != nil {
			logrus.Fatalf("Failed to read %s: %v", evalDataPath, err)
		}
		if !labeled {
			logrus.Fatalf("%s has no %q column", evalDataPath, evalLabelColumn)
		}

		report, tr, err := evaluation.Evaluate(context.Background(), p, batch)
		if err != nil {
			logrus.Fatalf("Evaluation failed: %v", err)
		}
		logrus.Infof("Evaluated %d records: accuracy %.4f, churn rate %.2f%%", report.Total, report.Accuracy, 100*report.ChurnRate)

		out := EvaluateResponse{Report: report}
		if evalShowMisses {
			out.Misses = tr.Misses()
		}
		if err := writeOutput(os.Stdout, outputFormat, out); err != nil {
			logrus.Fatal(err)
		}
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evalDataPath, "data", "", "Labeled CSV to evaluate")
	evaluateCmd.Flags().StringVar(&evalLabelColumn, "label-column", dataset.DefaultLabelColumn, "Name of the true-label column")
	evaluateCmd.Flags().BoolVar(&evalShowMisses, "misses", false, "Include mispredicted rows in the output")
}
