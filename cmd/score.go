package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/churnscore/scoring"
	"github.com/inference-sim/churnscore/scoring/dataset"
)

var (
	// Single-customer form, defaulting to the demo customer
	state             string  // Two-letter state code
	accountLength     int64   // Account age in days
	internationalPlan string  // yes or no
	totalDayMinutes   float64 // Total daytime minutes
	totalDayCalls     int64   // Total daytime calls
	serviceCalls      int64   // Customer service calls

	scoreInputPath string // CSV of records to score instead of the form
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one customer from flags, or a CSV of customers",
	Run: func(cmd *cobra.Command, args []string) {
		p := mustLoadPipeline()

		if scoreInputPath != "" {
			batch, _, err := dataset.LoadCSV(scoreInputPath, p.Schema(), dataset.DefaultLabelColumn)
			if err != nil {
				logrus.Fatalf("Failed to read %s: %v", scoreInputPath, err)
			}
			labels, err := p.ScoreBatch(context.Background(), dataset.Records(batch))
			if err != nil {
				logrus.Fatalf("Scoring failed: %v", err)
			}
			logrus.Infof("Scored %d records from %s", len(labels), scoreInputPath)
			if err := writeOutput(os.Stdout, outputFormat, BatchScoreResponse{Labels: labels}); err != nil {
				logrus.Fatal(err)
			}
			return
		}

		label, err := p.Score(formRecord())
		if err != nil {
			logrus.Fatalf("Scoring failed: %v", err)
		}
		if err := writeOutput(os.Stdout, outputFormat, ScoreResponse{Label: label, Verdict: scoring.Verdict(label)}); err != nil {
			logrus.Fatal(err)
		}
	},
}

// formRecord builds the record described by the form flags.
func formRecord() scoring.Record {
	return scoring.NewRecord(
		scoring.Field{Name: scoring.FieldState, Value: scoring.Categorical(state)},
		scoring.Field{Name: scoring.FieldAccountLength, Value: scoring.Integer(accountLength)},
		scoring.Field{Name: scoring.FieldInternationalPlan, Value: scoring.Categorical(internationalPlan)},
		scoring.Field{Name: scoring.FieldTotalDayMinutes, Value: scoring.Float(totalDayMinutes)},
		scoring.Field{Name: scoring.FieldTotalDayCalls, Value: scoring.Integer(totalDayCalls)},
		scoring.Field{Name: scoring.FieldServiceCalls, Value: scoring.Integer(serviceCalls)},
	)
}

func init() {
	scoreCmd.Flags().StringVar(&state, "state", "IN", "State")
	scoreCmd.Flags().Int64Var(&accountLength, "account-length", 165, "Account length")
	scoreCmd.Flags().StringVar(&internationalPlan, "international-plan", "no", "International plan (yes, no)")
	scoreCmd.Flags().Float64Var(&totalDayMinutes, "total-day-minutes", 100, "Total daytime minutes")
	scoreCmd.Flags().Int64Var(&totalDayCalls, "total-day-calls", 30, "Total daytime calls")
	scoreCmd.Flags().Int64Var(&serviceCalls, "service-calls", 1, "Total customer service calls")
	scoreCmd.Flags().StringVar(&scoreInputPath, "input", "", "CSV of customers to score instead of the form flags")
}
