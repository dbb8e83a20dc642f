package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel     string // Log verbosity level
	configPath   string // Pipeline config YAML; empty uses defaults
	artifactsDir string // Overrides artifacts.dir from the config
	outputFormat string // json or yaml
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "churnscore",
	Short: "Score telecom customers for churn with a fitted encoder, scaler and classifier",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		if !ValidOutputFormats[outputFormat] {
			logrus.Fatalf("Invalid output format %q (want json or yaml)", outputFormat)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to pipeline config YAML")
	rootCmd.PersistentFlags().StringVar(&artifactsDir, "artifacts", "", "Artifact directory (overrides artifacts.dir in the config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "json", "Output format (json, yaml)")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
}
