package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/churnscore/scoring"
	"github.com/inference-sim/churnscore/scoring/artifact"
)

// loadPipelineConfig reads --config (or the defaults) and applies --artifacts.
func loadPipelineConfig(path, dirOverride string) (*scoring.Config, error) {
	cfg := scoring.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = scoring.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if dirOverride != "" {
		cfg.Artifacts.Dir = dirOverride
	}
	return cfg, nil
}

// newService loads the artifacts described by cfg into a Service.
func newService(cfg *scoring.Config, observer scoring.Observer) (*scoring.Service, error) {
	layout := artifact.LayoutFromConfig(cfg.Artifacts)
	svc := scoring.NewService()
	err := svc.Load(func() (*scoring.Pipeline, error) {
		return artifact.LoadPipeline(layout, scoring.ChurnSchema, cfg.EncoderOptions(),
			scoring.WithObserver(observer),
			scoring.WithConcurrency(cfg.Batch.Concurrency),
		)
	})
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded artifacts from %s (unknown categories: %s)", layout.Dir, cfg.EncoderOptions().UnknownPolicy)
	return svc, nil
}

// mustLoadPipeline is the startup path of the one-shot commands: any config
// or artifact failure is fatal.
func mustLoadPipeline() *scoring.Pipeline {
	cfg, err := loadPipelineConfig(configPath, artifactsDir)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	svc, err := newService(cfg, nil)
	if err != nil {
		logrus.Fatalf("Failed to load artifacts: %v", err)
	}
	p, err := svc.Pipeline()
	if err != nil {
		logrus.Fatalf("Failed to load artifacts: %v", err)
	}
	return p
}
