package scoring

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the pipeline configuration, loadable from a YAML file.
// Zero-valued fields keep the defaults from DefaultConfig.
type Config struct {
	Artifacts       ArtifactsConfig       `yaml:"artifacts"`
	UnknownCategory UnknownCategoryConfig `yaml:"unknown_category"`
	Batch           BatchConfig           `yaml:"batch"`
}

// ArtifactsConfig locates the three artifact blobs.
type ArtifactsConfig struct {
	Dir     string `yaml:"dir"`
	Encoder string `yaml:"encoder"`
	Scaler  string `yaml:"scaler"`
	Model   string `yaml:"model"`
}

// UnknownCategoryConfig selects the unseen-category policy.
// A nil FallbackValue means "not set in YAML".
type UnknownCategoryConfig struct {
	Policy        string   `yaml:"policy"`
	FallbackValue *float64 `yaml:"fallback_value"`
}

// BatchConfig bounds ScoreBatch parallelism. 0 means GOMAXPROCS.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Artifacts: ArtifactsConfig{
			Dir:     "artifacts",
			Encoder: "encoder.artifact",
			Scaler:  "scaler.artifact",
			Model:   "model.artifact",
		},
		UnknownCategory: UnknownCategoryConfig{Policy: string(PolicyError)},
	}
}

// LoadConfig reads a YAML config over DefaultConfig. Unknown keys are an
// error so typos cannot silently fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing pipeline config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config %s: %w", path, err)
	}
	return cfg, nil
}

// ValidUnknownCategoryPolicies is the set of recognized policy names.
var ValidUnknownCategoryPolicies = map[string]bool{"": true, string(PolicyError): true, string(PolicyFallback): true}

// Validate checks policy names and parameter ranges.
func (c *Config) Validate() error {
	if !ValidUnknownCategoryPolicies[c.UnknownCategory.Policy] {
		return fmt.Errorf("unknown unknown_category policy %q", c.UnknownCategory.Policy)
	}
	if v := c.UnknownCategory.FallbackValue; v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return fmt.Errorf("fallback_value must be finite, got %f", *v)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("batch concurrency must be non-negative, got %d", c.Batch.Concurrency)
	}
	if c.Artifacts.Encoder == "" || c.Artifacts.Scaler == "" || c.Artifacts.Model == "" {
		return fmt.Errorf("artifact file names must not be empty")
	}
	return nil
}

// EncoderOptions converts the unknown-category section.
func (c *Config) EncoderOptions() EncoderOptions {
	opts := DefaultEncoderOptions()
	if c.UnknownCategory.Policy != "" {
		opts.UnknownPolicy = UnknownCategoryPolicy(c.UnknownCategory.Policy)
	}
	if c.UnknownCategory.FallbackValue != nil {
		opts.FallbackValue = *c.UnknownCategory.FallbackValue
	}
	return opts
}
