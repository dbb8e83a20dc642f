package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/churnscore/internal/testutil"
	"github.com/inference-sim/churnscore/scoring"
)

func TestWriteOutput_Formats(t *testing.T) {
	resp := ScoreResponse{Label: scoring.Churned, Verdict: scoring.Verdict(scoring.Churned)}

	var js bytes.Buffer
	require.NoError(t, writeOutput(&js, "json", resp))
	assert.JSONEq(t, `{"label":"churned","verdict":"This customer is a churn customer."}`, js.String())

	var ym bytes.Buffer
	require.NoError(t, writeOutput(&ym, "yaml", resp))
	assert.Equal(t, "label: churned\nverdict: This customer is a churn customer.\n", ym.String())

	assert.Error(t, writeOutput(&js, "xml", resp))
}

func TestLoadPipelineConfig_ArtifactsOverride(t *testing.T) {
	// GIVEN a config naming one directory and an --artifacts override
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("artifacts:\n  dir: /nowhere\n"), 0o644))

	cfg, err := loadPipelineConfig(path, "/override")

	require.NoError(t, err)
	assert.Equal(t, "/override", cfg.Artifacts.Dir)
}

func TestNewService_LoadsDemoArtifacts(t *testing.T) {
	// GIVEN the demo artifacts on disk
	dir := t.TempDir()
	testutil.WriteChurnArtifacts(t, dir, true)
	cfg, err := loadPipelineConfig("", dir)
	require.NoError(t, err)

	// WHEN the service starts
	svc, err := newService(cfg, nil)
	require.NoError(t, err)

	// THEN the form defaults score as a loyal customer
	p, err := svc.Pipeline()
	require.NoError(t, err)
	got, err := p.Score(formRecord())
	require.NoError(t, err)
	assert.Equal(t, scoring.Retained, got)
}

func TestNewService_MissingArtifacts(t *testing.T) {
	cfg, err := loadPipelineConfig("", t.TempDir())
	require.NoError(t, err)

	svc, err := newService(cfg, nil)

	assert.Nil(t, svc)
	var le *scoring.ArtifactLoadError
	assert.ErrorAs(t, err, &le)
}
