package artifact

// Built-in stage implementations register themselves with the scoring
// registries on import.
import (
	_ "github.com/inference-sim/churnscore/scoring/encoder"
	_ "github.com/inference-sim/churnscore/scoring/model"
	_ "github.com/inference-sim/churnscore/scoring/scaler"
)
