package score

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atomustam/prospector/internal/model"
)

// ErrInvalidInput marks per-record failures: a record missing its required
// company identifier, or a sub-score outside [0,100] reaching the builder.
// Callers skip the record and continue the batch; the run is not aborted.
var ErrInvalidInput = errors.New("invalid input")

// BuildResult assembles the final scoring result. A sub-score outside
// [0,100] here is an upstream contract violation and is rejected rather
// than clamped a second time.
func BuildResult(company string, categories map[string]model.CategoryScore, composite float64, tier model.Tier, version string, generatedAt time.Time) (*model.ScoringResult, error) {
	if strings.TrimSpace(company) == "" {
		return nil, fmt.Errorf("%w: company identifier is required", ErrInvalidInput)
	}

	for _, name := range model.Categories() {
		cs, ok := categories[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing sub-score for category %q", ErrInvalidInput, name)
		}
		if cs.Normalized < 0 || cs.Normalized > 100 {
			return nil, fmt.Errorf("%w: sub-score for %q out of [0,100]: %v", ErrInvalidInput, name, cs.Normalized)
		}
	}
	if composite < 0 || composite > 100 {
		return nil, fmt.Errorf("%w: composite score out of [0,100]: %v", ErrInvalidInput, composite)
	}

	// Copy the map so the result owns its breakdown outright.
	owned := make(map[string]model.CategoryScore, len(categories))
	for name, cs := range categories {
		owned[name] = cs
	}

	return &model.ScoringResult{
		Company:          company,
		Composite:        composite,
		Tier:             tier,
		Categories:       owned,
		AlgorithmVersion: version,
		GeneratedAt:      generatedAt,
	}, nil
}
