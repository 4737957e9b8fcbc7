package score

import "github.com/atomustam/prospector/internal/model"

// Aggregate combines the four normalized sub-scores into the composite
// score via the configured category weights. Given sub-scores in [0,100]
// and weights summing to 1, the result is in [0,100]; the guard clamp only
// covers floating-point drift at the edges.
func Aggregate(weights map[string]float64, categories map[string]model.CategoryScore) float64 {
	composite := 0.0
	for _, name := range model.Categories() {
		composite += weights[name] * categories[name].Normalized
	}
	return clamp(composite)
}
