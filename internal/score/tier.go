package score

import "github.com/atomustam/prospector/internal/model"

// ClassifyTier maps a composite score to a tier. Bands must be sorted by
// descending threshold (model.ScoringConfig.TierBands does this); the first
// band whose lower bound the score reaches wins, which realizes the
// closed-lower/open-upper band rule. The lowest band is anchored at 0 by
// configuration validation, so every score in [0,100] maps to exactly one
// tier.
func ClassifyTier(bands []model.TierBand, composite float64) model.Tier {
	for _, band := range bands {
		if composite >= band.MinScore {
			return band.Tier
		}
	}
	// Unreachable with a validated configuration.
	return model.TierExcluded
}
