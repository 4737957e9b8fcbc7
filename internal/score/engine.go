// Package score implements the deterministic weighted scoring model:
// keyword matching feeds four category scorers whose normalized sub-scores
// are combined into a composite score and a tier classification.
package score

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/atomustam/prospector/internal/match"
	"github.com/atomustam/prospector/internal/model"
)

// Engine scores evidence records against one immutable configuration.
// It holds no mutable state and is safe to invoke concurrently; batch
// scoring results are independent of invocation order.
type Engine struct {
	cfg     *model.ScoringConfig
	matcher *match.Matcher
	now     func() time.Time
}

// NewEngine validates the configuration and precompiles the keyword index.
// A configuration error here is fatal: no company may be scored past it.
func NewEngine(cfg *model.ScoringConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		matcher: match.NewMatcher(cfg.Taxonomy),
		now:     time.Now,
	}, nil
}

// Score converts one evidence record into a scoring result. It is a pure
// function of the record and the configuration; only the output timestamp
// varies between invocations.
func (e *Engine) Score(rec model.EvidenceRecord) (*model.ScoringResult, error) {
	if strings.TrimSpace(rec.Company) == "" {
		return nil, fmt.Errorf("%w: company identifier is required", ErrInvalidInput)
	}

	// Structured fields join the scan text alongside the research blocks.
	blocks := make([]string, 0, len(rec.TextBlocks)+1)
	blocks = append(blocks, rec.TextBlocks...)
	if rec.Firmographics.Industry != "" {
		blocks = append(blocks, rec.Firmographics.Industry)
	}
	matches := e.matcher.Match(blocks)

	categories := map[string]model.CategoryScore{
		model.CategoryDefense:       e.scoreDefense(rec, matches[model.CategoryDefense]),
		model.CategoryTechnology:    e.scoreTechnology(matches[model.CategoryTechnology]),
		model.CategoryCompliance:    e.scoreCompliance(matches[model.CategoryCompliance]),
		model.CategoryFirmographics: e.scoreFirmographics(rec.Firmographics),
	}

	composite := Aggregate(e.cfg.Weights, categories)
	tier := ClassifyTier(e.cfg.TierBands(), composite)

	result, err := BuildResult(rec.Company, categories, composite, tier, e.cfg.AlgorithmVersion, e.now().UTC())
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("company", rec.Company).
		Float64("composite", composite).
		Str("tier", string(tier)).
		Msg("company scored")

	return result, nil
}

// keywordPoints sums class points times occurrence count over the matches
// whose class is in the given set.
func (e *Engine) keywordPoints(matches []model.TermMatch, classes ...model.WeightClass) float64 {
	points := 0.0
	for _, m := range matches {
		for _, class := range classes {
			if m.Class == class {
				points += e.cfg.ClassPoints[class] * float64(m.Count)
				break
			}
		}
	}
	return points
}

// clamp applies the shared normalization rule: min(100, raw), never negative.
func clamp(raw float64) float64 {
	if raw > 100 {
		return 100
	}
	if raw < 0 {
		return 0
	}
	return raw
}

// containsAny reports whether the normalized label contains any allow-list
// entry. Used for short structured fields (industry, agency), not free text.
func containsAny(label string, allowList []string) bool {
	if label == "" {
		return false
	}
	normalized := match.Normalize(label)
	for _, entry := range allowList {
		if strings.Contains(normalized, match.Normalize(entry)) {
			return true
		}
	}
	return false
}
