package model

import "time"

// WeightClass classifies how strongly a taxonomy term signals product need.
type WeightClass string

const (
	ClassPrimary     WeightClass = "primary"
	ClassSecondary   WeightClass = "secondary"
	ClassSpecialized WeightClass = "specialized"
)

// Scoring category names. These are fixed: the aggregator weights are keyed
// by them and the engine always emits exactly these four sub-scores.
const (
	CategoryDefense       = "defense_contract"
	CategoryTechnology    = "technology_relevance"
	CategoryCompliance    = "compliance_indicators"
	CategoryFirmographics = "firmographics"
)

// Categories returns the four scoring categories in report order.
func Categories() []string {
	return []string{CategoryDefense, CategoryTechnology, CategoryCompliance, CategoryFirmographics}
}

// TermMatch is one taxonomy term found in a company's evidence text.
type TermMatch struct {
	Term  string      `json:"term"`
	Class WeightClass `json:"class"`
	Count int         `json:"count"` // Occurrences in the normalized text
}

// CategoryScore is the per-category scoring breakdown.
// Normalized is always clamped to [0,100]; RawPoints may exceed 100.
type CategoryScore struct {
	Category   string      `json:"category"`
	RawPoints  float64     `json:"raw_points"`
	Normalized float64     `json:"normalized"`
	Matches    []TermMatch `json:"matches,omitempty"`
}

// Tier is the discrete priority bucket assigned from the composite score.
type Tier string

const (
	Tier1        Tier = "TIER_1"
	Tier2        Tier = "TIER_2"
	Tier3        Tier = "TIER_3"
	Tier4        Tier = "TIER_4"
	TierExcluded Tier = "EXCLUDED"
)

// ScoringResult is the output entity handed to the CRM-sync layer.
// It is never mutated after construction; the engine keeps no reference.
type ScoringResult struct {
	Company          string                   `json:"company"`
	Composite        float64                  `json:"composite"` // Weighted total, 0-100
	Tier             Tier                     `json:"tier"`
	Categories       map[string]CategoryScore `json:"categories"`
	AlgorithmVersion string                   `json:"algorithm_version"`
	GeneratedAt      time.Time                `json:"generated_at"`
}

// Category returns the sub-score for the named category.
func (r *ScoringResult) Category(name string) (CategoryScore, bool) {
	cs, ok := r.Categories[name]
	return cs, ok
}

// MatchedTerms returns all matched term strings for the named category.
func (r *ScoringResult) MatchedTerms(category string) []string {
	cs, ok := r.Categories[category]
	if !ok {
		return nil
	}
	terms := make([]string, 0, len(cs.Matches))
	for _, m := range cs.Matches {
		terms = append(terms, m.Term)
	}
	return terms
}
