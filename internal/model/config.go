package model

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// weightEpsilon is the tolerance when checking that category weights sum to 1.
const weightEpsilon = 1e-6

// ConfigError describes a malformed or inconsistent configuration.
// Configuration errors are fatal: scoring must not proceed past one.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Config is the complete application configuration. It is an explicitly
// constructed value passed into every component - never a hidden global -
// so multiple configurations can coexist in one process.
type Config struct {
	Scoring     ScoringConfig     `yaml:"scoring"`
	Research    ResearchConfig    `yaml:"research"`
	Contracts   ContractsConfig   `yaml:"contracts"`
	CRM         CRMConfig         `yaml:"crm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// ScoringConfig holds every constant the engine uses. All scoring magic
// numbers live here, not in code.
type ScoringConfig struct {
	AlgorithmVersion string                    `yaml:"algorithm_version"`
	Weights          map[string]float64        `yaml:"weights"`      // category -> weight, must sum to 1.0
	ClassPoints      map[WeightClass]float64   `yaml:"class_points"` // weight-class -> points per occurrence
	Taxonomy         map[string][]TaxonomyTerm `yaml:"taxonomy"`     // category -> weighted terms
	Defense          DefenseConfig             `yaml:"defense"`
	Compliance       ComplianceConfig          `yaml:"compliance"`
	Firmographics    FirmographicsConfig       `yaml:"firmographics"`
	Tiers            []TierBand                `yaml:"tiers"`
}

// TaxonomyTerm is one (term, weight-class) taxonomy entry.
type TaxonomyTerm struct {
	Term  string      `yaml:"term"`
	Class WeightClass `yaml:"class"`
}

// TierBand maps a tier to the lower bound of its score band. Bands are
// closed-lower/open-upper; the best tier is additionally closed at 100.
type TierBand struct {
	Tier     Tier    `yaml:"tier"`
	MinScore float64 `yaml:"min_score"`
}

// DefenseConfig holds the Defense-Contract scorer constants.
type DefenseConfig struct {
	ContractBase        float64  `yaml:"contract_base"`         // Any past award
	RecencyBonus        float64  `yaml:"recency_bonus"`         // Award within the recency window
	RecencyWindowMonths int      `yaml:"recency_window_months"` //
	AgencyBonus         float64  `yaml:"agency_bonus"`          // Award from a defense agency
	Agencies            []string `yaml:"agencies"`              // Defense agency allow-list (substring match)
	CageBonus           float64  `yaml:"cage_bonus"`
	DunsBonus           float64  `yaml:"duns_bonus"`
	IndustryBonus       float64  `yaml:"industry_bonus"`
	Industries          []string `yaml:"industries"` // Defense industry allow-list (substring match)
	KeywordCap          float64  `yaml:"keyword_cap"`
}

// ComplianceConfig holds the Compliance-Indicators scorer constants.
// CooccurrenceBonus is the single non-linear rule in the model: it is added
// once when at least CooccurrenceMinTerms distinct specialized terms match.
type ComplianceConfig struct {
	CooccurrenceBonus    float64 `yaml:"cooccurrence_bonus"`
	CooccurrenceMinTerms int     `yaml:"cooccurrence_min_terms"`
}

// FirmographicsConfig holds the Firmographics scorer constants.
type FirmographicsConfig struct {
	EmployeeBands  []RangeBand      `yaml:"employee_bands"`
	RevenueBands   []RangeBand      `yaml:"revenue_bands"`
	IndustryPoints []IndustryPoints `yaml:"industry_points"` // Ordered: first match wins
	USBonus        float64          `yaml:"us_bonus"`
}

// RangeBand awards points when a numeric fact falls in [Min, Max].
type RangeBand struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Points float64 `yaml:"points"`
}

// IndustryPoints awards points when the industry label contains Name.
type IndustryPoints struct {
	Name   string  `yaml:"name"`
	Points float64 `yaml:"points"`
}

// ResearchConfig configures the LLM research-summary provider.
type ResearchConfig struct {
	Provider  string        `yaml:"provider"` // "openai" or "" (disabled)
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"-"` // From environment only, never serialized
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// ContractsConfig configures the award-history API client.
type ContractsConfig struct {
	Enabled           bool          `yaml:"enabled"`
	BaseURL           string        `yaml:"base_url"`
	APIKey            string        `yaml:"-"` // From environment only
	Timeout           time.Duration `yaml:"timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

// CRMConfig configures the CRM sync client.
type CRMConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"-"` // From environment only
	Timeout time.Duration `yaml:"timeout"`
}

// ConcurrencyConfig controls batch parallelism.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the documented default configuration. The scoring
// constants mirror the shipped scoring_config artifacts.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			AlgorithmVersion: "1.0",
			Weights: map[string]float64{
				CategoryDefense:       0.35,
				CategoryTechnology:    0.30,
				CategoryCompliance:    0.25,
				CategoryFirmographics: 0.10,
			},
			ClassPoints: map[WeightClass]float64{
				ClassPrimary:     10,
				ClassSecondary:   7,
				ClassSpecialized: 10,
			},
			Taxonomy: map[string][]TaxonomyTerm{
				CategoryDefense: {
					{Term: "defense manufacturing", Class: ClassPrimary},
					{Term: "weapons systems", Class: ClassPrimary},
					{Term: "prime contractor", Class: ClassPrimary},
					{Term: "defense", Class: ClassSecondary},
					{Term: "military", Class: ClassSecondary},
					{Term: "aerospace", Class: ClassSecondary},
					{Term: "dod", Class: ClassSecondary},
					{Term: "government contractor", Class: ClassSecondary},
					{Term: "foreign military sales", Class: ClassSpecialized},
					{Term: "mil-spec", Class: ClassSpecialized},
				},
				CategoryTechnology: {
					{Term: "hypersonic", Class: ClassPrimary},
					{Term: "nuclear", Class: ClassPrimary},
					{Term: "propulsion", Class: ClassPrimary},
					{Term: "engineering services", Class: ClassPrimary},
					{Term: "cybersecurity", Class: ClassPrimary},
					{Term: "drone", Class: ClassSecondary},
					{Term: "uas", Class: ClassSecondary},
					{Term: "uav", Class: ClassSecondary},
					{Term: "uuv", Class: ClassSecondary},
					{Term: "software", Class: ClassSecondary},
					{Term: "embedded", Class: ClassSecondary},
					{Term: "rf", Class: ClassSpecialized},
					{Term: "ew", Class: ClassSpecialized},
					{Term: "electronic warfare", Class: ClassSpecialized},
					{Term: "radar", Class: ClassSpecialized},
					{Term: "avionics", Class: ClassSpecialized},
				},
				CategoryCompliance: {
					{Term: "compliance", Class: ClassPrimary},
					{Term: "security clearance", Class: ClassPrimary},
					{Term: "certified", Class: ClassSecondary},
					{Term: "compliant", Class: ClassSecondary},
					{Term: "audit", Class: ClassSecondary},
					{Term: "assessment", Class: ClassSecondary},
					{Term: "accreditation", Class: ClassSecondary},
					{Term: "cmmc", Class: ClassSpecialized},
					{Term: "dfars", Class: ClassSpecialized},
					{Term: "nist 800-171", Class: ClassSpecialized},
					{Term: "itar", Class: ClassSpecialized},
					{Term: "fedramp", Class: ClassSpecialized},
					{Term: "cui", Class: ClassSpecialized},
				},
			},
			Defense: DefenseConfig{
				ContractBase:        40,
				RecencyBonus:        20,
				RecencyWindowMonths: 36,
				AgencyBonus:         25,
				Agencies: []string{
					"defense", "dod", "darpa", "navy", "army", "air force",
					"space force", "missile defense agency", "dla",
				},
				CageBonus:     10,
				DunsBonus:     5,
				IndustryBonus: 15,
				Industries:    []string{"defense", "aerospace", "military"},
				KeywordCap:    25,
			},
			Compliance: ComplianceConfig{
				CooccurrenceBonus:    25,
				CooccurrenceMinTerms: 2,
			},
			Firmographics: FirmographicsConfig{
				EmployeeBands: []RangeBand{
					{Min: 1, Max: 10, Points: 5},
					{Min: 11, Max: 50, Points: 15},
					{Min: 51, Max: 250, Points: 25},
					{Min: 251, Max: 1000, Points: 20},
					{Min: 1001, Max: 50000, Points: 10},
				},
				RevenueBands: []RangeBand{
					{Min: 1, Max: 1_000_000, Points: 5},
					{Min: 1_000_001, Max: 10_000_000, Points: 15},
					{Min: 10_000_001, Max: 50_000_000, Points: 25},
					{Min: 50_000_001, Max: 250_000_000, Points: 20},
					{Min: 250_000_001, Max: math.MaxFloat64, Points: 10},
				},
				IndustryPoints: []IndustryPoints{
					{Name: "aircraft", Points: 15},
					{Name: "aerospace", Points: 15},
					{Name: "defense", Points: 12},
					{Name: "engineering", Points: 12},
					{Name: "manufacturing", Points: 10},
					{Name: "technology", Points: 8},
					{Name: "software", Points: 8},
				},
				USBonus: 5,
			},
			Tiers: []TierBand{
				{Tier: Tier1, MinScore: 90},
				{Tier: Tier2, MinScore: 75},
				{Tier: Tier3, MinScore: 60},
				{Tier: Tier4, MinScore: 45},
				{Tier: TierExcluded, MinScore: 0},
			},
		},
		Research: ResearchConfig{
			Provider:  "", // Disabled by default
			Model:     "gpt-4o-mini",
			Timeout:   30 * time.Second,
			MaxTokens: 1000,
		},
		Contracts: ContractsConfig{
			Enabled:           false,
			BaseURL:           "https://api.highergov.com/v1",
			Timeout:           30 * time.Second,
			MaxBodyBytes:      2 << 20,
			RequestsPerSecond: 2,
			BurstSize:         5,
			CacheTTL:          time.Hour,
		},
		CRM: CRMConfig{
			Enabled: false,
			BaseURL: "https://api.hubapi.com",
			Timeout: 30 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults and
// validates the result. Scoring must not proceed if this fails.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the scoring configuration for the failure modes that make
// scoring unsafe: bad weights, a broken taxonomy, or malformed tier bands.
func (c *ScoringConfig) Validate() error {
	// Weights: exactly the four categories, summing to 1.0.
	sum := 0.0
	for _, category := range Categories() {
		w, ok := c.Weights[category]
		if !ok {
			return &ConfigError{Field: "weights", Reason: fmt.Sprintf("missing category %q", category)}
		}
		if w < 0 || w > 1 {
			return &ConfigError{Field: "weights", Reason: fmt.Sprintf("weight for %q out of [0,1]: %v", category, w)}
		}
		sum += w
	}
	if len(c.Weights) != len(Categories()) {
		return &ConfigError{Field: "weights", Reason: "unknown category present"}
	}
	if math.Abs(sum-1.0) > weightEpsilon {
		return &ConfigError{Field: "weights", Reason: fmt.Sprintf("weights sum to %v, want 1.0", sum)}
	}

	// Class points: all three classes defined and positive.
	for _, class := range []WeightClass{ClassPrimary, ClassSecondary, ClassSpecialized} {
		pts, ok := c.ClassPoints[class]
		if !ok {
			return &ConfigError{Field: "class_points", Reason: fmt.Sprintf("missing class %q", class)}
		}
		if pts <= 0 {
			return &ConfigError{Field: "class_points", Reason: fmt.Sprintf("points for %q must be positive", class)}
		}
	}

	// Taxonomy: the three keyword categories must exist and be non-empty;
	// a term may not appear twice in one category (conflicting classes or not).
	for _, category := range []string{CategoryDefense, CategoryTechnology, CategoryCompliance} {
		terms, ok := c.Taxonomy[category]
		if !ok || len(terms) == 0 {
			return &ConfigError{Field: "taxonomy", Reason: fmt.Sprintf("category %q is empty", category)}
		}
		seen := make(map[string]WeightClass, len(terms))
		for _, t := range terms {
			if t.Term == "" {
				return &ConfigError{Field: "taxonomy", Reason: fmt.Sprintf("empty term in category %q", category)}
			}
			switch t.Class {
			case ClassPrimary, ClassSecondary, ClassSpecialized:
			default:
				return &ConfigError{Field: "taxonomy", Reason: fmt.Sprintf("term %q has unknown class %q", t.Term, t.Class)}
			}
			if prev, dup := seen[t.Term]; dup {
				return &ConfigError{Field: "taxonomy", Reason: fmt.Sprintf("term %q appears twice in %q (classes %q and %q)", t.Term, category, prev, t.Class)}
			}
			seen[t.Term] = t.Class
		}
	}

	// Tier bands: all five tiers, strictly descending thresholds, contiguous
	// coverage of [0,100] with EXCLUDED anchored at 0.
	if len(c.Tiers) != 5 {
		return &ConfigError{Field: "tiers", Reason: fmt.Sprintf("want 5 tier bands, got %d", len(c.Tiers))}
	}
	bands := make([]TierBand, len(c.Tiers))
	copy(bands, c.Tiers)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinScore > bands[j].MinScore })
	seen := make(map[Tier]bool, len(bands))
	for i, band := range bands {
		if seen[band.Tier] {
			return &ConfigError{Field: "tiers", Reason: fmt.Sprintf("tier %q defined twice", band.Tier)}
		}
		seen[band.Tier] = true
		if band.MinScore < 0 || band.MinScore > 100 {
			return &ConfigError{Field: "tiers", Reason: fmt.Sprintf("tier %q threshold out of [0,100]: %v", band.Tier, band.MinScore)}
		}
		if i > 0 && band.MinScore >= bands[i-1].MinScore {
			return &ConfigError{Field: "tiers", Reason: "tier thresholds must be strictly descending"}
		}
	}
	if bands[len(bands)-1].MinScore != 0 {
		return &ConfigError{Field: "tiers", Reason: "lowest tier must start at 0 so every score maps to a tier"}
	}

	if c.Defense.RecencyWindowMonths <= 0 {
		return &ConfigError{Field: "defense.recency_window_months", Reason: "must be positive"}
	}
	if c.Compliance.CooccurrenceMinTerms < 2 {
		return &ConfigError{Field: "compliance.cooccurrence_min_terms", Reason: "must be at least 2"}
	}

	return nil
}

// TierBands returns the tier bands sorted by descending threshold, the
// order the classifier walks them in.
func (c *ScoringConfig) TierBands() []TierBand {
	bands := make([]TierBand, len(c.Tiers))
	copy(bands, c.Tiers)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinScore > bands[j].MinScore })
	return bands
}
