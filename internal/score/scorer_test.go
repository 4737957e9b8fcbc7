package score

import (
	"strings"
	"testing"
	"time"

	"github.com/atomustam/prospector/internal/model"
)

// fixedNow keeps recency checks stable across test runs.
var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(&model.DefaultConfig().Scoring)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.now = func() time.Time { return fixedNow }
	return engine
}

func mustScore(t *testing.T, e *Engine, rec model.EvidenceRecord) *model.ScoringResult {
	t.Helper()
	result, err := e.Score(rec)
	if err != nil {
		t.Fatalf("Score(%s): %v", rec.Company, err)
	}
	return result
}

func TestScoreDefense_ContractFacts(t *testing.T) {
	e := newTestEngine(t)
	cfg := e.cfg.Defense

	t.Run("no history scores zero", func(t *testing.T) {
		result := mustScore(t, e, model.EvidenceRecord{Company: "acme"})
		if got := result.Categories[model.CategoryDefense].Normalized; got != 0 {
			t.Errorf("defense = %v, want 0", got)
		}
	})

	t.Run("old civilian award scores base only", func(t *testing.T) {
		result := mustScore(t, e, model.EvidenceRecord{
			Company: "acme",
			ContractHistory: []model.ContractAward{
				{Amount: 100000, Agency: "General Services Administration", Date: fixedNow.AddDate(-10, 0, 0)},
			},
		})
		if got := result.Categories[model.CategoryDefense].Normalized; got != cfg.ContractBase {
			t.Errorf("defense = %v, want %v", got, cfg.ContractBase)
		}
	})

	t.Run("recent defense award earns both bonuses", func(t *testing.T) {
		result := mustScore(t, e, model.EvidenceRecord{
			Company: "acme",
			ContractHistory: []model.ContractAward{
				{Amount: 2_500_000, Agency: "Department of Defense", Date: fixedNow.AddDate(0, -6, 0)},
			},
		})
		want := cfg.ContractBase + cfg.RecencyBonus + cfg.AgencyBonus
		if got := result.Categories[model.CategoryDefense].Normalized; got != want {
			t.Errorf("defense = %v, want %v", got, want)
		}
	})

	t.Run("identifiers add points", func(t *testing.T) {
		result := mustScore(t, e, model.EvidenceRecord{
			Company:    "acme",
			CageCode:   "1ABC2",
			DunsNumber: "123456789",
		})
		want := cfg.CageBonus + cfg.DunsBonus
		if got := result.Categories[model.CategoryDefense].Normalized; got != want {
			t.Errorf("defense = %v, want %v", got, want)
		}
	})

	t.Run("keyword points capped", func(t *testing.T) {
		// 10 secondary hits at 7 points each would be 70 uncapped.
		result := mustScore(t, e, model.EvidenceRecord{
			Company:    "acme",
			TextBlocks: []string{strings.Repeat("defense military ", 5)},
		})
		if got := result.Categories[model.CategoryDefense].Normalized; got != cfg.KeywordCap {
			t.Errorf("defense = %v, want keyword cap %v", got, cfg.KeywordCap)
		}
	})
}

func TestScoreTechnology_KeywordsOnly(t *testing.T) {
	e := newTestEngine(t)

	result := mustScore(t, e, model.EvidenceRecord{
		Company:    "acme",
		TextBlocks: []string{"hypersonic propulsion and RF payloads"},
	})

	// hypersonic 10 + propulsion 10 + rf 10.
	if got := result.Categories[model.CategoryTechnology].Normalized; got != 30 {
		t.Errorf("technology = %v, want 30", got)
	}

	// Contract history must not move the technology score.
	withAward := mustScore(t, e, model.EvidenceRecord{
		Company:    "acme",
		TextBlocks: []string{"hypersonic propulsion and RF payloads"},
		ContractHistory: []model.ContractAward{
			{Amount: 1, Agency: "Department of Defense", Date: fixedNow},
		},
	})
	if got := withAward.Categories[model.CategoryTechnology].Normalized; got != 30 {
		t.Errorf("technology with award = %v, want 30", got)
	}
}

func TestScoreCompliance_CooccurrenceBonus(t *testing.T) {
	e := newTestEngine(t)

	one := mustScore(t, e, model.EvidenceRecord{
		Company:    "acme",
		TextBlocks: []string{"working toward CMMC"},
	})
	two := mustScore(t, e, model.EvidenceRecord{
		Company:    "acme",
		TextBlocks: []string{"working toward CMMC and DFARS"},
	})

	oneScore := one.Categories[model.CategoryCompliance].Normalized
	twoScore := two.Categories[model.CategoryCompliance].Normalized

	if oneScore != 10 {
		t.Errorf("single specialized term = %v, want 10 (no bonus)", oneScore)
	}
	// Two distinct specialized terms: 20 linear + 25 bonus.
	if twoScore != 45 {
		t.Errorf("two specialized terms = %v, want 45 (bonus applied)", twoScore)
	}
	if twoScore <= oneScore {
		t.Errorf("co-occurrence must score strictly higher: %v <= %v", twoScore, oneScore)
	}
}

func TestScoreCompliance_RepeatedTermIsNotCooccurrence(t *testing.T) {
	e := newTestEngine(t)

	result := mustScore(t, e, model.EvidenceRecord{
		Company:    "acme",
		TextBlocks: []string{"CMMC CMMC CMMC"},
	})

	// 3 occurrences x 10 points, no bonus: distinctness is by term.
	if got := result.Categories[model.CategoryCompliance].Normalized; got != 30 {
		t.Errorf("compliance = %v, want 30", got)
	}
}

func TestScoreFirmographics_StructuredOnly(t *testing.T) {
	e := newTestEngine(t)

	t.Run("unknown fields score zero", func(t *testing.T) {
		result := mustScore(t, e, model.EvidenceRecord{Company: "acme"})
		if got := result.Categories[model.CategoryFirmographics].Normalized; got != 0 {
			t.Errorf("firmographics = %v, want 0", got)
		}
	})

	t.Run("bands and bonuses add up", func(t *testing.T) {
		result := mustScore(t, e, model.EvidenceRecord{
			Company: "acme",
			Firmographics: model.Firmographics{
				EmployeeCount: 120,              // 51-250 band: 25
				AnnualRevenue: 20_000_000,       // 10M-50M band: 25
				Industry:      "Aerospace Parts Manufacturing", // aerospace: 15
				Country:       "United States",  // +5
			},
		})
		if got := result.Categories[model.CategoryFirmographics].Normalized; got != 70 {
			t.Errorf("firmographics = %v, want 70", got)
		}
	})

	t.Run("keywords never reach firmographics", func(t *testing.T) {
		result := mustScore(t, e, model.EvidenceRecord{
			Company:    "acme",
			TextBlocks: []string{"cmmc dfars hypersonic defense"},
		})
		fs := result.Categories[model.CategoryFirmographics]
		if fs.Normalized != 0 || len(fs.Matches) != 0 {
			t.Errorf("firmographics picked up keyword evidence: %+v", fs)
		}
	})
}

func TestClampingLaw(t *testing.T) {
	e := newTestEngine(t)

	// 5 distinct specialized terms x 6 occurrences x 10 points = 300 raw.
	result := mustScore(t, e, model.EvidenceRecord{
		Company:    "acme",
		TextBlocks: []string{strings.Repeat("cmmc dfars itar fedramp cui ", 6)},
	})

	cs := result.Categories[model.CategoryCompliance]
	if cs.RawPoints <= 100 {
		t.Fatalf("test needs raw points above 100, got %v", cs.RawPoints)
	}
	if cs.Normalized != 100 {
		t.Errorf("normalized = %v, want clamp to 100", cs.Normalized)
	}
}

func TestAggregate_WeightedSum(t *testing.T) {
	weights := model.DefaultConfig().Scoring.Weights

	categories := map[string]model.CategoryScore{
		model.CategoryDefense:       {Normalized: 100},
		model.CategoryTechnology:    {Normalized: 100},
		model.CategoryCompliance:    {Normalized: 100},
		model.CategoryFirmographics: {Normalized: 100},
	}
	if got := Aggregate(weights, categories); got != 100 {
		t.Errorf("all-100 composite = %v, want 100", got)
	}

	categories = map[string]model.CategoryScore{
		model.CategoryDefense:       {Normalized: 80},
		model.CategoryTechnology:    {Normalized: 60},
		model.CategoryCompliance:    {Normalized: 40},
		model.CategoryFirmographics: {Normalized: 20},
	}
	// 0.35*80 + 0.30*60 + 0.25*40 + 0.10*20 = 58
	got := Aggregate(weights, categories)
	if got < 57.999 || got > 58.001 {
		t.Errorf("composite = %v, want 58", got)
	}
}
