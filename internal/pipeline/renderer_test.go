package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomustam/prospector/internal/model"
)

func renderedResult() *model.ScoringResult {
	return &model.ScoringResult{
		Company:   "Firestorm Labs",
		Composite: 80.25,
		Tier:      model.Tier2,
		Categories: map[string]model.CategoryScore{
			model.CategoryDefense: {
				Category: model.CategoryDefense, RawPoints: 92, Normalized: 92,
				Matches: []model.TermMatch{{Term: "dod", Class: model.ClassSecondary, Count: 1}},
			},
			model.CategoryTechnology: {
				Category: model.CategoryTechnology, RawPoints: 81, Normalized: 81,
				Matches: []model.TermMatch{{Term: "hypersonic", Class: model.ClassPrimary, Count: 2}},
			},
			model.CategoryCompliance: {
				Category: model.CategoryCompliance, RawPoints: 89, Normalized: 89,
				Matches: []model.TermMatch{{Term: "cmmc", Class: model.ClassSpecialized, Count: 1}},
			},
			model.CategoryFirmographics: {
				Category: model.CategoryFirmographics, RawPoints: 15, Normalized: 15,
			},
		},
		AlgorithmVersion: "1.0",
		GeneratedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderJSON_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")

	if err := NewRenderer(true).RenderJSON(renderedResult(), path); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var got model.ScoringResult
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if got.Company != "Firestorm Labs" || got.Tier != model.Tier2 || got.Composite != 80.25 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if len(got.Categories) != 4 {
		t.Errorf("expected 4 categories, got %d", len(got.Categories))
	}
}

func TestRenderMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.md")

	if err := NewRenderer(true).RenderMarkdown(renderedResult(), path); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# Prospect Score: Firestorm Labs",
		"**Composite:** 80.25 / 100",
		"**Tier:** TIER_2",
		"| Defense Contract | 92.00 | 92.00 |",
		"hypersonic (primary, ×2)",
		"Generated by prospector",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.md")

	if err := NewRenderer(false).RenderMarkdown(renderedResult(), path); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Generated by prospector") {
		t.Error("footer rendered when disabled")
	}
}
