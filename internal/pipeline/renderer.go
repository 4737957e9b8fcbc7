package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/atomustam/prospector/internal/model"
)

// Renderer writes scoring results as JSON, Markdown, and terminal summaries.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result as indented JSON.
func (r *Renderer) RenderJSON(result *model.ScoringResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable scoring report.
func (r *Renderer) RenderMarkdown(result *model.ScoringResult, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Prospect Score: %s\n\n", result.Company)
	fmt.Fprintf(&b, "**Composite:** %.2f / 100\n", result.Composite)
	fmt.Fprintf(&b, "**Tier:** %s\n", result.Tier)
	fmt.Fprintf(&b, "**Scored:** %s (algorithm %s)\n\n", result.GeneratedAt.Format("2006-01-02 15:04 UTC"), result.AlgorithmVersion)

	b.WriteString("## Category Breakdown\n\n")
	b.WriteString("| Category | Score | Raw Points |\n")
	b.WriteString("|----------|-------|------------|\n")
	for _, category := range model.Categories() {
		cs, ok := result.Category(category)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %.2f | %.2f |\n", categoryLabel(category), cs.Normalized, cs.RawPoints)
	}
	b.WriteString("\n")

	if terms := allMatchedTerms(result); len(terms) > 0 {
		b.WriteString("## Matched Signals\n\n")
		for _, t := range terms {
			fmt.Fprintf(&b, "- %s\n", t)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString("Generated by prospector. Scores reflect keyword and firmographic evidence, not a purchase decision.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// RenderSummary prints a short terminal summary.
func (r *Renderer) RenderSummary(result *model.ScoringResult) {
	fmt.Printf("\n%s\n", result.Company)
	fmt.Printf("  Composite: %.2f  Tier: %s\n", result.Composite, result.Tier)
	for _, category := range model.Categories() {
		if cs, ok := result.Category(category); ok {
			fmt.Printf("  %-22s %6.2f\n", categoryLabel(category)+":", cs.Normalized)
		}
	}
}

func categoryLabel(category string) string {
	switch category {
	case model.CategoryDefense:
		return "Defense Contract"
	case model.CategoryTechnology:
		return "Technology Relevance"
	case model.CategoryCompliance:
		return "Compliance Indicators"
	case model.CategoryFirmographics:
		return "Firmographics"
	default:
		return category
	}
}

func allMatchedTerms(result *model.ScoringResult) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, category := range model.Categories() {
		cs, ok := result.Category(category)
		if !ok {
			continue
		}
		for _, m := range cs.Matches {
			label := fmt.Sprintf("%s (%s, ×%d)", m.Term, m.Class, m.Count)
			if !seen[label] {
				seen[label] = true
				terms = append(terms, label)
			}
		}
	}
	sort.Strings(terms)
	return terms
}
