// Package crm writes scoring results back to HubSpot company records so
// the sales pipeline can segment prospects by tier.
package crm

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atomustam/prospector/internal/model"
)

// FlattenResult maps a scoring result onto flat CRM property names. Scores
// are formatted with two decimals so repeated syncs of the same result are
// byte-identical.
func FlattenResult(result *model.ScoringResult) map[string]string {
	props := map[string]string{
		"tam_composite_score":   formatScore(result.Composite),
		"tam_tier":              string(result.Tier),
		"tam_algorithm_version": result.AlgorithmVersion,
		"tam_scored_at":         result.GeneratedAt.UTC().Format(time.RFC3339),
	}

	propNames := map[string]string{
		model.CategoryDefense:       "tam_defense_score",
		model.CategoryTechnology:    "tam_technology_score",
		model.CategoryCompliance:    "tam_compliance_score",
		model.CategoryFirmographics: "tam_firmographics_score",
	}
	for _, category := range model.Categories() {
		if cs, ok := result.Category(category); ok {
			props[propNames[category]] = formatScore(cs.Normalized)
		}
	}

	if terms := matchedTermList(result); terms != "" {
		props["tam_matched_keywords"] = terms
	}

	return props
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// matchedTermList joins every matched taxonomy term across categories,
// deduplicated and sorted.
func matchedTermList(result *model.ScoringResult) string {
	seen := make(map[string]bool)
	var terms []string
	for _, category := range model.Categories() {
		cs, ok := result.Category(category)
		if !ok {
			continue
		}
		for _, m := range cs.Matches {
			if !seen[m.Term] {
				seen[m.Term] = true
				terms = append(terms, m.Term)
			}
		}
	}
	sort.Strings(terms)
	return strings.Join(terms, ";")
}
