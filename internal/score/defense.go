package score

import "github.com/atomustam/prospector/internal/model"

// scoreDefense combines contract-history facts with primary/secondary
// keyword hits. Keyword points are capped before they join the raw total;
// the final clamp bounds the normalized score.
func (e *Engine) scoreDefense(rec model.EvidenceRecord, matches []model.TermMatch) model.CategoryScore {
	d := e.cfg.Defense
	raw := 0.0

	if len(rec.ContractHistory) > 0 {
		raw += d.ContractBase
		if e.hasRecentAward(rec.ContractHistory) {
			raw += d.RecencyBonus
		}
		if hasDefenseAgency(rec.ContractHistory, d.Agencies) {
			raw += d.AgencyBonus
		}
	}

	if rec.CageCode != "" {
		raw += d.CageBonus
	}
	if rec.DunsNumber != "" {
		raw += d.DunsBonus
	}
	if containsAny(rec.Firmographics.Industry, d.Industries) {
		raw += d.IndustryBonus
	}

	kw := e.keywordPoints(matches, model.ClassPrimary, model.ClassSecondary)
	if kw > d.KeywordCap {
		kw = d.KeywordCap
	}
	raw += kw

	return model.CategoryScore{
		Category:   model.CategoryDefense,
		RawPoints:  raw,
		Normalized: clamp(raw),
		Matches:    matches,
	}
}

// hasRecentAward reports whether any award falls inside the recency window.
func (e *Engine) hasRecentAward(awards []model.ContractAward) bool {
	cutoff := e.now().AddDate(0, -e.cfg.Defense.RecencyWindowMonths, 0)
	for _, award := range awards {
		if award.Date.After(cutoff) {
			return true
		}
	}
	return false
}

// hasDefenseAgency reports whether any award came from an allow-listed
// defense agency.
func hasDefenseAgency(awards []model.ContractAward, agencies []string) bool {
	for _, award := range awards {
		if containsAny(award.Agency, agencies) {
			return true
		}
	}
	return false
}
