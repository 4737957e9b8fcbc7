package score

import "github.com/atomustam/prospector/internal/model"

// scoreCompliance is keyword-driven with one non-linear rule: matching two
// or more distinct specialized compliance terms adds the configured
// co-occurrence bonus on top of the linear keyword sum. The rule lives in
// cooccurrenceBonus so the documented bonus value cannot drift silently.
func (e *Engine) scoreCompliance(matches []model.TermMatch) model.CategoryScore {
	raw := e.keywordPoints(matches, model.ClassPrimary, model.ClassSecondary, model.ClassSpecialized)
	raw += e.cooccurrenceBonus(matches)

	return model.CategoryScore{
		Category:   model.CategoryCompliance,
		RawPoints:  raw,
		Normalized: clamp(raw),
		Matches:    matches,
	}
}

// cooccurrenceBonus returns the fixed bonus when at least the configured
// number of distinct specialized terms matched, and zero otherwise.
// Distinctness is by term, not by occurrence count.
func (e *Engine) cooccurrenceBonus(matches []model.TermMatch) float64 {
	distinct := 0
	for _, m := range matches {
		if m.Class == model.ClassSpecialized {
			distinct++
		}
	}
	if distinct >= e.cfg.Compliance.CooccurrenceMinTerms {
		return e.cfg.Compliance.CooccurrenceBonus
	}
	return 0
}
