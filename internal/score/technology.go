package score

import "github.com/atomustam/prospector/internal/model"

// scoreTechnology is purely keyword-driven: primary, secondary and
// specialized hits weighted per class, no structured-field input.
func (e *Engine) scoreTechnology(matches []model.TermMatch) model.CategoryScore {
	raw := e.keywordPoints(matches, model.ClassPrimary, model.ClassSecondary, model.ClassSpecialized)

	return model.CategoryScore{
		Category:   model.CategoryTechnology,
		RawPoints:  raw,
		Normalized: clamp(raw),
		Matches:    matches,
	}
}
