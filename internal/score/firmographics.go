package score

import (
	"strings"

	"github.com/atomustam/prospector/internal/model"
)

// scoreFirmographics is structured-field-driven only: employee-count band,
// revenue band, industry allow-list and US location. Keyword matches are
// ignored for this category, and unknown fields score zero.
func (e *Engine) scoreFirmographics(f model.Firmographics) model.CategoryScore {
	cfg := e.cfg.Firmographics
	raw := 0.0

	if f.EmployeeCount > 0 {
		raw += bandPoints(cfg.EmployeeBands, float64(f.EmployeeCount))
	}
	if f.AnnualRevenue > 0 {
		raw += bandPoints(cfg.RevenueBands, f.AnnualRevenue)
	}
	raw += industryPoints(cfg.IndustryPoints, f.Industry)
	if isUS(f.Country) {
		raw += cfg.USBonus
	}

	return model.CategoryScore{
		Category:   model.CategoryFirmographics,
		RawPoints:  raw,
		Normalized: clamp(raw),
	}
}

// bandPoints returns the points of the first band containing the value.
func bandPoints(bands []model.RangeBand, value float64) float64 {
	for _, band := range bands {
		if value >= band.Min && value <= band.Max {
			return band.Points
		}
	}
	return 0
}

// industryPoints awards the first allow-list entry contained in the
// industry label. The list is ordered, so the match is deterministic.
func industryPoints(entries []model.IndustryPoints, industry string) float64 {
	if industry == "" {
		return 0
	}
	for _, entry := range entries {
		if containsAny(industry, []string{entry.Name}) {
			return entry.Points
		}
	}
	return 0
}

// isUS recognizes the common spellings of a US location. The bare "us"
// label is compared exactly; containsAny would find it inside unrelated
// country names.
func isUS(country string) bool {
	if country == "" {
		return false
	}
	if strings.EqualFold(country, "us") {
		return true
	}
	return containsAny(country, []string{"united states", "usa"})
}
