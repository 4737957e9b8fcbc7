package model

import "time"

// EvidenceRecord is the complete research bundle for one company.
// It is assembled by the data-acquisition collaborators and treated as
// immutable by the scoring engine.
type EvidenceRecord struct {
	Company    string   `json:"company" yaml:"company"`                           // Company identifier (required, unique per run)
	TextBlocks []string `json:"text_blocks,omitempty" yaml:"text_blocks"`         // Free-text research content (may be empty)
	CRMID      string   `json:"crm_id,omitempty" yaml:"crm_id"`                   // Optional CRM object id for sync
	CageCode   string   `json:"cage_code,omitempty" yaml:"cage_code"`             // Optional CAGE code
	DunsNumber string   `json:"duns_number,omitempty" yaml:"duns_number"`         // Optional DUNS number

	Firmographics   Firmographics   `json:"firmographics,omitempty" yaml:"firmographics"`
	ContractHistory []ContractAward `json:"contract_history,omitempty" yaml:"contract_history"`
}

// Firmographics holds the structured company facts. Zero values mean
// "unknown" and score no points; absence is never an error.
type Firmographics struct {
	EmployeeCount int     `json:"employee_count,omitempty" yaml:"employee_count"`
	AnnualRevenue float64 `json:"annual_revenue,omitempty" yaml:"annual_revenue"`
	Industry      string  `json:"industry,omitempty" yaml:"industry"`
	Country       string  `json:"country,omitempty" yaml:"country"`
}

// ContractAward is one past government award fact.
type ContractAward struct {
	Amount float64   `json:"amount" yaml:"amount"`
	Agency string    `json:"agency" yaml:"agency"`
	Date   time.Time `json:"date" yaml:"date"`
}

// HasText reports whether the record carries any non-empty research text.
func (r EvidenceRecord) HasText() bool {
	for _, block := range r.TextBlocks {
		if block != "" {
			return true
		}
	}
	return false
}
