package domain

// RiskLevel is the three-way classification the analyzer assigns to a clause.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ClauseRecord is one analyzed contract clause. Records are produced wholesale
// by the analyzer and are immutable for the lifetime of a run; slice order is
// the analyzer's insertion order and is preserved everywhere downstream.
type ClauseRecord struct {
	ClauseID            string    `json:"clause_id"`
	ClauseText          string    `json:"clause_text"`
	RiskLevel           RiskLevel `json:"risk_level"`
	RiskPercent         string    `json:"risk_percent"` // e.g. "42%", as emitted by the analyzer
	RegulationTags      string    `json:"regulation"`
	Summary             string    `json:"summary"`
	KeyClauses          string    `json:"key_clauses"`
	AIModifiedClause    string    `json:"ai_modified_clause"`
	AIModifiedRiskLevel RiskLevel `json:"ai_modified_risk_level"`
}
