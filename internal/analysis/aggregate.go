// Package analysis derives dashboard metrics and the accept/review/reject
// verdict from a run's clause records. Everything here is a pure function of
// its input; metrics are recomputed on demand and never cached, so a redraw
// can never show stale numbers.
package analysis

import (
	"strconv"
	"strings"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/domain"
)

// Recommendation is the three-way verdict over a full record set.
type Recommendation string

const (
	// Reject: at least one high-risk clause. Takes precedence over
	// everything else regardless of the medium-risk proportion.
	Reject Recommendation = "reject"
	// ReviewRecommended: medium-risk clauses form a strict majority.
	ReviewRecommended Recommendation = "review_recommended"
	// Acceptable: everything else, including an empty record set.
	Acceptable Recommendation = "acceptable"
)

// Metrics is the derived view of one record set.
type Metrics struct {
	TotalClauses            int                      `json:"total_clauses"`
	RiskCounts              map[domain.RiskLevel]int `json:"risk_counts"`
	CompliantCount          int                      `json:"compliant_count"`
	ComplianceRatePercent   float64                  `json:"compliance_rate_percent"`
	HighRiskCount           int                      `json:"high_risk_count"`
	AverageRiskScorePercent float64                  `json:"average_risk_score_percent"`
	Recommendation          Recommendation           `json:"recommendation"`

	// Summary flags consumed by the report and insight layers.
	HasGDPRFindings   bool `json:"has_gdpr_findings"`
	HasHIPAAFindings  bool `json:"has_hipaa_findings"`
	MentionsLiability bool `json:"mentions_liability"`
}

// MediumRiskCount is a convenience accessor over RiskCounts.
func (m Metrics) MediumRiskCount() int {
	return m.RiskCounts[domain.RiskMedium]
}

// LowRiskCount is a convenience accessor over RiskCounts.
func (m Metrics) LowRiskCount() int {
	return m.RiskCounts[domain.RiskLow]
}

// Aggregate computes metrics over records. Compliant means low risk. Records
// whose risk percent does not parse are excluded from the average entirely,
// numerator and denominator both; a record set where nothing parses averages
// to zero.
func Aggregate(records []domain.ClauseRecord) Metrics {
	m := Metrics{
		TotalClauses: len(records),
		RiskCounts: map[domain.RiskLevel]int{
			domain.RiskLow:    0,
			domain.RiskMedium: 0,
			domain.RiskHigh:   0,
		},
		Recommendation: Acceptable,
	}

	var riskSum float64
	var riskParsed int
	for _, r := range records {
		// Only the three canonical levels are counted; anything else the
		// analyzer emits must not leak into the payload as a stray key.
		if _, ok := m.RiskCounts[r.RiskLevel]; ok {
			m.RiskCounts[r.RiskLevel]++
		}
		if v, ok := ParseRiskPercent(r.RiskPercent); ok {
			riskSum += v
			riskParsed++
		}
		if strings.Contains(r.RegulationTags, "GDPR") {
			m.HasGDPRFindings = true
		}
		if strings.Contains(r.RegulationTags, "HIPAA") {
			m.HasHIPAAFindings = true
		}
		if strings.Contains(strings.ToLower(r.KeyClauses), "liability") {
			m.MentionsLiability = true
		}
	}

	m.CompliantCount = m.RiskCounts[domain.RiskLow]
	m.HighRiskCount = m.RiskCounts[domain.RiskHigh]
	if m.TotalClauses > 0 {
		m.ComplianceRatePercent = float64(m.CompliantCount) / float64(m.TotalClauses) * 100
	}
	if riskParsed > 0 {
		m.AverageRiskScorePercent = riskSum / float64(riskParsed)
	}

	// Precedence is a hard contract: any high-risk clause rejects, no matter
	// how many medium-risk clauses there are.
	switch {
	case m.HighRiskCount > 0:
		m.Recommendation = Reject
	case float64(m.RiskCounts[domain.RiskMedium]) > 0.5*float64(m.TotalClauses):
		m.Recommendation = ReviewRecommended
	default:
		m.Recommendation = Acceptable
	}

	return m
}

// ParseRiskPercent converts an analyzer risk-percent string like "42%" or
// " 7 % " to its numeric value. The boolean is false when the value does not
// parse; callers skip such records silently.
func ParseRiskPercent(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// RewriteCandidates returns the high and medium risk records, in their
// original order. This is the record subset handed to the PDF renderer for
// the rewritten-clauses export.
func RewriteCandidates(records []domain.ClauseRecord) []domain.ClauseRecord {
	var out []domain.ClauseRecord
	for _, r := range records {
		if r.RiskLevel == domain.RiskHigh || r.RiskLevel == domain.RiskMedium {
			out = append(out, r)
		}
	}
	return out
}
