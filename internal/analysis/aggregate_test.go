package analysis

import (
	"testing"

	"github.com/Shriya-Guptaa/Regulatory-Compliance-Checker/internal/domain"
)

func recordsWithLevels(levels ...domain.RiskLevel) []domain.ClauseRecord {
	out := make([]domain.ClauseRecord, len(levels))
	for i, lvl := range levels {
		out[i] = domain.ClauseRecord{ClauseID: "c", RiskLevel: lvl}
	}
	return out
}

func TestAggregateEmpty(t *testing.T) {
	m := Aggregate(nil)

	if m.TotalClauses != 0 {
		t.Fatalf("total: %d", m.TotalClauses)
	}
	if m.ComplianceRatePercent != 0 {
		t.Fatalf("compliance rate: %v", m.ComplianceRatePercent)
	}
	if m.AverageRiskScorePercent != 0 {
		t.Fatalf("avg risk: %v", m.AverageRiskScorePercent)
	}
	if m.Recommendation != Acceptable {
		t.Fatalf("recommendation: %q", m.Recommendation)
	}
	for _, lvl := range []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh} {
		if n, ok := m.RiskCounts[lvl]; !ok || n != 0 {
			t.Fatalf("risk count for %s missing or nonzero: %d (present=%v)", lvl, n, ok)
		}
	}
}

func TestAggregateMixedScenario(t *testing.T) {
	m := Aggregate(recordsWithLevels(domain.RiskHigh, domain.RiskMedium, domain.RiskLow, domain.RiskLow))

	if m.RiskCounts[domain.RiskHigh] != 1 || m.RiskCounts[domain.RiskMedium] != 1 || m.RiskCounts[domain.RiskLow] != 2 {
		t.Fatalf("unexpected counts: %v", m.RiskCounts)
	}
	if m.ComplianceRatePercent != 50 {
		t.Fatalf("compliance rate: %v", m.ComplianceRatePercent)
	}
	if m.HighRiskCount != 1 {
		t.Fatalf("high risk count: %d", m.HighRiskCount)
	}
	if m.Recommendation != Reject {
		t.Fatalf("recommendation: %q", m.Recommendation)
	}
}

func TestAggregateIgnoresUnknownRiskLevels(t *testing.T) {
	m := Aggregate(recordsWithLevels(domain.RiskHigh, domain.RiskLevel("Critical"), domain.RiskLevel(""), domain.RiskLow))

	if len(m.RiskCounts) != 3 {
		t.Fatalf("stray risk count keys: %v", m.RiskCounts)
	}
	if m.RiskCounts[domain.RiskHigh] != 1 || m.RiskCounts[domain.RiskMedium] != 0 || m.RiskCounts[domain.RiskLow] != 1 {
		t.Fatalf("unexpected counts: %v", m.RiskCounts)
	}
	if m.TotalClauses != 4 {
		t.Fatalf("total: %d", m.TotalClauses)
	}
	if m.Recommendation != Reject {
		t.Fatalf("recommendation: %q", m.Recommendation)
	}
}

func TestAggregateMediumMajority(t *testing.T) {
	// 3 of 5 medium: strictly more than half, so review.
	m := Aggregate(recordsWithLevels(domain.RiskMedium, domain.RiskMedium, domain.RiskMedium, domain.RiskLow, domain.RiskLow))
	if m.Recommendation != ReviewRecommended {
		t.Fatalf("recommendation: %q", m.Recommendation)
	}

	// Exactly half is not a majority.
	m = Aggregate(recordsWithLevels(domain.RiskMedium, domain.RiskMedium, domain.RiskLow, domain.RiskLow))
	if m.Recommendation != Acceptable {
		t.Fatalf("recommendation at exactly half medium: %q", m.Recommendation)
	}
}

func TestAggregateAllLow(t *testing.T) {
	m := Aggregate(recordsWithLevels(domain.RiskLow, domain.RiskLow, domain.RiskLow))
	if m.Recommendation != Acceptable {
		t.Fatalf("recommendation: %q", m.Recommendation)
	}
	if m.ComplianceRatePercent != 100 || m.CompliantCount != 3 {
		t.Fatalf("compliance: rate=%v count=%d", m.ComplianceRatePercent, m.CompliantCount)
	}
}

func TestRecommendationPrecedence(t *testing.T) {
	// One high among a medium majority must still reject.
	levels := []domain.RiskLevel{domain.RiskHigh}
	for i := 0; i < 9; i++ {
		levels = append(levels, domain.RiskMedium)
	}
	m := Aggregate(recordsWithLevels(levels...))
	if m.Recommendation != Reject {
		t.Fatalf("high-risk record set must reject, got %q", m.Recommendation)
	}
}

func TestAverageRiskScoreSkipsUnparseable(t *testing.T) {
	records := []domain.ClauseRecord{
		{RiskLevel: domain.RiskHigh, RiskPercent: "42%"},
		{RiskLevel: domain.RiskMedium, RiskPercent: " 7 % "},
		{RiskLevel: domain.RiskLow, RiskPercent: "abc"},
	}
	m := Aggregate(records)

	// "abc" is excluded from numerator and denominator: (42+7)/2.
	if got, want := m.AverageRiskScorePercent, 24.5; got != want {
		t.Fatalf("avg risk: got %v want %v", got, want)
	}
}

func TestAverageRiskScoreAllUnparseable(t *testing.T) {
	records := []domain.ClauseRecord{
		{RiskLevel: domain.RiskLow, RiskPercent: ""},
		{RiskLevel: domain.RiskLow, RiskPercent: "n/a"},
	}
	if m := Aggregate(records); m.AverageRiskScorePercent != 0 {
		t.Fatalf("avg risk should be 0 when nothing parses: %v", m.AverageRiskScorePercent)
	}
}

func TestParseRiskPercent(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42%", 42, true},
		{" 7 % ", 7, true},
		{"12.5%", 12.5, true},
		{"80", 80, true},
		{"abc", 0, false},
		{"%", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseRiskPercent(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseRiskPercent(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSummaryFlags(t *testing.T) {
	records := []domain.ClauseRecord{
		{RiskLevel: domain.RiskLow, RegulationTags: "GDPR Art. 17", KeyClauses: "Limitation of Liability"},
		{RiskLevel: domain.RiskLow, RegulationTags: "HIPAA"},
	}
	m := Aggregate(records)
	if !m.HasGDPRFindings || !m.HasHIPAAFindings || !m.MentionsLiability {
		t.Fatalf("flags: gdpr=%v hipaa=%v liability=%v", m.HasGDPRFindings, m.HasHIPAAFindings, m.MentionsLiability)
	}

	// Tag match is case-sensitive as emitted; key-clause match is not.
	m = Aggregate([]domain.ClauseRecord{{RiskLevel: domain.RiskLow, RegulationTags: "gdpr", KeyClauses: "LIABILITY cap"}})
	if m.HasGDPRFindings {
		t.Fatal("lowercase gdpr tag must not match")
	}
	if !m.MentionsLiability {
		t.Fatal("liability match should be case-insensitive")
	}
}

func TestRewriteCandidatesPreserveOrder(t *testing.T) {
	records := []domain.ClauseRecord{
		{ClauseID: "1", RiskLevel: domain.RiskLow},
		{ClauseID: "2", RiskLevel: domain.RiskHigh},
		{ClauseID: "3", RiskLevel: domain.RiskMedium},
		{ClauseID: "4", RiskLevel: domain.RiskLow},
		{ClauseID: "5", RiskLevel: domain.RiskHigh},
	}
	got := RewriteCandidates(records)
	if len(got) != 3 || got[0].ClauseID != "2" || got[1].ClauseID != "3" || got[2].ClauseID != "5" {
		t.Fatalf("unexpected candidates: %+v", got)
	}
}

func TestInsights(t *testing.T) {
	m := Metrics{HasGDPRFindings: true, HighRiskCount: 1, MentionsLiability: true}
	points := SummaryPoints(m)
	if len(points) != 2 {
		t.Fatalf("unexpected summary points: %v", points)
	}
	recs := KeyConsiderations(m)
	if len(recs) != 2 || recs[0] != "Update retention policy to match GDPR timelines." {
		t.Fatalf("unexpected considerations: %v", recs)
	}
	if got := KeyConsiderations(Metrics{}); len(got) != 0 {
		t.Fatalf("clean metrics should yield no considerations: %v", got)
	}
}
