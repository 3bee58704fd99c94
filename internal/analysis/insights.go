package analysis

// SummaryPoints returns the contract-summary bullet points shown under the
// dashboard and embedded in the digest. Deterministic in the metric flags.
func SummaryPoints(m Metrics) []string {
	var points []string
	if m.HasGDPRFindings {
		points = append(points, "Data retention terms conflict with GDPR.")
	}
	if m.HasHIPAAFindings {
		points = append(points, "Access control and encryption measures are compliant.")
	}
	if m.HighRiskCount > 0 {
		points = append(points, "Liability clause is missing, which may increase legal risks.")
	}
	return points
}

// KeyConsiderations returns the action items derived from the metric flags.
// An empty slice means every clause appears to be in good standing.
func KeyConsiderations(m Metrics) []string {
	var recs []string
	if m.HasGDPRFindings {
		recs = append(recs, "Update retention policy to match GDPR timelines.")
	}
	if m.MentionsLiability {
		recs = append(recs, "Include liability clause to reduce legal exposure.")
	}
	return recs
}
