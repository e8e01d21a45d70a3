package metrics

// RecordScore records one batch of scored hazards for a classified trade.
func RecordScore(trade string, finalRisks []float64) {
	TradeClassifications.WithLabelValues(trade).Inc()
	HazardsScored.Add(float64(len(finalRisks)))
	for _, r := range finalRisks {
		FinalRisk.Observe(r)
	}
}

// RecordTriage records line counts for each triage stage.
func RecordTriage(input, duplicate, baseline, selected int) {
	TriageLines.WithLabelValues("input").Add(float64(input))
	TriageLines.WithLabelValues("duplicate").Add(float64(duplicate))
	TriageLines.WithLabelValues("baseline").Add(float64(baseline))
	TriageLines.WithLabelValues("selected").Add(float64(selected))
}

// RecordBackfill records lines added by fallback completion.
func RecordBackfill(template, generic int) {
	BackfillLines.WithLabelValues("template").Add(float64(template))
	BackfillLines.WithLabelValues("generic").Add(float64(generic))
}

// RulesetReloaded records a reload attempt: "success" or "failed".
func RulesetReloaded(ok bool) {
	if ok {
		RulesetReloads.WithLabelValues("success").Inc()
		return
	}
	RulesetReloads.WithLabelValues("failed").Inc()
}

// PhotoScored records the outcome of scoring one site photo.
func PhotoScored(status string) {
	PhotoScores.WithLabelValues(status).Inc()
}
