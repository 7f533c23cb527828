// Package analytics reduces a fully evaluated opportunity set into
// pipeline-wide metrics. Aggregation is a single linear pass, commutative
// over the input set, and defined for the empty set (all zeroes, with all
// three risk levels present in the distribution).
package analytics

import (
	"github.com/ignite/pipeline-monitor/internal/domain"
)

// Aggregate computes pipeline KPIs, per-stage summaries, and the risk
// distribution for the given insights. Weighted pipeline uses the
// normalized probability, never the raw input encoding. Stage summaries
// group by the literal stage string, case-sensitive.
func Aggregate(insights []domain.Insight) domain.AggregateMetrics {
	metrics := domain.AggregateMetrics{
		TotalOpportunities: len(insights),
		StageSummary:       make(map[string]domain.StageSummary),
		RiskDistribution: map[domain.RiskLevel]int{
			domain.RiskLow:    0,
			domain.RiskMedium: 0,
			domain.RiskHigh:   0,
		},
	}

	var totalDays int
	for _, in := range insights {
		opp := in.Opportunity
		metrics.TotalPipeline += opp.Amount
		metrics.WeightedPipeline += opp.Amount * opp.Probability
		totalDays += opp.DaysInStage

		summary := metrics.StageSummary[opp.Stage]
		summary.Count++
		summary.TotalAmount += opp.Amount
		metrics.StageSummary[opp.Stage] = summary

		metrics.RiskDistribution[in.Risk.Level]++
	}

	if len(insights) > 0 {
		metrics.AvgDaysInStage = float64(totalDays) / float64(len(insights))
	}

	return metrics
}
