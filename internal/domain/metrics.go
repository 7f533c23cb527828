package domain

// StageSummary aggregates the deals sitting in one stage.
type StageSummary struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// AggregateMetrics summarizes a full evaluated opportunity set. It is
// recomputed from scratch on every aggregation; there is no incremental
// state. The zero-input case is well defined: all sums are 0,
// AvgDaysInStage is 0, StageSummary is empty, and RiskDistribution carries
// all three levels with count 0.
type AggregateMetrics struct {
	TotalOpportunities int                     `json:"total_opportunities"`
	TotalPipeline      float64                 `json:"total_pipeline"`
	WeightedPipeline   float64                 `json:"weighted_pipeline"`
	AvgDaysInStage     float64                 `json:"avg_days_in_stage"`
	StageSummary       map[string]StageSummary `json:"stage_summary"`
	RiskDistribution   map[RiskLevel]int       `json:"risk_distribution"`
}
