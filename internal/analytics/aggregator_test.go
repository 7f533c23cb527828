package analytics

import (
	"math"
	"testing"

	"github.com/ignite/pipeline-monitor/internal/domain"
)

func insight(id, stage string, amount, probability float64, days int, level domain.RiskLevel) domain.Insight {
	return domain.Insight{
		Opportunity: domain.Opportunity{
			ID:          id,
			AccountName: "Acct",
			Stage:       stage,
			Amount:      amount,
			Probability: probability,
			DaysInStage: days,
		},
		Risk: domain.RiskAssessment{Level: level},
	}
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(nil)

	if m.TotalOpportunities != 0 || m.TotalPipeline != 0 || m.WeightedPipeline != 0 || m.AvgDaysInStage != 0 {
		t.Errorf("zero-set KPIs wrong: %+v", m)
	}
	if len(m.StageSummary) != 0 {
		t.Errorf("stage_summary = %v, want empty", m.StageSummary)
	}
	for _, level := range []domain.RiskLevel{domain.RiskLow, domain.RiskMedium, domain.RiskHigh} {
		count, ok := m.RiskDistribution[level]
		if !ok {
			t.Errorf("risk_distribution missing level %s", level)
		}
		if count != 0 {
			t.Errorf("risk_distribution[%s] = %d, want 0", level, count)
		}
	}
}

func TestAggregate_KPIs(t *testing.T) {
	insights := []domain.Insight{
		insight("O1", "Discovery", 10000, 0.5, 10, domain.RiskLow),
		insight("O2", "Proposal", 20000, 0.7, 10, domain.RiskMedium),
	}

	m := Aggregate(insights)

	if m.TotalOpportunities != 2 {
		t.Errorf("total_opportunities = %d, want 2", m.TotalOpportunities)
	}
	if m.TotalPipeline != 30000 {
		t.Errorf("total_pipeline = %v, want 30000", m.TotalPipeline)
	}
	wantWeighted := 10000*0.5 + 20000*0.7
	if math.Abs(m.WeightedPipeline-wantWeighted) > 1e-9 {
		t.Errorf("weighted_pipeline = %v, want %v", m.WeightedPipeline, wantWeighted)
	}
	if m.AvgDaysInStage != 10 {
		t.Errorf("avg_days_in_stage = %v, want 10", m.AvgDaysInStage)
	}
}

func TestAggregate_StageSummary(t *testing.T) {
	insights := []domain.Insight{
		insight("O1", "Proposal", 1000, 0.5, 5, domain.RiskLow),
		insight("O2", "Proposal", 2000, 0.5, 5, domain.RiskLow),
		insight("O3", "Discovery", 500, 0.5, 5, domain.RiskLow),
	}

	m := Aggregate(insights)

	proposal := m.StageSummary["Proposal"]
	if proposal.Count != 2 || proposal.TotalAmount != 3000 {
		t.Errorf("stage_summary[Proposal] = %+v, want {2 3000}", proposal)
	}
	discovery := m.StageSummary["Discovery"]
	if discovery.Count != 1 || discovery.TotalAmount != 500 {
		t.Errorf("stage_summary[Discovery] = %+v, want {1 500}", discovery)
	}
	if len(m.StageSummary) != 2 {
		t.Errorf("stage_summary has %d keys, want 2", len(m.StageSummary))
	}
}

func TestAggregate_StageSummaryIsCaseSensitive(t *testing.T) {
	insights := []domain.Insight{
		insight("O1", "proposal", 1000, 0.5, 5, domain.RiskLow),
		insight("O2", "Proposal", 2000, 0.5, 5, domain.RiskLow),
	}

	m := Aggregate(insights)
	if len(m.StageSummary) != 2 {
		t.Errorf("stage_summary collapsed case variants: %v", m.StageSummary)
	}
}

func TestAggregate_RiskDistribution(t *testing.T) {
	insights := []domain.Insight{
		insight("O1", "Discovery", 1, 0.5, 1, domain.RiskHigh),
		insight("O2", "Discovery", 1, 0.5, 1, domain.RiskHigh),
		insight("O3", "Discovery", 1, 0.5, 1, domain.RiskLow),
	}

	m := Aggregate(insights)
	if m.RiskDistribution[domain.RiskHigh] != 2 || m.RiskDistribution[domain.RiskLow] != 1 {
		t.Errorf("risk_distribution = %v", m.RiskDistribution)
	}
	if count, ok := m.RiskDistribution[domain.RiskMedium]; !ok || count != 0 {
		t.Errorf("risk_distribution[medium] = %d (present=%v), want 0 present", count, ok)
	}
}

// Aggregation is commutative over the input set.
func TestAggregate_OrderIndependent(t *testing.T) {
	a := []domain.Insight{
		insight("O1", "Discovery", 10000, 0.5, 10, domain.RiskLow),
		insight("O2", "Proposal", 20000, 0.7, 20, domain.RiskMedium),
		insight("O3", "Proposal", 5000, 0.2, 30, domain.RiskHigh),
	}
	b := []domain.Insight{a[2], a[0], a[1]}

	ma, mb := Aggregate(a), Aggregate(b)
	if ma.TotalPipeline != mb.TotalPipeline || ma.WeightedPipeline != mb.WeightedPipeline ||
		ma.AvgDaysInStage != mb.AvgDaysInStage {
		t.Errorf("aggregation depended on order: %+v vs %+v", ma, mb)
	}
}
