// Package rules implements the deterministic risk and recommendation
// engines. Both are pure functions of an Opportunity: no clock, no I/O,
// no randomness, so evaluating the same deal twice yields byte-identical
// output.
package rules

import (
	"fmt"
	"strings"

	"github.com/ignite/pipeline-monitor/internal/config"
	"github.com/ignite/pipeline-monitor/internal/domain"
)

// Engine evaluates opportunities against the signal table and the
// configured thresholds.
type Engine struct {
	cfg config.RulesConfig
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(cfg config.RulesConfig) *Engine {
	return &Engine{cfg: cfg}
}

// signal is one triggered indicator with its bookkeeping: strong signals
// (keyword families, stage-lateness) independently justify escalation,
// mild ones (contact recency) only nudge.
type signal struct {
	category SignalCategory
	reason   string
	action   string
	strong   bool
}

// detect runs the full signal scan for one opportunity. Signals come back
// in a fixed order: keyword families in table order, then stage-lateness,
// then contact recency. All applicable signals accumulate; there is no
// short-circuiting.
func (e *Engine) detect(opp domain.Opportunity) []signal {
	var signals []signal

	notes := strings.ToLower(opp.Notes)
	if notes != "" {
		for _, ks := range keywordSignals {
			for _, kw := range ks.Keywords {
				if strings.Contains(notes, kw) {
					signals = append(signals, signal{
						category: ks.Category,
						reason:   ks.Reason,
						action:   ks.Action,
						strong:   true,
					})
					break
				}
			}
		}
	}

	if isEarlyOrMid(opp.Stage) && opp.DaysInStage > e.cfg.StuckStageDays {
		signals = append(signals, signal{
			category: SignalStuckStage,
			reason: fmt.Sprintf("Stuck in %s for %d days (threshold %d)",
				opp.Stage, opp.DaysInStage, e.cfg.StuckStageDays),
			action: actionStuckStage,
			strong: true,
		})
	}

	if opp.LastContactDaysAgo > e.cfg.StaleContactDays {
		signals = append(signals, signal{
			category: SignalStaleContact,
			reason: fmt.Sprintf("No recent contact (%d days since last touch, threshold %d)",
				opp.LastContactDaysAgo, e.cfg.StaleContactDays),
			action: actionStaleContact,
			strong: false,
		})
	}

	return signals
}

// AssessRisk classifies one opportunity.
//
// Level is high when two or more strong signals fire, or when any strong
// signal coincides with a win probability below the low threshold. Any
// triggered signal that doesn't qualify as high yields medium, as does a
// signal-free deal whose probability sits below the middling bound.
// Everything else is low.
func (e *Engine) AssessRisk(opp domain.Opportunity) domain.RiskAssessment {
	signals := e.detect(opp)

	strong := 0
	reasons := make([]string, 0, len(signals))
	for _, s := range signals {
		if s.strong {
			strong++
		}
		reasons = append(reasons, s.reason)
	}

	var level domain.RiskLevel
	switch {
	case strong >= 2 || (strong >= 1 && opp.Probability < e.cfg.LowProbability):
		level = domain.RiskHigh
	case len(signals) >= 1:
		level = domain.RiskMedium
	case opp.Probability < e.cfg.MediumProbability:
		level = domain.RiskMedium
		reasons = append(reasons, fmt.Sprintf("Middling win probability (%.0f%%) with no strengthening signals",
			opp.Probability*100))
	default:
		level = domain.RiskLow
	}

	return domain.RiskAssessment{Level: level, Reasons: reasons}
}

// Recommend derives the priority and next-step list for one opportunity.
//
// Priority mirrors the risk level, except that deals above the strategic
// amount are raised one level (capped at high): a large deal is never left
// at low priority. Next steps map each triggered signal category to its
// canonical action, deduplicated in first-occurrence order, with a single
// default step when nothing fired.
func (e *Engine) Recommend(opp domain.Opportunity, risk domain.RiskAssessment) domain.Recommendation {
	priority := risk.Level
	if opp.Amount > e.cfg.StrategicDealAmount {
		priority = priority.Escalate()
	}

	var steps []string
	seen := make(map[string]bool)
	for _, s := range e.detect(opp) {
		if !seen[s.action] {
			seen[s.action] = true
			steps = append(steps, s.action)
		}
	}
	if len(steps) == 0 {
		steps = []string{DefaultNextStep}
	}

	return domain.Recommendation{Priority: priority, NextSteps: steps}
}

// isEarlyOrMid reports whether a stage is subject to stage-lateness
// scoring. Unknown stage names count as early/mid.
func isEarlyOrMid(stage string) bool {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(stage)), "-", " ")
	return !lateOrTerminalStages[s]
}
