package domain

// RiskLevel enumerates the qualitative health classification of a deal.
// Levels are totally ordered: low < medium < high.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

var riskRank = map[RiskLevel]int{
	RiskLow:    0,
	RiskMedium: 1,
	RiskHigh:   2,
}

// Rank returns the ordinal position of the level (low=0, medium=1, high=2).
// Unknown levels rank below low.
func (l RiskLevel) Rank() int {
	if r, ok := riskRank[l]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether l is equal to or more severe than other.
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.Rank() >= other.Rank()
}

// Escalate returns the next more severe level, capped at high.
func (l RiskLevel) Escalate() RiskLevel {
	switch l {
	case RiskLow:
		return RiskMedium
	case RiskMedium:
		return RiskHigh
	default:
		return RiskHigh
	}
}

// RiskAssessment is the qualitative risk classification for one opportunity.
// Reasons each explain one triggered signal, in evaluation order. The slice
// is empty only for clean low-risk deals.
type RiskAssessment struct {
	Level   RiskLevel `json:"level"`
	Reasons []string  `json:"reasons"`
}

// Recommendation carries the suggested next actions for the rep.
// NextSteps is non-empty and deduplicated in first-occurrence order.
type Recommendation struct {
	Priority  RiskLevel `json:"priority"`
	NextSteps []string  `json:"next_steps"`
}

// EmailDraft is a ready-to-send follow-up suggestion.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Insight bundles everything derived for one opportunity.
type Insight struct {
	Opportunity    Opportunity    `json:"opportunity"`
	Risk           RiskAssessment `json:"risk"`
	Recommendation Recommendation `json:"recommendation"`
	Email          EmailDraft     `json:"email"`
}
