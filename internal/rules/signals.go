package rules

// SignalCategory identifies one family of risk indicators. Keyword families
// collapse related phrasings ("on hold", "pause", "re-org") into a single
// signal so one stalled deal yields one reason, not three.
type SignalCategory string

const (
	SignalBudget       SignalCategory = "budget"
	SignalPricing      SignalCategory = "pricing"
	SignalCompetitor   SignalCategory = "competitor"
	SignalDelay        SignalCategory = "delay"
	SignalMomentum     SignalCategory = "momentum"
	SignalBlocked      SignalCategory = "blocked"
	SignalRiskLanguage SignalCategory = "risk_language"
	SignalStuckStage   SignalCategory = "stuck_stage"
	SignalStaleContact SignalCategory = "stale_contact"
)

// keywordSignal is one row of the negative-keyword table: the substrings
// that trigger the family, the reason reported on the assessment, and the
// canonical next-step action. New signals are added here, not in code.
type keywordSignal struct {
	Category SignalCategory
	Keywords []string
	Reason   string
	Action   string
}

// keywordSignals is scanned in order against lower-cased notes text.
// Each family fires at most once per opportunity and counts as one
// strong signal.
var keywordSignals = []keywordSignal{
	{
		Category: SignalBudget,
		Keywords: []string{"budget"},
		Reason:   "Budget concerns raised in notes",
		Action:   "Clarify budget and procurement timeline",
	},
	{
		Category: SignalPricing,
		Keywords: []string{"expensive"},
		Reason:   "Pricing objection in notes",
		Action:   "Review pricing and commercial terms for possible objections",
	},
	{
		Category: SignalCompetitor,
		Keywords: []string{"competitor"},
		Reason:   "Competitor mentioned in notes",
		Action:   "Address competitor comparison explicitly in next call",
	},
	{
		Category: SignalDelay,
		Keywords: []string{"delay"},
		Reason:   "Delay signals in notes",
		Action:   "Confirm decision timeline and remaining blockers",
	},
	{
		Category: SignalMomentum,
		Keywords: []string{"on hold", "pause", "re-org", "reorg"},
		Reason:   "Deal momentum stalled (on hold, paused, or re-org)",
		Action:   "Re-engage the champion and confirm the project is still active",
	},
	{
		Category: SignalBlocked,
		Keywords: []string{"blocked"},
		Reason:   "Blocker reported in notes",
		Action:   "Identify the blocker and agree an unblocking plan with the buyer",
	},
	{
		Category: SignalRiskLanguage,
		Keywords: []string{"risk"},
		Reason:   "Explicit risk language in notes",
		Action:   "Escalate internally and align on win strategy",
	},
}

// Non-keyword action strings.
const (
	actionStuckStage   = "Schedule follow-up with buying committee"
	actionStaleContact = "Acknowledge the gap in communication and re-engage with value"

	// DefaultNextStep is produced when no signal fired at all.
	DefaultNextStep = "Maintain regular cadence; no immediate action required"
)

// lateOrTerminalStages are exempt from stage-lateness scoring: a deal
// sitting in negotiation or already closed is not "stuck" in the early/mid
// sense. Keys are normalized (lower-case, hyphens folded to spaces).
// Unrecognized stages are treated as early/mid.
var lateOrTerminalStages = map[string]bool{
	"negotiation": true,
	"closed won":  true,
	"closed lost": true,
}
