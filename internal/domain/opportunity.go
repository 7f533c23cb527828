package domain

// Opportunity represents a single sales deal under evaluation. Instances are
// produced by the ingestion normalizer and are immutable from then on.
//
// Probability is always stored as a fraction in [0,1], regardless of whether
// the source encoded it as 0–1 or 0–100.
type Opportunity struct {
	ID                 string  `json:"id"`
	AccountName        string  `json:"account_name"`
	Stage              string  `json:"stage"`
	Amount             float64 `json:"amount"`
	Probability        float64 `json:"probability"`
	DaysInStage        int     `json:"days_in_stage"`
	LastContactDaysAgo int     `json:"last_contact_days_ago"`
	Notes              string  `json:"notes"`
}

// Well-known stage names. The stage set is open: unrecognized stages are
// accepted and scored as early/mid for risk purposes.
const (
	StageProspecting   = "Prospecting"
	StageQualification = "Qualification"
	StageDiscovery     = "Discovery"
	StageProposal      = "Proposal"
	StageNegotiation   = "Negotiation"
	StageClosedWon     = "Closed Won"
	StageClosedLost    = "Closed Lost"
)
