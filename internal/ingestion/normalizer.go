// Package ingestion converts raw tabular opportunity records into canonical
// domain values. It owns column mapping, field validation, and the
// normalization of heterogeneous numeric encodings (notably probability,
// which sources supply either as a 0–1 fraction or a 0–100 percentage).
package ingestion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ignite/pipeline-monitor/internal/domain"
)

// Canonical column names. These are the string keys of the raw field
// mapping handed to Normalize.
const (
	FieldID                 = "id"
	FieldAccountName        = "account_name"
	FieldStage              = "stage"
	FieldAmount             = "amount"
	FieldProbability        = "probability"
	FieldDaysInStage        = "days_in_stage"
	FieldLastContactDaysAgo = "last_contact_days_ago"
	FieldNotes              = "notes"
)

// RequiredFields lists every column that must be present in a source.
// Notes is required as a column but may be blank per row.
var RequiredFields = []string{
	FieldID,
	FieldAccountName,
	FieldStage,
	FieldAmount,
	FieldProbability,
	FieldDaysInStage,
	FieldLastContactDaysAgo,
	FieldNotes,
}

// ValidationError reports a single field that failed type or range checks.
// Validation failures are per-record: the caller decides whether to skip
// the record or abort the batch.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s (got %q)", e.Field, e.Reason, e.Value)
}

func invalid(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// Normalize converts one raw record into a canonical Opportunity.
//
// Rules:
//   - id and account_name must be non-empty after trimming
//   - amount, days_in_stage, last_contact_days_ago must parse non-negative
//   - probability > 1 is treated as a percentage and divided by 100;
//     values outside [0,100] before scaling are rejected. A value of
//     exactly 1 is taken as a fraction (100%), per the > 1 rule.
//   - a missing or blank notes value defaults to the empty string
func Normalize(raw map[string]string) (domain.Opportunity, error) {
	var opp domain.Opportunity

	id := strings.TrimSpace(raw[FieldID])
	if id == "" {
		return opp, invalid(FieldID, raw[FieldID], "must not be empty")
	}

	account := strings.TrimSpace(raw[FieldAccountName])
	if account == "" {
		return opp, invalid(FieldAccountName, raw[FieldAccountName], "must not be empty")
	}

	stage := strings.TrimSpace(raw[FieldStage])
	if stage == "" {
		return opp, invalid(FieldStage, raw[FieldStage], "must not be empty")
	}

	amount, err := parseNonNegativeFloat(FieldAmount, raw[FieldAmount])
	if err != nil {
		return opp, err
	}

	probability, err := normalizeProbability(raw[FieldProbability])
	if err != nil {
		return opp, err
	}

	daysInStage, err := parseNonNegativeInt(FieldDaysInStage, raw[FieldDaysInStage])
	if err != nil {
		return opp, err
	}

	lastContact, err := parseNonNegativeInt(FieldLastContactDaysAgo, raw[FieldLastContactDaysAgo])
	if err != nil {
		return opp, err
	}

	return domain.Opportunity{
		ID:                 id,
		AccountName:        account,
		Stage:              stage,
		Amount:             amount,
		Probability:        probability,
		DaysInStage:        daysInStage,
		LastContactDaysAgo: lastContact,
		Notes:              strings.TrimSpace(raw[FieldNotes]),
	}, nil
}

// normalizeProbability maps both supported encodings onto [0,1].
func normalizeProbability(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, invalid(FieldProbability, raw, "must not be empty")
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, invalid(FieldProbability, raw, "must be numeric")
	}
	if p < 0 || p > 100 {
		return 0, invalid(FieldProbability, raw, "must be in [0,1] or [0,100]")
	}
	if p > 1 {
		p /= 100
	}
	return p, nil
}

func parseNonNegativeFloat(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, invalid(field, raw, "must not be empty")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, invalid(field, raw, "must be numeric")
	}
	if v < 0 {
		return 0, invalid(field, raw, "must be non-negative")
	}
	return v, nil
}

func parseNonNegativeInt(field, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, invalid(field, raw, "must not be empty")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Some exports write integer columns as "12.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, invalid(field, raw, "must be an integer")
		}
		v = int(f)
	}
	if v < 0 {
		return 0, invalid(field, raw, "must be non-negative")
	}
	return v, nil
}
