// Package email synthesizes follow-up drafts from evaluated opportunities
// using the Liquid template language. Rendering is deterministic string
// construction: fixed paragraph templates selected by risk level, with the
// account, stage, top concerns, and top next step interpolated.
package email

import (
	"fmt"
	"strings"

	"github.com/osteele/liquid"

	"github.com/ignite/pipeline-monitor/internal/domain"
)

// Paragraph templates. The body is intro + risk-selected middle + closing,
// joined by blank lines. High and medium assessments always carry at least
// one reason, so only those middles reference the concerns block.
const (
	subjectTemplate = `Checking in on our proposal for {{ account }}`

	introTemplate = `Hi {{ account }} team,

I hope you're doing well. I wanted to follow up on where things stand in the {{ stage }} stage and keep the conversation moving.`

	middleHighTemplate = `From our last conversation, it sounds like there are a few open questions we should address directly:
{{ concerns }}`

	middleMediumTemplate = `I know you're still weighing options, and I'd like to make sure you have everything you need to make a confident decision. A couple of things I'd love to talk through:
{{ concerns }}`

	middleLowTemplate = `Thanks again for the positive engagement so far. I'd like to keep the project moving smoothly toward the next milestone.`

	closingTemplate = `As a concrete next step, I'd propose: {{ next_step }}

Would any time this week work for you? If there's someone else on your side who should be involved, I'm happy to loop them in.

Best regards,
{{ sender }}`
)

// maxConcerns bounds how many assessment reasons surface in the body.
const maxConcerns = 2

// Drafter renders follow-up email drafts. Templates are parsed once at
// construction; Draft itself performs no parsing.
type Drafter struct {
	sender  string
	subject *liquid.Template
	intro   *liquid.Template
	middles map[domain.RiskLevel]*liquid.Template
	closing *liquid.Template
}

// NewDrafter parses the draft templates and returns a ready Drafter.
// sender is the sign-off name used in every draft.
func NewDrafter(sender string) (*Drafter, error) {
	engine := liquid.NewEngine()

	parse := func(name, src string) (*liquid.Template, error) {
		tpl, err := engine.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		return tpl, nil
	}

	subject, err := parse("subject", subjectTemplate)
	if err != nil {
		return nil, err
	}
	intro, err := parse("intro", introTemplate)
	if err != nil {
		return nil, err
	}
	high, err := parse("high middle", middleHighTemplate)
	if err != nil {
		return nil, err
	}
	medium, err := parse("medium middle", middleMediumTemplate)
	if err != nil {
		return nil, err
	}
	low, err := parse("low middle", middleLowTemplate)
	if err != nil {
		return nil, err
	}
	closing, err := parse("closing", closingTemplate)
	if err != nil {
		return nil, err
	}

	return &Drafter{
		sender:  sender,
		subject: subject,
		intro:   intro,
		middles: map[domain.RiskLevel]*liquid.Template{
			domain.RiskHigh:   high,
			domain.RiskMedium: medium,
			domain.RiskLow:    low,
		},
		closing: closing,
	}, nil
}

// Draft renders the subject/body pair for one evaluated opportunity.
func (d *Drafter) Draft(opp domain.Opportunity, risk domain.RiskAssessment, rec domain.Recommendation) (domain.EmailDraft, error) {
	nextStep := ""
	if len(rec.NextSteps) > 0 {
		nextStep = rec.NextSteps[0]
	}

	bindings := map[string]interface{}{
		"account":   opp.AccountName,
		"stage":     opp.Stage,
		"concerns":  concernsBlock(risk.Reasons),
		"next_step": nextStep,
		"sender":    d.sender,
	}

	subject, err := d.subject.RenderString(bindings)
	if err != nil {
		return domain.EmailDraft{}, fmt.Errorf("rendering subject: %w", err)
	}

	middle, ok := d.middles[risk.Level]
	if !ok {
		middle = d.middles[domain.RiskMedium]
	}

	var paragraphs []string
	for _, tpl := range []*liquid.Template{d.intro, middle, d.closing} {
		out, err := tpl.RenderString(bindings)
		if err != nil {
			return domain.EmailDraft{}, fmt.Errorf("rendering body: %w", err)
		}
		paragraphs = append(paragraphs, out)
	}

	return domain.EmailDraft{
		Subject: subject,
		Body:    strings.Join(paragraphs, "\n\n"),
	}, nil
}

// concernsBlock formats the top assessment reasons as bullet lines.
func concernsBlock(reasons []string) string {
	n := len(reasons)
	if n > maxConcerns {
		n = maxConcerns
	}
	lines := make([]string, 0, n)
	for _, r := range reasons[:n] {
		lines = append(lines, "- "+r)
	}
	return strings.Join(lines, "\n")
}
