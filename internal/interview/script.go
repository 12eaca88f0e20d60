package interview

import (
	"fmt"

	"github.com/ashankshah/solace/internal/model"
)

// ScriptProvider serves the fixed deterministic question sequence used when
// the oracle is unavailable. Ids come from a provider-scoped counter, so a
// fresh provider always regenerates the same ids in the same order.
type ScriptProvider struct {
	questions []model.Question
	pos       int
}

// NewScriptProvider builds the canonical intake script. The orchestrator
// creates one provider per session, at the moment fallback activates.
func NewScriptProvider() *ScriptProvider {
	p := &ScriptProvider{}
	p.questions = p.build()
	return p
}

// Next returns the next scripted question. ok is false once the script is
// exhausted, which callers treat as a completion signal.
func (p *ScriptProvider) Next() (*model.Question, bool) {
	if p.pos >= len(p.questions) {
		return nil, false
	}
	q := p.questions[p.pos]
	p.pos++
	return &q, true
}

// Remaining reports how many scripted questions have not been served yet.
func (p *ScriptProvider) Remaining() int {
	return len(p.questions) - p.pos
}

func (p *ScriptProvider) build() []model.Question {
	seq := 0
	nextID := func() string {
		seq++
		return fmt.Sprintf("fallback-%d", seq)
	}

	return []model.Question{
		{
			ID:       nextID(),
			Type:     model.QuestionTypeMultipleChoice,
			Text:     "What brings you in today?",
			Category: "screening",
			Required: true,
			Options: []string{
				"Illness or infection",
				"Injury",
				"Follow-up visit",
				"Routine check-up",
				"Other",
			},
		},
		{
			ID:          nextID(),
			Type:        model.QuestionTypeShortAnswer,
			Text:        "Please describe your symptoms in your own words.",
			Category:    "hpi",
			Required:    true,
			Placeholder: "e.g. sharp pain in my lower back since Monday",
			MaxLength:   500,
		},
		{
			ID:       nextID(),
			Type:     model.QuestionTypeMultipleChoice,
			Text:     "How long have you had these symptoms?",
			Category: "onset",
			Required: true,
			Options: []string{
				"Less than 24 hours",
				"1-3 days",
				"4-7 days",
				"1-2 weeks",
				"More than 2 weeks",
			},
		},
		{
			ID:       nextID(),
			Type:     model.QuestionTypeSlider,
			Text:     "How would you rate your pain or discomfort right now?",
			Category: "severity",
			Required: true,
			Min:      0,
			Max:      10,
			Step:     1,
			MinLabel: "No pain",
			MaxLabel: "Worst imaginable",
		},
		{
			ID:       nextID(),
			Type:     model.QuestionTypeMultipleChoice,
			Text:     "How many medications are you currently taking?",
			Category: "medications",
			Required: true,
			Options: []string{
				"None",
				"1-2",
				"3-5",
				"More than 5",
			},
		},
		{
			ID:          nextID(),
			Type:        model.QuestionTypeShortAnswer,
			Text:        "If you take any medications, please list them.",
			Category:    "medications",
			Required:    false,
			Placeholder: "Name and dose if you know it",
			MaxLength:   500,
		},
		{
			ID:       nextID(),
			Type:     model.QuestionTypeMultipleChoice,
			Text:     "Do you have any allergies?",
			Category: "allergies",
			Required: true,
			Options: []string{
				"No known allergies",
				"Medication allergy",
				"Food allergy",
				"Environmental allergy",
				"Multiple allergies",
			},
		},
		{
			ID:          nextID(),
			Type:        model.QuestionTypeShortAnswer,
			Text:        "Is there anything else you would like the care team to know?",
			Category:    "other",
			Required:    false,
			Placeholder: "Anything else that seems relevant",
			MaxLength:   500,
		},
	}
}
