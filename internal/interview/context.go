package interview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashankshah/solace/internal/model"
)

// Context is the payload handed to the question oracle. Prompt carries the
// rendered history plus advisory signals; Answers and History ride along raw
// so the oracle may use or ignore the derived prose.
type Context struct {
	Prompt  string                `json:"prompt"`
	Answers model.AnswerRecord    `json:"answers"`
	History model.QuestionHistory `json:"questionHistory"`
	Count   int                   `json:"questionCount"`
}

// historyEntry is the reduced wire form of an answered question
type historyEntry struct {
	ID       string             `json:"id"`
	Question string             `json:"question"`
	Category string             `json:"category,omitempty"`
	Type     model.QuestionType `json:"type"`
	Options  []string           `json:"options,omitempty"`
	Min      float64            `json:"min,omitempty"`
	Max      float64            `json:"max,omitempty"`
	MinLabel string             `json:"minLabel,omitempty"`
	MaxLabel string             `json:"maxLabel,omitempty"`
	Unit     string             `json:"unit,omitempty"`
}

// BuildContext derives the oracle context from the interview so far. Pure:
// the same answers and history always produce the same context.
func BuildContext(answers model.AnswerRecord, history model.QuestionHistory, maxQuestions int) Context {
	ctx := Context{
		Answers: answers,
		History: reduceHistory(answers, history),
		Count:   answers.Count(),
	}

	if len(answers) == 0 {
		ctx.Prompt = "This is the start of a patient intake interview. " +
			"Ask a single opening question that establishes the reason for the visit."
		return ctx
	}

	var sb strings.Builder
	sb.WriteString("Patient intake interview in progress. Conversation so far:\n")
	for _, q := range history {
		ans, ok := answers[q.ID]
		if !ok {
			continue
		}
		category := q.Category
		if category == "" {
			category = "general"
		}
		sb.WriteString(fmt.Sprintf("- [%s/%s] %s -> %s\n", category, q.Type, q.Text, ans.Display()))
	}

	for _, denial := range detectDenials(answers, history) {
		sb.WriteString(denial + "\n")
	}

	covered := coveredTopics(answers, history)
	if len(covered) > 0 {
		sb.WriteString("Topics already covered: " + strings.Join(covered, ", ") +
			". Prefer an unexplored clinical area.\n")
	}

	remaining := maxQuestions - answers.Count()
	switch {
	case remaining == 1:
		sb.WriteString("This is the FINAL question of the interview. Ask the single most valuable remaining question.\n")
	case remaining <= 3:
		sb.WriteString(fmt.Sprintf("Only %d questions remain. Begin wrapping up; prioritize gaps in the history of present illness.\n", remaining))
	}

	ctx.Prompt = sb.String()
	return ctx
}

func reduceHistory(answers model.AnswerRecord, history model.QuestionHistory) model.QuestionHistory {
	reduced := make(model.QuestionHistory, 0, len(history))
	for _, q := range history {
		if _, ok := answers[q.ID]; ok {
			reduced = append(reduced, q)
		}
	}
	return reduced
}

// MarshalWire renders the reduced history entries for embedding in the
// oracle request body.
func (c Context) MarshalWire() ([]byte, error) {
	entries := make([]historyEntry, 0, len(c.History))
	for _, q := range c.History {
		entries = append(entries, historyEntry{
			ID:       q.ID,
			Question: q.Text,
			Category: q.Category,
			Type:     q.Type,
			Options:  q.Options,
			Min:      q.Min,
			Max:      q.Max,
			MinLabel: q.MinLabel,
			MaxLabel: q.MaxLabel,
			Unit:     q.Unit,
		})
	}
	return json.Marshal(struct {
		Answers         model.AnswerRecord `json:"answers"`
		QuestionCount   int                `json:"questionCount"`
		QuestionHistory []historyEntry     `json:"questionHistory"`
	}{c.Answers, c.Count, entries})
}

// detectDenials scans rendered answers for negative responses on the two
// topics patients most often deny: medications and allergies. Keyword-based
// and advisory only; the orchestrator never gates on it.
func detectDenials(answers model.AnswerRecord, history model.QuestionHistory) []string {
	var out []string
	deniedMeds := false
	deniedAllergies := false

	for _, q := range history {
		ans, ok := answers[q.ID]
		if !ok {
			continue
		}
		rendered := strings.ToLower(q.Text + " " + q.Category + " " + ans.Display())

		if !deniedMeds && strings.Contains(rendered, "medication") && containsDenial(rendered, "not taking") {
			deniedMeds = true
			out = append(out, "The patient reports taking no medications. Do NOT ask for medication details.")
		}
		if !deniedAllergies && strings.Contains(rendered, "allerg") &&
			(strings.Contains(rendered, "no known allerg") || containsDenial(rendered)) {
			deniedAllergies = true
			out = append(out, "The patient reports no known allergies. Do NOT ask for allergy details.")
		}
	}
	return out
}

// containsDenial checks for the denial keywords as whole words, plus any
// extra phrases supplied by the caller.
func containsDenial(rendered string, extra ...string) bool {
	for _, phrase := range extra {
		if strings.Contains(rendered, phrase) {
			return true
		}
	}
	for _, word := range strings.FieldsFunc(rendered, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '!' || r == '?' || r == ';'
	}) {
		if word == "no" || word == "none" {
			return true
		}
	}
	return false
}

var topicKeywords = []struct {
	name     string
	keywords []string
}{
	{"medications", []string{"medication", "medicine", "drug", "prescription"}},
	{"allergies", []string{"allerg"}},
	{"severity", []string{"pain", "severity", "rate", "discomfort"}},
	{"onset", []string{"how long", "duration", "when did", "started", "onset"}},
}

// coveredTopics flags clinical areas already touched by an answered question.
func coveredTopics(answers model.AnswerRecord, history model.QuestionHistory) []string {
	var covered []string
	for _, topic := range topicKeywords {
		if topicCovered(topic.keywords, answers, history) {
			covered = append(covered, topic.name)
		}
	}
	return covered
}

func topicCovered(keywords []string, answers model.AnswerRecord, history model.QuestionHistory) bool {
	for _, q := range history {
		if _, ok := answers[q.ID]; !ok {
			continue
		}
		text := strings.ToLower(q.Text + " " + q.Category)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}
