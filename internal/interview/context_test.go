package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashankshah/solace/internal/model"
)

func answered(q model.Question, ans model.Answer) (model.QuestionHistory, model.AnswerRecord) {
	ans.QuestionID = q.ID
	ans.Type = q.Type
	return model.QuestionHistory{q}, model.AnswerRecord{q.ID: ans}
}

func TestBuildContextOpening(t *testing.T) {
	ctx := BuildContext(model.AnswerRecord{}, nil, MaxQuestions)

	assert.Contains(t, ctx.Prompt, "start of a patient intake interview")
	assert.Equal(t, 0, ctx.Count)
	assert.Empty(t, ctx.History)
}

func TestBuildContextRendersHistory(t *testing.T) {
	history, answers := answered(
		model.Question{ID: "q1", Type: model.QuestionTypeMultipleChoice, Text: "What brings you in today?", Category: "screening", Options: []string{"Illness", "Injury"}},
		model.Answer{SelectedIndex: 0, SelectedValue: "Illness"},
	)

	ctx := BuildContext(answers, history, MaxQuestions)

	assert.Contains(t, ctx.Prompt, "- [screening/multiple_choice] What brings you in today? -> Illness")
	assert.Equal(t, 1, ctx.Count)
	require.Len(t, ctx.History, 1)
}

func TestBuildContextSkipsUnansweredHistory(t *testing.T) {
	history := model.QuestionHistory{
		{ID: "q1", Type: model.QuestionTypeShortAnswer, Text: "Describe your symptoms."},
		{ID: "q2", Type: model.QuestionTypeShortAnswer, Text: "Anything else?"},
	}
	answers := model.AnswerRecord{
		"q1": {QuestionID: "q1", Type: model.QuestionTypeShortAnswer, Text: "sore throat"},
	}

	ctx := BuildContext(answers, history, MaxQuestions)

	assert.Contains(t, ctx.Prompt, "sore throat")
	assert.NotContains(t, ctx.Prompt, "Anything else?")
	require.Len(t, ctx.History, 1)
	assert.Equal(t, "q1", ctx.History[0].ID)
}

func TestBuildContextAllergyDenial(t *testing.T) {
	history, answers := answered(
		model.Question{ID: "q1", Type: model.QuestionTypeMultipleChoice, Text: "Do you have any allergies?", Category: "allergies", Options: []string{"No known allergies", "Medication allergy"}},
		model.Answer{SelectedIndex: 0, SelectedValue: "No known allergies"},
	)

	ctx := BuildContext(answers, history, MaxQuestions)
	assert.Contains(t, ctx.Prompt, "no known allergies")
	assert.Contains(t, ctx.Prompt, "Do NOT ask for allergy details")
}

func TestBuildContextMedicationDenial(t *testing.T) {
	history, answers := answered(
		model.Question{ID: "q1", Type: model.QuestionTypeMultipleChoice, Text: "How many medications are you currently taking?", Category: "medications", Options: []string{"None", "1-2"}},
		model.Answer{SelectedIndex: 0, SelectedValue: "None"},
	)

	ctx := BuildContext(answers, history, MaxQuestions)
	assert.Contains(t, ctx.Prompt, "no medications")
	assert.Contains(t, ctx.Prompt, "Do NOT ask for medication details")
}

func TestBuildContextNoDenialOnPositiveAnswer(t *testing.T) {
	history, answers := answered(
		model.Question{ID: "q1", Type: model.QuestionTypeMultipleChoice, Text: "How many medications are you currently taking?", Category: "medications", Options: []string{"None", "1-2"}},
		model.Answer{SelectedIndex: 1, SelectedValue: "1-2"},
	)

	ctx := BuildContext(answers, history, MaxQuestions)
	assert.NotContains(t, ctx.Prompt, "Do NOT")
}

func TestBuildContextCoveredTopics(t *testing.T) {
	history := model.QuestionHistory{
		{ID: "q1", Type: model.QuestionTypeSlider, Text: "How would you rate your pain?", Category: "severity", Min: 0, Max: 10, Step: 1},
		{ID: "q2", Type: model.QuestionTypeMultipleChoice, Text: "How long have you had these symptoms?", Category: "onset", Options: []string{"1-3 days"}},
	}
	answers := model.AnswerRecord{
		"q1": {QuestionID: "q1", Type: model.QuestionTypeSlider, Value: 6},
		"q2": {QuestionID: "q2", Type: model.QuestionTypeMultipleChoice, SelectedIndex: 0, SelectedValue: "1-3 days"},
	}

	ctx := BuildContext(answers, history, MaxQuestions)
	assert.Contains(t, ctx.Prompt, "Topics already covered: severity, onset")
}

func TestBuildContextBudgetUrgency(t *testing.T) {
	history := make(model.QuestionHistory, 0, MaxQuestions)
	answers := model.AnswerRecord{}
	addAnswers := func(n int) {
		for i := 0; i < n; i++ {
			id := string(rune('a' + len(history)))
			history = append(history, model.Question{ID: id, Type: model.QuestionTypeShortAnswer, Text: "q"})
			answers[id] = model.Answer{QuestionID: id, Type: model.QuestionTypeShortAnswer, Text: "a"}
		}
	}

	addAnswers(6)
	ctx := BuildContext(answers, history, MaxQuestions)
	assert.NotContains(t, ctx.Prompt, "remain")
	assert.NotContains(t, ctx.Prompt, "FINAL")

	addAnswers(1) // 7 answered, 3 remain
	ctx = BuildContext(answers, history, MaxQuestions)
	assert.Contains(t, ctx.Prompt, "Only 3 questions remain")

	addAnswers(2) // 9 answered, 1 remains
	ctx = BuildContext(answers, history, MaxQuestions)
	assert.Contains(t, ctx.Prompt, "FINAL question")
}

func TestBuildContextPure(t *testing.T) {
	history, answers := answered(
		model.Question{ID: "q1", Type: model.QuestionTypeShortAnswer, Text: "Describe your symptoms."},
		model.Answer{Text: "headache"},
	)

	a := BuildContext(answers, history, MaxQuestions)
	b := BuildContext(answers, history, MaxQuestions)
	assert.Equal(t, a.Prompt, b.Prompt)
}

func TestContextMarshalWire(t *testing.T) {
	history, answers := answered(
		model.Question{ID: "q1", Type: model.QuestionTypeSlider, Text: "Rate your pain", Category: "severity", Min: 0, Max: 10, MinLabel: "No pain", MaxLabel: "Worst imaginable"},
		model.Answer{Value: 4},
	)

	ctx := BuildContext(answers, history, MaxQuestions)
	data, err := ctx.MarshalWire()
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"questionCount":1`)
	assert.Contains(t, s, `"question":"Rate your pain"`)
	assert.Contains(t, s, `"maxLabel":"Worst imaginable"`)
}
