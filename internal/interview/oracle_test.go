package interview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashankshah/solace/internal/config"
	"github.com/ashankshah/solace/internal/model"
)

// geminiStub serves canned generateContent replies and counts calls.
type geminiStub struct {
	server *httptest.Server
	calls  int
	reply  string
	status int
}

func newGeminiStub(t *testing.T) *geminiStub {
	t.Helper()
	stub := &geminiStub{status: http.StatusOK}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls++
		if stub.status != http.StatusOK {
			w.WriteHeader(stub.status)
			return
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": stub.reply}},
				}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *geminiStub) oracle() *GeminiOracle {
	return NewGeminiOracle(&config.OracleConfig{
		APIKey:    "test-key",
		BaseURL:   s.server.URL,
		Model:     "gemini-2.0-flash",
		TimeoutMS: 2000,
	})
}

func TestOracleDisabledWithoutKey(t *testing.T) {
	oracle := NewGeminiOracle(&config.OracleConfig{TimeoutMS: 1000})
	res, err := oracle.NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrOracleDisabled)
}

func TestOracleHardCapSkipsNetwork(t *testing.T) {
	stub := newGeminiStub(t)
	oracle := stub.oracle()

	res, err := oracle.NextQuestion(context.Background(), model.AnswerRecord{}, MaxQuestions, nil)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Zero(t, stub.calls)

	res, err = oracle.NextQuestion(context.Background(), model.AnswerRecord{}, MaxQuestions+3, nil)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Zero(t, stub.calls)
}

func TestOracleCompleteReply(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `{"complete": true}`

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 5, nil)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Nil(t, res.Question)
	assert.Equal(t, 1, stub.calls)
}

func TestOracleSliderDefaults(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `{"type": "slider", "question": "Rate your pain right now."}`

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	require.NoError(t, err)
	q := res.Question
	require.NotNil(t, q)

	assert.Equal(t, model.QuestionTypeSlider, q.Type)
	assert.Equal(t, float64(0), q.Min)
	assert.Equal(t, float64(10), q.Max)
	assert.Equal(t, float64(1), q.Step)
	assert.Equal(t, "severity", q.Category)
	assert.True(t, q.Required)
	assert.NotEmpty(t, q.ID)
}

func TestOracleSliderKeepsExplicitBounds(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `{"type": "slider", "question": "Hours of sleep per night?", "min": 1, "max": 14, "step": 0.5, "unit": "hours"}`

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	require.NoError(t, err)
	q := res.Question

	assert.Equal(t, float64(1), q.Min)
	assert.Equal(t, float64(14), q.Max)
	assert.Equal(t, 0.5, q.Step)
	assert.Equal(t, "hours", q.Unit)
}

func TestOracleRejectsInvertedSliderRange(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `{"type": "slider", "question": "Rate it.", "min": 10, "max": 3}`

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrOracleReply)
}

func TestOracleShortAnswerDefaults(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `{"type": "short_answer", "question": "Describe the pain."}`

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	require.NoError(t, err)
	q := res.Question

	assert.Equal(t, model.QuestionTypeShortAnswer, q.Type)
	assert.Equal(t, 300, q.MaxLength)
	assert.Equal(t, "Type your answer here", q.Placeholder)
	assert.Equal(t, "screening", q.Category)
}

func TestOracleUnknownTypeBecomesMultipleChoice(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `{"type": "checkbox", "question": "Pick one.", "options": ["A", "B"]}`

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, model.QuestionTypeMultipleChoice, res.Question.Type)
	assert.Equal(t, []string{"A", "B"}, res.Question.Options)
}

func TestOracleRejectsChoiceWithoutOptions(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `{"type": "multiple_choice", "question": "Pick one."}`

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrOracleReply)
}

func TestOracleRequiredFalsePreserved(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `{"type": "short_answer", "question": "Anything else?", "required": false}`

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	require.NoError(t, err)
	assert.False(t, res.Question.Required)
}

func TestOracleFreshIDsPerReply(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `{"type": "short_answer", "question": "Describe it."}`
	oracle := stub.oracle()

	first, err := oracle.NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	require.NoError(t, err)
	second, err := oracle.NextQuestion(context.Background(), model.AnswerRecord{}, 1, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.Question.ID, second.Question.ID)
}

func TestOracleMalformedReply(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `next question: how old are you?`

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrOracleReply)
}

func TestOracleUpstreamError(t *testing.T) {
	stub := newGeminiStub(t)
	stub.status = http.StatusServiceUnavailable

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	assert.Nil(t, res)
	assert.Error(t, err)
}

func TestOracleMissingQuestionText(t *testing.T) {
	stub := newGeminiStub(t)
	stub.reply = `{"type": "short_answer"}`

	res, err := stub.oracle().NextQuestion(context.Background(), model.AnswerRecord{}, 0, nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrOracleReply)
}
