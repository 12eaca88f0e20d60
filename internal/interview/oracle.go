package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ashankshah/solace/internal/config"
	"github.com/ashankshah/solace/internal/model"
)

var (
	ErrOracleDisabled = errors.New("oracle API key not configured")
	ErrOracleReply    = errors.New("oracle returned an unusable reply")
)

// Result is the outcome of one oracle call: either the next question or a
// completion signal. Errors are returned separately and trigger fallback.
type Result struct {
	Question *model.Question
	Complete bool
}

// Oracle produces the next interview question from the conversation so far.
type Oracle interface {
	NextQuestion(ctx context.Context, answers model.AnswerRecord, answeredCount int, history model.QuestionHistory) (*Result, error)
}

// GeminiOracle asks the Gemini API for the next question and normalizes the
// reply into the typed question model.
type GeminiOracle struct {
	cfg          *config.OracleConfig
	client       *http.Client
	maxQuestions int
}

// NewGeminiOracle creates an oracle client from the given config.
func NewGeminiOracle(cfg *config.OracleConfig) *GeminiOracle {
	return &GeminiOracle{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		maxQuestions: MaxQuestions,
	}
}

// rawReply is the loosely-shaped oracle response before normalization
type rawReply struct {
	Complete    bool     `json:"complete"`
	Type        string   `json:"type"`
	Question    string   `json:"question"`
	Category    string   `json:"category"`
	Required    *bool    `json:"required"`
	Options     []string `json:"options"`
	Placeholder string   `json:"placeholder"`
	MaxLength   *int     `json:"maxLength"`
	Min         *float64 `json:"min"`
	Max         *float64 `json:"max"`
	Step        *float64 `json:"step"`
	MinLabel    string   `json:"minLabel"`
	MaxLabel    string   `json:"maxLabel"`
	Unit        string   `json:"unit"`
}

// NextQuestion issues one request to the oracle. The hard question cap is
// enforced here regardless of what the oracle would say: at or past the cap
// it short-circuits to complete without any network call.
func (o *GeminiOracle) NextQuestion(ctx context.Context, answers model.AnswerRecord, answeredCount int, history model.QuestionHistory) (*Result, error) {
	if answeredCount >= o.maxQuestions {
		return &Result{Complete: true}, nil
	}
	if !o.cfg.IsEnabled() {
		return nil, ErrOracleDisabled
	}

	ictx := BuildContext(answers, history, o.maxQuestions)
	text, err := o.callGemini(ctx, ictx)
	if err != nil {
		return nil, err
	}

	var raw rawReply
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleReply, err)
	}
	if raw.Complete {
		return &Result{Complete: true}, nil
	}

	q, err := normalize(&raw)
	if err != nil {
		return nil, err
	}
	return &Result{Question: q}, nil
}

// normalize applies the defaulting rules and assigns a fresh id. Oracle-
// supplied ids are never trusted.
func normalize(raw *rawReply) (*model.Question, error) {
	if raw.Question == "" {
		return nil, fmt.Errorf("%w: missing question text", ErrOracleReply)
	}

	q := &model.Question{
		ID:       uuid.New().String(),
		Text:     raw.Question,
		Category: raw.Category,
		Required: true,
	}
	if raw.Required != nil {
		q.Required = *raw.Required
	}

	switch raw.Type {
	case string(model.QuestionTypeSlider):
		q.Type = model.QuestionTypeSlider
		q.Min, q.Max, q.Step = 0, 10, 1
		if raw.Min != nil {
			q.Min = *raw.Min
		}
		if raw.Max != nil {
			q.Max = *raw.Max
		}
		if raw.Step != nil && *raw.Step > 0 {
			q.Step = *raw.Step
		}
		if q.Min >= q.Max {
			return nil, fmt.Errorf("%w: slider range [%v,%v]", ErrOracleReply, q.Min, q.Max)
		}
		q.MinLabel, q.MaxLabel, q.Unit = raw.MinLabel, raw.MaxLabel, raw.Unit
		if q.Category == "" {
			q.Category = "severity"
		}
	case string(model.QuestionTypeShortAnswer):
		q.Type = model.QuestionTypeShortAnswer
		q.MaxLength = 300
		if raw.MaxLength != nil && *raw.MaxLength > 0 {
			q.MaxLength = *raw.MaxLength
		}
		q.Placeholder = raw.Placeholder
		if q.Placeholder == "" {
			q.Placeholder = "Type your answer here"
		}
		if q.Category == "" {
			q.Category = "screening"
		}
	default:
		// Unknown or missing type defaults to multiple choice.
		q.Type = model.QuestionTypeMultipleChoice
		q.Options = raw.Options
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: multiple choice without options", ErrOracleReply)
		}
		if q.Category == "" {
			q.Category = "screening"
		}
	}
	return q, nil
}

// callGemini posts the interview context to the Gemini API and extracts the
// JSON text of the first candidate.
func (o *GeminiOracle) callGemini(ctx context.Context, ictx Context) (string, error) {
	wire, err := ictx.MarshalWire()
	if err != nil {
		return "", err
	}

	prompt := ictx.Prompt + "\n\nInterview data:\n" + string(wire) + "\n\n" + replySchema

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", o.cfg.ModelEndpoint(), o.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		log.Printf("[Oracle] request failed: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[Oracle] API returned %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("oracle API error %d", resp.StatusCode)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracleReply, err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrOracleReply)
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

const replySchema = `Return ONLY valid JSON, one of:
{"complete": true}
{"type": "multiple_choice", "question": "...", "options": ["..."], "category": "...", "required": true}
{"type": "slider", "question": "...", "min": 0, "max": 10, "step": 1, "minLabel": "...", "maxLabel": "...", "unit": "...", "category": "...", "required": true}
{"type": "short_answer", "question": "...", "placeholder": "...", "maxLength": 300, "category": "...", "required": true}

Return {"complete": true} once the interview has enough information for a clinician to review.`
