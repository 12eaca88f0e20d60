package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrAnswerQuestionMismatch = errors.New("answer does not match the current question")
	ErrAnswerTypeMismatch     = errors.New("answer type does not match question type")
	ErrAnswerRequired         = errors.New("question is required")
	ErrAnswerInvalid          = errors.New("answer value is invalid")
)

// Answer is a patient response to one question. Exactly one variant's
// fields are meaningful, selected by Type.
type Answer struct {
	QuestionID string       `json:"questionId" bson:"questionId"`
	Type       QuestionType `json:"type" bson:"type"`

	// multiple_choice
	SelectedIndex int    `json:"selectedIndex,omitempty" bson:"selectedIndex,omitempty"`
	SelectedValue string `json:"selectedValue,omitempty" bson:"selectedValue,omitempty"`

	// short_answer
	Text string `json:"text,omitempty" bson:"text,omitempty"`

	// slider
	Value float64 `json:"value,omitempty" bson:"value,omitempty"`
}

// Validate checks the answer against the question it claims to answer.
func (a *Answer) Validate(q *Question) error {
	if a.QuestionID != q.ID {
		return ErrAnswerQuestionMismatch
	}
	if a.Type != q.Type {
		return ErrAnswerTypeMismatch
	}

	switch q.Type {
	case QuestionTypeMultipleChoice:
		if a.SelectedIndex < 0 || a.SelectedIndex >= len(q.Options) {
			return fmt.Errorf("%w: selectedIndex %d out of range [0,%d)", ErrAnswerInvalid, a.SelectedIndex, len(q.Options))
		}
		if a.SelectedValue != q.Options[a.SelectedIndex] {
			return fmt.Errorf("%w: selectedValue %q does not match option %q", ErrAnswerInvalid, a.SelectedValue, q.Options[a.SelectedIndex])
		}
	case QuestionTypeShortAnswer:
		maxLen := q.MaxLength
		if maxLen <= 0 {
			maxLen = DefaultShortAnswerMaxLength
		}
		if len(a.Text) > maxLen {
			return fmt.Errorf("%w: answer exceeds max length %d", ErrAnswerInvalid, maxLen)
		}
		if q.Required && strings.TrimSpace(a.Text) == "" {
			return ErrAnswerRequired
		}
	case QuestionTypeSlider:
		if a.Value < q.Min || a.Value > q.Max {
			return fmt.Errorf("%w: value %v outside range [%v,%v]", ErrAnswerInvalid, a.Value, q.Min, q.Max)
		}
		step := q.Step
		if step <= 0 {
			step = DefaultSliderStep
		}
		offset := (a.Value - q.Min) / step
		if math.Abs(offset-math.Round(offset)) > 1e-9 {
			return fmt.Errorf("%w: value %v not aligned to step %v from %v", ErrAnswerInvalid, a.Value, step, q.Min)
		}
	default:
		return ErrAnswerTypeMismatch
	}
	return nil
}

// Display renders the answer value the way a clinician (or the question
// oracle) should read it. Empty short answers render as a placeholder so
// "no response" stays distinguishable from a missing record.
func (a *Answer) Display() string {
	switch a.Type {
	case QuestionTypeMultipleChoice:
		return a.SelectedValue
	case QuestionTypeShortAnswer:
		if strings.TrimSpace(a.Text) == "" {
			return "(no response)"
		}
		return a.Text
	case QuestionTypeSlider:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", a.Value), "0"), ".")
	}
	return ""
}

// AnswerRecord maps question id -> answer. Grows monotonically during a
// session; an entry is only replaced by a re-answer (or cleared by an
// explicit skip of that question).
type AnswerRecord map[string]Answer

// Count returns the number of answered questions.
func (r AnswerRecord) Count() int {
	return len(r)
}
