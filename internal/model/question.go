package model

// QuestionType defines the type of intake question
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice" // Pick one option
	QuestionTypeShortAnswer    QuestionType = "short_answer"    // Free text, length-capped
	QuestionTypeSlider         QuestionType = "slider"          // Numeric scale, e.g. pain 0-10
)

// Defaults applied when a question omits its bounds
const (
	DefaultShortAnswerMaxLength = 500
	DefaultSliderStep           = 1
)

// Question is a single intake question presented to a patient.
// Immutable once created; variant fields are populated per Type.
type Question struct {
	ID       string       `json:"id" bson:"id"`
	Type     QuestionType `json:"type" bson:"type"`
	Text     string       `json:"question" bson:"question"`
	Category string       `json:"category,omitempty" bson:"category,omitempty"`
	Required bool         `json:"required" bson:"required"`

	// multiple_choice only
	Options []string `json:"options,omitempty" bson:"options,omitempty"`

	// short_answer only
	Placeholder string `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
	MaxLength   int    `json:"maxLength,omitempty" bson:"maxLength,omitempty"`

	// slider only
	Min      float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max      float64 `json:"max,omitempty" bson:"max,omitempty"`
	Step     float64 `json:"step,omitempty" bson:"step,omitempty"`
	MinLabel string  `json:"minLabel,omitempty" bson:"minLabel,omitempty"`
	MaxLabel string  `json:"maxLabel,omitempty" bson:"maxLabel,omitempty"`
	Unit     string  `json:"unit,omitempty" bson:"unit,omitempty"`
}

// QuestionHistory is the ordered sequence of questions as they were presented.
// Re-visiting an already-asked question never duplicates its entry.
type QuestionHistory []Question

// IndexOf returns the position of a question id in the history, or -1.
func (h QuestionHistory) IndexOf(id string) int {
	for i := range h {
		if h[i].ID == id {
			return i
		}
	}
	return -1
}
