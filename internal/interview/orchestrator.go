package interview

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/ashankshah/solace/internal/model"
)

// MaxQuestions is the hard cap on questions per interview. It is never
// exceeded regardless of oracle instructions.
const MaxQuestions = 10

// State of the interview state machine
type State string

const (
	StateLoading  State = "loading"  // waiting on the next question
	StateQuestion State = "question" // a question is presented, awaiting the patient
	StateComplete State = "complete" // terminal: answers ready for handoff
	StateError    State = "error"    // terminal: no question source usable
)

// Source identifies which provider is generating questions. The transition
// oracle -> fallback happens at most once per session and is one-way.
type Source string

const (
	SourceOracle   Source = "oracle"
	SourceFallback Source = "fallback"
)

var (
	ErrNoCurrentQuestion = errors.New("no question is currently presented")
	ErrSkipRequired      = errors.New("cannot skip a required question")
)

// Interview drives one patient intake session: one question at a time,
// oracle-generated while possible, scripted once the oracle fails. All
// interview state lives here and only here.
type Interview struct {
	mu sync.Mutex

	oracle Oracle
	script *ScriptProvider
	max    int

	state   State
	source  Source
	history model.QuestionHistory
	answers model.AnswerRecord
	pos     int // index into history of the current question
}

// New creates an interview session backed by the given oracle.
func New(oracle Oracle) *Interview {
	return &Interview{
		oracle:  oracle,
		max:     MaxQuestions,
		state:   StateLoading,
		source:  SourceOracle,
		answers: make(model.AnswerRecord),
		pos:     -1,
	}
}

// Start requests the first question with empty context. Calling Start on a
// session that already has a question presented is a no-op.
func (iv *Interview) Start(ctx context.Context) error {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.state == StateComplete || iv.state == StateQuestion {
		return nil
	}
	return iv.loadNext(ctx)
}

// SubmitAnswer records the answer for the currently presented question and
// advances. Rejections (wrong id, wrong variant, empty required answer)
// leave the state untouched.
func (iv *Interview) SubmitAnswer(ctx context.Context, ans model.Answer) error {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.state == StateComplete {
		return nil
	}
	if iv.state != StateQuestion {
		return ErrNoCurrentQuestion
	}

	cur := iv.history[iv.pos]
	if err := ans.Validate(&cur); err != nil {
		return err
	}

	iv.answers[ans.QuestionID] = ans
	return iv.loadNext(ctx)
}

// Back steps to the previous history entry. At history position 0 (or when
// complete) it is a no-op, not an error. Recorded answers are never removed
// by navigation; the prior answer stays available as the editable draft.
func (iv *Interview) Back() error {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.state != StateQuestion || iv.pos <= 0 {
		return nil
	}
	iv.pos--
	return nil
}

// Skip advances past an optional question without recording an answer. Any
// answer previously recorded for this question (via back-navigation) is
// cleared: a skip is an explicit statement of "no answer".
func (iv *Interview) Skip(ctx context.Context) error {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.state == StateComplete {
		return nil
	}
	if iv.state != StateQuestion {
		return ErrNoCurrentQuestion
	}
	cur := iv.history[iv.pos]
	if cur.Required {
		return ErrSkipRequired
	}
	delete(iv.answers, cur.ID)
	return iv.loadNext(ctx)
}

// loadNext transitions to the next question, replaying history after
// back-navigation and fetching new content only at the frontier.
// Callers hold the mutex.
func (iv *Interview) loadNext(ctx context.Context) error {
	iv.state = StateLoading

	// Replay: forward navigation after Back never generates new content.
	if iv.pos+1 < len(iv.history) {
		iv.pos++
		iv.state = StateQuestion
		return nil
	}

	// Hard cap: short-circuit to complete, no oracle or fallback call.
	if len(iv.history) >= iv.max || iv.answers.Count() >= iv.max {
		iv.state = StateComplete
		return nil
	}

	if iv.source == SourceFallback {
		iv.presentScripted()
		return nil
	}

	res, err := iv.oracle.NextQuestion(ctx, iv.answers, iv.answers.Count(), iv.history)
	if err != nil {
		log.Printf("[Interview] oracle unavailable, switching to fallback script: %v", err)
		iv.source = SourceFallback
		iv.script = NewScriptProvider()
		iv.presentScripted()
		return nil
	}
	if res.Complete {
		iv.state = StateComplete
		return nil
	}

	iv.present(*res.Question)
	return nil
}

func (iv *Interview) presentScripted() {
	q, ok := iv.script.Next()
	if !ok {
		// Script exhaustion is a normal completion signal.
		iv.state = StateComplete
		return
	}
	iv.present(*q)
}

func (iv *Interview) present(q model.Question) {
	iv.history = append(iv.history, q)
	iv.pos = len(iv.history) - 1
	iv.state = StateQuestion
}

// Current returns a copy of the question presently shown, or nil.
func (iv *Interview) Current() *model.Question {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.state != StateQuestion {
		return nil
	}
	q := iv.history[iv.pos]
	return &q
}

// Draft returns the recorded answer for the current question, if any, so a
// revisited question can be pre-filled without re-submitting.
func (iv *Interview) Draft() (model.Answer, bool) {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.state != StateQuestion {
		return model.Answer{}, false
	}
	ans, ok := iv.answers[iv.history[iv.pos].ID]
	return ans, ok
}

// Complete reports whether the interview reached its terminal state.
func (iv *Interview) Complete() bool {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return iv.state == StateComplete
}

// State returns the current state machine state.
func (iv *Interview) State() State {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return iv.state
}

// Degraded reports whether the session has switched to the fallback script.
func (iv *Interview) Degraded() bool {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return iv.source == SourceFallback
}

// PresentedCount returns how many distinct questions have been presented.
func (iv *Interview) PresentedCount() int {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return len(iv.history)
}

// Progress returns presented questions over the hard cap, for UI feedback.
func (iv *Interview) Progress() float64 {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return float64(len(iv.history)) / float64(iv.max)
}

// Result hands off the interview output: the presented questions in order
// and the answer record. Valid at any point; callers normally wait for
// Complete.
func (iv *Interview) Result() (model.QuestionHistory, model.AnswerRecord) {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	history := make(model.QuestionHistory, len(iv.history))
	copy(history, iv.history)
	answers := make(model.AnswerRecord, len(iv.answers))
	for id, ans := range iv.answers {
		answers[id] = ans
	}
	return history, answers
}
