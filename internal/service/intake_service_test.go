package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashankshah/solace/internal/interview"
	"github.com/ashankshah/solace/internal/model"
)

// In-memory doubles for the Mongo repositories and Redis caches.

type memClinicRepo struct {
	clinics map[string]*model.Clinic
}

func newMemClinicRepo() *memClinicRepo {
	return &memClinicRepo{clinics: make(map[string]*model.Clinic)}
}

func (r *memClinicRepo) Create(_ context.Context, clinic *model.Clinic) error {
	if clinic.ID == "" {
		clinic.ID = fmt.Sprintf("clinic-%d", len(r.clinics)+1)
	}
	r.clinics[clinic.Code] = clinic
	return nil
}

func (r *memClinicRepo) GetByCode(_ context.Context, code string) (*model.Clinic, error) {
	return r.clinics[code], nil
}

func (r *memClinicRepo) List(_ context.Context) ([]*model.Clinic, error) {
	out := make([]*model.Clinic, 0, len(r.clinics))
	for _, c := range r.clinics {
		out = append(out, c)
	}
	return out, nil
}

func (r *memClinicRepo) Update(_ context.Context, clinic *model.Clinic) error {
	r.clinics[clinic.Code] = clinic
	return nil
}

func (r *memClinicRepo) UpdateLayout(_ context.Context, code string, layout model.RoomLayout) error {
	if c, ok := r.clinics[code]; ok {
		c.Layout = layout
	}
	return nil
}

func (r *memClinicRepo) Delete(_ context.Context, code string) error {
	delete(r.clinics, code)
	return nil
}

type memSubmissionRepo struct {
	mu   sync.Mutex
	subs []*model.Submission
}

func (r *memSubmissionRepo) Create(_ context.Context, sub *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub.ID = fmt.Sprintf("sub-%d", len(r.subs)+1)
	r.subs = append(r.subs, sub)
	return nil
}

func (r *memSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	for _, s := range r.subs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memSubmissionRepo) ListByClinic(_ context.Context, clinicCode string) ([]*model.Submission, error) {
	var out []*model.Submission
	for _, s := range r.subs {
		if s.ClinicCode == clinicCode {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSubmissionRepo) Delete(_ context.Context, id string) error {
	for i, s := range r.subs {
		if s.ID == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return nil
		}
	}
	return nil
}

type memClinicCache struct {
	metas map[string]*model.ClinicMeta
}

func newMemClinicCache() *memClinicCache {
	return &memClinicCache{metas: make(map[string]*model.ClinicMeta)}
}

func (c *memClinicCache) SetMeta(_ context.Context, meta *model.ClinicMeta) error {
	c.metas[meta.Code] = meta
	return nil
}

func (c *memClinicCache) GetMeta(_ context.Context, code string) (*model.ClinicMeta, error) {
	return c.metas[code], nil
}

func (c *memClinicCache) Delete(_ context.Context, code string) error {
	delete(c.metas, code)
	return nil
}

type memSessionCache struct {
	mu    sync.Mutex
	metas map[string]*model.SessionMeta
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{metas: make(map[string]*model.SessionMeta)}
}

func (c *memSessionCache) Set(_ context.Context, meta *model.SessionMeta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *meta
	c.metas[meta.ID] = &cp
	return nil
}

func (c *memSessionCache) Get(_ context.Context, id string) (*model.SessionMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metas[id], nil
}

func (c *memSessionCache) ListByClinic(_ context.Context, clinicCode string) ([]*model.SessionMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*model.SessionMeta
	for _, m := range c.metas {
		if m.ClinicCode == clinicCode {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c *memSessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.metas, id)
	return nil
}

type wsEvent struct {
	clinic  string
	msgType string
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []wsEvent
}

func (b *recordingBroadcaster) BroadcastToClinic(clinicCode string, msgType string, _ interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, wsEvent{clinic: clinicCode, msgType: msgType})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.msgType)
	}
	return out
}

// downOracle always fails, so every session runs on the fallback script.
type downOracle struct{}

func (downOracle) NextQuestion(context.Context, model.AnswerRecord, int, model.QuestionHistory) (*interview.Result, error) {
	return nil, errors.New("oracle down")
}

// flakyOracle serves one question then fails.
type flakyOracle struct {
	calls int
}

func (o *flakyOracle) NextQuestion(context.Context, model.AnswerRecord, int, model.QuestionHistory) (*interview.Result, error) {
	o.calls++
	if o.calls == 1 {
		return &interview.Result{Question: &model.Question{
			ID:        "oracle-1",
			Type:      model.QuestionTypeShortAnswer,
			Text:      "What brings you in today?",
			Required:  true,
			MaxLength: 300,
		}}, nil
	}
	return nil, errors.New("oracle down")
}

type intakeFixture struct {
	svc         *IntakeService
	subs        *memSubmissionRepo
	broadcaster *recordingBroadcaster
	sessions    *memSessionCache
}

func newIntakeFixture(t *testing.T, oracle interview.Oracle) *intakeFixture {
	t.Helper()
	ctx := context.Background()

	clinicRepo := newMemClinicRepo()
	clinicSvc := NewClinicService(clinicRepo, newMemClinicCache())
	require.NoError(t, clinicSvc.Create(ctx, &model.Clinic{Code: "TEST01", Name: "Test Clinic"}))

	subs := &memSubmissionRepo{}
	sessions := newMemSessionCache()
	broadcaster := &recordingBroadcaster{}

	svc := NewIntakeService(clinicSvc, NewSubmissionService(subs), NewAuthService(), sessions, oracle)
	svc.SetBroadcaster(broadcaster)

	return &intakeFixture{svc: svc, subs: subs, broadcaster: broadcaster, sessions: sessions}
}

func answerView(view *IntakeView) model.Answer {
	q := view.Question
	ans := model.Answer{QuestionID: q.ID, Type: q.Type}
	switch q.Type {
	case model.QuestionTypeMultipleChoice:
		ans.SelectedIndex = 0
		ans.SelectedValue = q.Options[0]
	case model.QuestionTypeShortAnswer:
		ans.Text = "test response"
	case model.QuestionTypeSlider:
		ans.Value = q.Min
	}
	return ans
}

func TestStartSessionUnknownClinic(t *testing.T) {
	fx := newIntakeFixture(t, downOracle{})
	_, err := fx.svc.StartSession(context.Background(), "NOPE", "Pat")
	assert.ErrorIs(t, err, ErrClinicNotFound)
}

func TestStartSessionPresentsFirstQuestion(t *testing.T) {
	fx := newIntakeFixture(t, downOracle{})
	res, err := fx.svc.StartSession(context.Background(), "TEST01", "Pat")
	require.NoError(t, err)

	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.View.SessionID)
	assert.Equal(t, interview.StateQuestion, res.View.State)
	require.NotNil(t, res.View.Question)
	assert.True(t, res.View.Degraded)

	// The dashboard learns about the new session immediately.
	assert.Contains(t, fx.broadcaster.types(), "intake_started")
	meta, err := fx.sessions.Get(context.Background(), res.View.SessionID)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, model.SessionActive, meta.Status)
}

func TestSessionNotFound(t *testing.T) {
	fx := newIntakeFixture(t, downOracle{})
	_, err := fx.svc.Current(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFullFallbackSessionProducesSubmission(t *testing.T) {
	ctx := context.Background()
	fx := newIntakeFixture(t, downOracle{})

	res, err := fx.svc.StartSession(ctx, "TEST01", "Pat")
	require.NoError(t, err)
	id := res.View.SessionID

	view := &res.View
	for !view.Complete {
		view, err = fx.svc.SubmitAnswer(ctx, id, answerView(view))
		require.NoError(t, err)
	}

	assert.Equal(t, interview.StateComplete, view.State)
	assert.Nil(t, view.Question)

	require.Len(t, fx.subs.subs, 1)
	sub := fx.subs.subs[0]
	assert.Equal(t, "TEST01", sub.ClinicCode)
	assert.Equal(t, id, sub.SessionID)
	assert.Equal(t, "Pat", sub.PatientName)
	assert.Len(t, sub.Questions, 8)
	assert.Equal(t, 8, sub.Answers.Count())
	assert.True(t, sub.Degraded)

	assert.Contains(t, fx.broadcaster.types(), "intake_completed")

	meta, err := fx.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, meta.Status)
	require.NotNil(t, meta.CompletedAt)
}

func TestCompletedSessionIsFinalizedOnce(t *testing.T) {
	ctx := context.Background()
	fx := newIntakeFixture(t, downOracle{})

	res, err := fx.svc.StartSession(ctx, "TEST01", "Pat")
	require.NoError(t, err)
	id := res.View.SessionID

	view := &res.View
	for !view.Complete {
		view, err = fx.svc.SubmitAnswer(ctx, id, answerView(view))
		require.NoError(t, err)
	}

	// Replays of the final action must not store a second submission.
	again, err := fx.svc.SubmitAnswer(ctx, id, model.Answer{QuestionID: "whatever"})
	require.NoError(t, err)
	assert.True(t, again.Complete)
	assert.Len(t, fx.subs.subs, 1)
}

func TestConcurrentFinalAnswersFinalizeOnce(t *testing.T) {
	ctx := context.Background()
	fx := newIntakeFixture(t, downOracle{})

	res, err := fx.svc.StartSession(ctx, "TEST01", "Pat")
	require.NoError(t, err)
	id := res.View.SessionID

	// Answer everything except the last question.
	view := &res.View
	for view.Presented < 8 {
		view, err = fx.svc.SubmitAnswer(ctx, id, answerView(view))
		require.NoError(t, err)
	}

	// Several clients race the final submission; later ones land on an
	// already-complete interview and must not re-finalize.
	final := answerView(view)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.svc.SubmitAnswer(ctx, id, final)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, fx.subs.subs, 1)
	meta, err := fx.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, meta.Status)
	require.NotNil(t, meta.CompletedAt)
}

func TestMidSessionDegradationBroadcasts(t *testing.T) {
	ctx := context.Background()
	fx := newIntakeFixture(t, &flakyOracle{})

	res, err := fx.svc.StartSession(ctx, "TEST01", "Pat")
	require.NoError(t, err)
	assert.False(t, res.View.Degraded)

	view, err := fx.svc.SubmitAnswer(ctx, res.View.SessionID, answerView(&res.View))
	require.NoError(t, err)

	assert.True(t, view.Degraded)
	assert.Contains(t, fx.broadcaster.types(), "intake_degraded")

	meta, err := fx.sessions.Get(ctx, view.SessionID)
	require.NoError(t, err)
	assert.True(t, meta.Degraded)
}

func TestBackRestoresDraft(t *testing.T) {
	ctx := context.Background()
	fx := newIntakeFixture(t, downOracle{})

	res, err := fx.svc.StartSession(ctx, "TEST01", "Pat")
	require.NoError(t, err)
	id := res.View.SessionID
	firstQuestion := res.View.Question.ID

	submitted := answerView(&res.View)
	_, err = fx.svc.SubmitAnswer(ctx, id, submitted)
	require.NoError(t, err)

	view, err := fx.svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, firstQuestion, view.Question.ID)
	require.NotNil(t, view.Draft)
	assert.Equal(t, submitted.SelectedValue, view.Draft.SelectedValue)
}

func TestSkipRequiredSurfacesError(t *testing.T) {
	ctx := context.Background()
	fx := newIntakeFixture(t, downOracle{})

	res, err := fx.svc.StartSession(ctx, "TEST01", "Pat")
	require.NoError(t, err)

	_, err = fx.svc.Skip(ctx, res.View.SessionID)
	assert.ErrorIs(t, err, interview.ErrSkipRequired)
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()
	fx := newIntakeFixture(t, downOracle{})

	_, err := fx.svc.StartSession(ctx, "TEST01", "Pat")
	require.NoError(t, err)
	_, err = fx.svc.StartSession(ctx, "TEST01", "Sam")
	require.NoError(t, err)

	metas, err := fx.svc.ListSessions(ctx, "TEST01")
	require.NoError(t, err)
	assert.Len(t, metas, 2)
}
