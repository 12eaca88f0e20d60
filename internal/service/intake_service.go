package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashankshah/solace/internal/cache"
	"github.com/ashankshah/solace/internal/interview"
	"github.com/ashankshah/solace/internal/model"
)

var ErrSessionNotFound = errors.New("intake session not found")

// Broadcaster pushes intake lifecycle events to clinic dashboards
type Broadcaster interface {
	BroadcastToClinic(clinicCode string, msgType string, payload interface{})
}

// IntakeView is what the patient client sees after every navigation action
type IntakeView struct {
	SessionID string          `json:"sessionId"`
	State     interview.State `json:"state"`
	Question  *model.Question `json:"question,omitempty"`
	Draft     *model.Answer   `json:"draft,omitempty"`
	Progress  float64         `json:"progress"`
	Presented int             `json:"presented"`
	Degraded  bool            `json:"degraded"`
	Complete  bool            `json:"complete"`
}

// StartResult is returned when a patient opens a new intake session
type StartResult struct {
	Token string     `json:"token"`
	View  IntakeView `json:"view"`
}

type session struct {
	mu        sync.Mutex // guards meta and finalized
	meta      model.SessionMeta
	interview *interview.Interview
	finalized bool
}

// IntakeService owns all live interview sessions. Each session holds its
// interview state in memory; only display metadata is mirrored to Redis.
type IntakeService struct {
	clinicSvc     *ClinicService
	submissionSvc *SubmissionService
	authSvc       *AuthService
	sessionCache  cache.SessionCache
	oracle        interview.Oracle
	broadcaster   Broadcaster

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewIntakeService creates the intake session manager.
func NewIntakeService(
	clinicSvc *ClinicService,
	submissionSvc *SubmissionService,
	authSvc *AuthService,
	sessionCache cache.SessionCache,
	oracle interview.Oracle,
) *IntakeService {
	return &IntakeService{
		clinicSvc:     clinicSvc,
		submissionSvc: submissionSvc,
		authSvc:       authSvc,
		sessionCache:  sessionCache,
		oracle:        oracle,
		sessions:      make(map[string]*session),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *IntakeService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// StartSession creates an interview for a patient checking in at a clinic
// and presents the first question.
func (s *IntakeService) StartSession(ctx context.Context, clinicCode, patientName string) (*StartResult, error) {
	meta, err := s.clinicSvc.ResolveMeta(ctx, clinicCode)
	if err != nil {
		return nil, err
	}

	iv := interview.New(s.oracle)
	if err := iv.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start interview: %w", err)
	}

	sess := &session{
		meta: model.SessionMeta{
			ID:          uuid.New().String(),
			ClinicCode:  meta.Code,
			PatientName: patientName,
			Status:      model.SessionActive,
			Presented:   iv.PresentedCount(),
			Degraded:    iv.Degraded(),
			StartedAt:   time.Now(),
		},
		interview: iv,
	}

	s.mu.Lock()
	s.sessions[sess.meta.ID] = sess
	s.mu.Unlock()

	token, err := s.authSvc.GeneratePatientToken(meta.Code, sess.meta.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue patient token: %w", err)
	}

	s.syncMeta(ctx, sess)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToClinic(meta.Code, "intake_started", sess.meta)
	}

	log.Printf("[Intake] session %s started at clinic %s", sess.meta.ID, meta.Code)
	return &StartResult{Token: token, View: s.view(sess)}, nil
}

// Current returns the presented question and draft for a session.
func (s *IntakeService) Current(ctx context.Context, sessionID string) (*IntakeView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	view := s.view(sess)
	return &view, nil
}

// SubmitAnswer validates and records an answer, then advances the interview.
func (s *IntakeService) SubmitAnswer(ctx context.Context, sessionID string, ans model.Answer) (*IntakeView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.interview.SubmitAnswer(ctx, ans); err != nil {
		return nil, err
	}
	return s.afterAdvance(ctx, sess)
}

// Back replays the previous question without touching recorded answers.
func (s *IntakeService) Back(ctx context.Context, sessionID string) (*IntakeView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.interview.Back(); err != nil {
		return nil, err
	}
	view := s.view(sess)
	return &view, nil
}

// Skip advances past an optional question.
func (s *IntakeService) Skip(ctx context.Context, sessionID string) (*IntakeView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.interview.Skip(ctx); err != nil {
		return nil, err
	}
	return s.afterAdvance(ctx, sess)
}

// ListSessions returns dashboard metadata for a clinic's recent sessions.
func (s *IntakeService) ListSessions(ctx context.Context, clinicCode string) ([]*model.SessionMeta, error) {
	return s.sessionCache.ListByClinic(ctx, clinicCode)
}

func (s *IntakeService) get(sessionID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// afterAdvance refreshes metadata, notifies the dashboard, and finalizes
// the session once the interview completes.
func (s *IntakeService) afterAdvance(ctx context.Context, sess *session) (*IntakeView, error) {
	sess.mu.Lock()
	wasDegraded := sess.meta.Degraded
	sess.meta.Presented = sess.interview.PresentedCount()
	sess.meta.Degraded = sess.interview.Degraded()
	meta := sess.meta
	sess.mu.Unlock()

	if s.broadcaster != nil {
		if !wasDegraded && meta.Degraded {
			s.broadcaster.BroadcastToClinic(meta.ClinicCode, "intake_degraded", map[string]string{
				"sessionId": meta.ID,
			})
		}
		s.broadcaster.BroadcastToClinic(meta.ClinicCode, "intake_progress", meta)
	}

	if sess.interview.Complete() {
		if err := s.finalize(ctx, sess); err != nil {
			return nil, err
		}
	}

	s.syncMeta(ctx, sess)
	view := s.view(sess)
	return &view, nil
}

// finalize hands the interview output to the submission store. Idempotent:
// a completed session is only persisted once.
func (s *IntakeService) finalize(ctx context.Context, sess *session) error {
	sess.mu.Lock()
	if sess.finalized {
		sess.mu.Unlock()
		return nil
	}
	sess.finalized = true
	sess.mu.Unlock()

	questions, answers := sess.interview.Result()
	if len(questions) == 0 {
		// Oracle ended the interview before presenting anything; there is
		// no artifact to store.
		sess.markCompleted()
		log.Printf("[Intake] session %s completed with no questions presented", sess.meta.ID)
		return nil
	}

	sub := &model.Submission{
		ClinicCode:  sess.meta.ClinicCode,
		SessionID:   sess.meta.ID,
		PatientName: sess.meta.PatientName,
		Questions:   questions,
		Answers:     answers,
		Degraded:    sess.interview.Degraded(),
	}
	if err := s.submissionSvc.Create(ctx, sub); err != nil {
		sess.mu.Lock()
		sess.finalized = false
		sess.mu.Unlock()
		return err
	}

	sess.markCompleted()

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToClinic(sess.meta.ClinicCode, "intake_completed", map[string]interface{}{
			"sessionId":    sess.meta.ID,
			"submissionId": sub.ID,
			"degraded":     sub.Degraded,
		})
	}

	log.Printf("[Intake] session %s completed, submission %s stored", sess.meta.ID, sub.ID)
	return nil
}

func (sess *session) markCompleted() {
	now := time.Now()
	sess.mu.Lock()
	sess.meta.Status = model.SessionCompleted
	sess.meta.CompletedAt = &now
	sess.mu.Unlock()
}

func (s *IntakeService) syncMeta(ctx context.Context, sess *session) {
	sess.mu.Lock()
	meta := sess.meta
	sess.mu.Unlock()
	if err := s.sessionCache.Set(ctx, &meta); err != nil {
		log.Printf("[Intake] failed to cache session meta %s: %v", meta.ID, err)
	}
}

func (s *IntakeService) view(sess *session) IntakeView {
	iv := sess.interview
	view := IntakeView{
		SessionID: sess.meta.ID,
		State:     iv.State(),
		Question:  iv.Current(),
		Progress:  iv.Progress(),
		Presented: iv.PresentedCount(),
		Degraded:  iv.Degraded(),
		Complete:  iv.Complete(),
	}
	if draft, ok := iv.Draft(); ok {
		view.Draft = &draft
	}
	return view
}
