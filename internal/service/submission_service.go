package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashankshah/solace/internal/model"
	"github.com/ashankshah/solace/internal/repository"
)

var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionService persists completed interviews for clinician review
type SubmissionService struct {
	submissionRepo repository.SubmissionRepo
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(submissionRepo repository.SubmissionRepo) *SubmissionService {
	return &SubmissionService{submissionRepo: submissionRepo}
}

// Create stores the interview handoff artifact.
func (s *SubmissionService) Create(ctx context.Context, sub *model.Submission) error {
	if len(sub.Questions) == 0 {
		return fmt.Errorf("refusing to store an empty submission")
	}
	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}
	return nil
}

// GetByID returns one submission.
func (s *SubmissionService) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

// ListByClinic returns a clinic's submissions, newest first.
func (s *SubmissionService) ListByClinic(ctx context.Context, clinicCode string) ([]*model.Submission, error) {
	return s.submissionRepo.ListByClinic(ctx, clinicCode)
}

// Delete removes a submission.
func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	return s.submissionRepo.Delete(ctx, id)
}
