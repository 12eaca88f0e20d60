package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/ashankshah/solace/internal/cache"
	"github.com/ashankshah/solace/internal/model"
	"github.com/ashankshah/solace/internal/repository"
)

var ErrClinicNotFound = errors.New("clinic not found")

// ClinicService handles clinic CRUD and layout updates
type ClinicService struct {
	clinicRepo  repository.ClinicRepo
	clinicCache cache.ClinicCache
}

// NewClinicService creates a new clinic service
func NewClinicService(clinicRepo repository.ClinicRepo, clinicCache cache.ClinicCache) *ClinicService {
	return &ClinicService{
		clinicRepo:  clinicRepo,
		clinicCache: clinicCache,
	}
}

// Create registers a clinic, generating a join code if none is supplied.
func (s *ClinicService) Create(ctx context.Context, clinic *model.Clinic) error {
	if clinic.Code == "" {
		clinic.Code = strings.ToUpper(uuid.New().String()[:6])
	}
	if clinic.Layout.Rows == 0 && clinic.Layout.Cols == 0 && len(clinic.Layout.Rooms) == 0 {
		// Default grid for clinics created without a floor plan.
		clinic.Layout = model.RoomLayout{Rows: 4, Cols: 4}
	} else if err := clinic.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}

	existing, err := s.clinicRepo.GetByCode(ctx, clinic.Code)
	if err != nil {
		return fmt.Errorf("failed to check clinic code: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("clinic code %s already in use", clinic.Code)
	}

	if err := s.clinicRepo.Create(ctx, clinic); err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}

	if err := s.cacheMeta(ctx, clinic); err != nil {
		log.Printf("[Clinic] failed to cache meta for %s: %v", clinic.Code, err)
	}
	return nil
}

// GetByCode resolves a clinic, cache first.
func (s *ClinicService) GetByCode(ctx context.Context, code string) (*model.Clinic, error) {
	clinic, err := s.clinicRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load clinic: %w", err)
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}
	return clinic, nil
}

// ResolveMeta returns the cached clinic metadata, falling back to Mongo.
func (s *ClinicService) ResolveMeta(ctx context.Context, code string) (*model.ClinicMeta, error) {
	meta, err := s.clinicCache.GetMeta(ctx, code)
	if err != nil {
		log.Printf("[Clinic] cache lookup failed for %s: %v", code, err)
	}
	if meta != nil {
		return meta, nil
	}

	clinic, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.cacheMeta(ctx, clinic); err != nil {
		log.Printf("[Clinic] failed to cache meta for %s: %v", code, err)
	}
	return &model.ClinicMeta{ID: clinic.ID, Code: clinic.Code, Name: clinic.Name}, nil
}

// List returns all clinics.
func (s *ClinicService) List(ctx context.Context) ([]*model.Clinic, error) {
	return s.clinicRepo.List(ctx)
}

// Update replaces clinic fields and refreshes the cache.
func (s *ClinicService) Update(ctx context.Context, clinic *model.Clinic) error {
	if err := clinic.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	if err := s.clinicRepo.Update(ctx, clinic); err != nil {
		return fmt.Errorf("failed to update clinic: %w", err)
	}
	return s.cacheMeta(ctx, clinic)
}

// UpdateLayout validates and persists a new room layout grid.
func (s *ClinicService) UpdateLayout(ctx context.Context, code string, layout model.RoomLayout) error {
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	clinic, err := s.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	return s.clinicRepo.UpdateLayout(ctx, clinic.Code, layout)
}

// Delete removes a clinic and evicts its cache entry.
func (s *ClinicService) Delete(ctx context.Context, code string) error {
	if err := s.clinicRepo.Delete(ctx, code); err != nil {
		return fmt.Errorf("failed to delete clinic: %w", err)
	}
	return s.clinicCache.Delete(ctx, code)
}

func (s *ClinicService) cacheMeta(ctx context.Context, clinic *model.Clinic) error {
	return s.clinicCache.SetMeta(ctx, &model.ClinicMeta{
		ID:   clinic.ID,
		Code: clinic.Code,
		Name: clinic.Name,
	})
}
