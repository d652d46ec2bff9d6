package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/taskflow/internal/model"
)

// ProfileRepository defines the interface for profile storage
type ProfileRepository interface {
	Load(ctx context.Context) (*model.UserProfile, error)
	Save(ctx context.Context, profile *model.UserProfile) error
	TouchLastLogin(ctx context.Context) *model.UserProfile
	Clear(ctx context.Context) error
}

// ProfileService handles onboarding and the local profile record
type ProfileService struct {
	repo   ProfileRepository
	logger *slog.Logger
	now    func() time.Time
}

// ProfileServiceConfig holds configuration for the profile service
type ProfileServiceConfig struct {
	ProfileRepo ProfileRepository
	Logger      *slog.Logger
	Now         func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(cfg ProfileServiceConfig) *ProfileService {
	s := &ProfileService{
		repo:   cfg.ProfileRepo,
		logger: cfg.Logger,
		now:    cfg.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Register validates the onboarding form and stores a new profile,
// replacing any existing one
func (s *ProfileService) Register(ctx context.Context, req *model.RegisterProfileRequest) (*model.UserProfile, error) {
	now := s.now()
	if errs := req.Validate(now); len(errs) > 0 {
		return nil, &ProfileValidationError{Errors: errs}
	}

	profile := &model.UserProfile{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		DateOfBirth: strings.TrimSpace(req.DateOfBirth),
		CreatedAt:   now.UTC(),
		LastLogin:   now.UTC(),
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, persistenceError("save profile", err)
	}

	s.logger.Info("profile registered", "id", profile.ID, "name", profile.Name)
	return profile, nil
}

// Current returns the stored profile or ErrProfileNotFound
func (s *ProfileService) Current(ctx context.Context) (*model.UserProfile, error) {
	profile, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// SignOut removes the profile; the user's tasks stay in storage
func (s *ProfileService) SignOut(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return persistenceError("clear profile", err)
	}
	s.logger.Info("signed out")
	return nil
}

// RefreshIfStale stamps LastLogin when more than staleAfter has passed
// since the last one. It reports whether a stamp was written.
func (s *ProfileService) RefreshIfStale(ctx context.Context, staleAfter time.Duration) (bool, error) {
	profile, err := s.Current(ctx)
	if err != nil {
		return false, err
	}

	if s.now().Sub(profile.LastLogin) <= staleAfter {
		return false, nil
	}

	if touched := s.repo.TouchLastLogin(ctx); touched == nil {
		return false, ErrProfileNotFound
	}
	s.logger.Debug("refreshed last login", "id", profile.ID)
	return true, nil
}
