package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/forgo/taskflow/internal/database"
	"github.com/forgo/taskflow/internal/model"
)

// ProfileSlot is the well-known slot holding the single user profile
const ProfileSlot = "user"

// IdentityRepository reads and writes the user profile slot
type IdentityRepository struct {
	store  database.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(store database.Store, logger *slog.Logger) *IdentityRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityRepository{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces the time source used by TouchLastLogin
func (r *IdentityRepository) SetClock(now func() time.Time) {
	r.now = now
}

// Load returns the stored profile, or nil when the slot is missing,
// unparseable, or lacks a name or date of birth
func (r *IdentityRepository) Load(ctx context.Context) (*model.UserProfile, error) {
	raw, ok, err := readSlot(ctx, r.store, ProfileSlot)
	if err != nil || !ok {
		return nil, err
	}

	var profile model.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		r.logger.Warn("ignoring malformed profile", "error", err)
		return nil, nil
	}
	if !profile.Complete() {
		return nil, nil
	}
	return &profile, nil
}

// Save writes the whole profile record, replacing any prior value
func (r *IdentityRepository) Save(ctx context.Context, profile *model.UserProfile) error {
	if profile == nil {
		return fmt.Errorf("save profile: nil profile")
	}
	return writeSlot(ctx, r.store, ProfileSlot, profile)
}

// TouchLastLogin stamps LastLogin with the current time. It returns the
// updated profile, or nil when no profile exists. Write failures are logged
// and the in-memory stamp is still returned.
func (r *IdentityRepository) TouchLastLogin(ctx context.Context) *model.UserProfile {
	profile, err := r.Load(ctx)
	if err != nil {
		r.logger.Warn("failed to load profile for last login", "error", err)
		return nil
	}
	if profile == nil {
		return nil
	}

	profile.LastLogin = r.now().UTC()
	if err := r.Save(ctx, profile); err != nil {
		r.logger.Warn("failed to update last login", "error", err)
	}
	return profile
}

// Clear removes the profile slot. Task slots are left in place.
func (r *IdentityRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, ProfileSlot); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	return nil
}
