package postgres

import (
	"context"
	"errors"
	"tuvino/domain"

	"gorm.io/gorm"
)

type PreferenceRepository struct {
	DB *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{
		DB: db,
	}
}

// Upsert stores the onboarding questionnaire answers. One row per user.
func (r *PreferenceRepository) Upsert(ctx context.Context, pref *domain.UserPreference) error {
	var existing domain.UserPreference

	err := r.DB.WithContext(ctx).Where("user_id = ?", pref.UserID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.DB.WithContext(ctx).Create(&pref).Error
		}
		return err
	}

	pref.ID = existing.ID
	return r.DB.WithContext(ctx).Model(&existing).
		Updates(map[string]any{
			"type":      pref.Type,
			"body":      pref.Body,
			"intensity": pref.Intensity,
			"dryness":   pref.Dryness,
			"abv":       pref.ABV,
		}).Error
}

func (r *PreferenceRepository) FindByUserID(ctx context.Context, userID string) (*domain.UserPreference, error) {
	var pref domain.UserPreference

	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &pref, nil
}
