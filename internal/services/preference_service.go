package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
)

// preferenceService handles per-user settings.
type preferenceService struct {
	db *gorm.DB
}

// NewPreferenceService creates a new PreferenceServicer.
func NewPreferenceService(db *gorm.DB) PreferenceServicer {
	return &preferenceService{db: db}
}

// GetPreferences returns the user's preferences, creating the default row
// (auto-adjust enabled) for users that predate the preferences table.
func (s *preferenceService) GetPreferences(userID string) (*models.Preferences, error) {
	var prefs models.Preferences
	err := s.db.Where("user_id = ?", userID).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prefs = models.Preferences{UserID: userID, AutoAdjustParentBudgets: true}
	if err := s.db.Create(&prefs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &prefs, nil
}

// UpdatePreferences sets the auto-adjust flag.
func (s *preferenceService) UpdatePreferences(userID string, autoAdjustParentBudgets bool) (*models.Preferences, error) {
	prefs, err := s.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(prefs).Update("auto_adjust_parent_budgets", autoAdjustParentBudgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	prefs.AutoAdjustParentBudgets = autoAdjustParentBudgets
	return prefs, nil
}
