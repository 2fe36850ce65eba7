package services

import (
	"database/sql"
	"errors"
	"fmt"

	"power_gym_backend/internal/models"
	"power_gym_backend/internal/repositories"
	"power_gym_backend/pkg/utils"
)

// SettingsService reads and writes the gym configuration.
type SettingsService struct {
	settingsRepo repositories.SettingsRepository
	db           *sql.DB
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settingsRepo repositories.SettingsRepository, db *sql.DB) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, db: db}
}

// GetSettings returns the current configuration, falling back to
// defaults when the row has never been written.
func (s *SettingsService) GetSettings() (*models.AppSettings, error) {
	settings, err := s.settingsRepo.GetSettings()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &models.AppSettings{GymName: "Power Gym", CurrencySymbol: "Ks"}, nil
		}
		return nil, err
	}
	return settings, nil
}

// UpdateSettings validates and persists the configuration.
func (s *SettingsService) UpdateSettings(settings *models.AppSettings) (*models.AppSettings, error) {
	if utils.IsEmpty(settings.GymName) {
		return nil, fmt.Errorf("%w: gym name is required", ErrValidation)
	}
	if settings.TaxRate < 0 || settings.TaxRate > 100 {
		return nil, fmt.Errorf("%w: tax rate must be between 0 and 100", ErrValidation)
	}
	return s.settingsRepo.SaveSettings(s.db, settings)
}
