package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"power_gym_backend/internal/models"
)

// SettingsRepository reads and writes the single-row gym configuration.
type SettingsRepository interface {
	GetSettings() (*models.AppSettings, error)
	SaveSettings(executor SQLExecutor, settings *models.AppSettings) (*models.AppSettings, error)
}

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetSettings() (*models.AppSettings, error) {
	var s models.AppSettings
	err := r.db.QueryRow(
		`SELECT gym_name, address, phone, currency_symbol, tax_rate, updated_at FROM app_settings WHERE id = 1`,
	).Scan(&s.GymName, &s.Address, &s.Phone, &s.CurrencySymbol, &s.TaxRate, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting settings: %v", ErrDatabaseError, err)
	}
	return &s, nil
}

func (r *settingsRepository) SaveSettings(executor SQLExecutor, settings *models.AppSettings) (*models.AppSettings, error) {
	settings.UpdatedAt = time.Now()
	query := `INSERT INTO app_settings (id, gym_name, address, phone, currency_symbol, tax_rate, updated_at)
	          VALUES (1, $1, $2, $3, $4, $5, $6)
	          ON CONFLICT (id) DO UPDATE SET
	            gym_name = EXCLUDED.gym_name,
	            address = EXCLUDED.address,
	            phone = EXCLUDED.phone,
	            currency_symbol = EXCLUDED.currency_symbol,
	            tax_rate = EXCLUDED.tax_rate,
	            updated_at = EXCLUDED.updated_at`

	if _, err := executor.Exec(query,
		settings.GymName, settings.Address, settings.Phone,
		settings.CurrencySymbol, settings.TaxRate, settings.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("%w: saving settings: %v", ErrDatabaseError, err)
	}
	return settings, nil
}
