package models

import "time"

// AppSettings is the single-row gym configuration record.
type AppSettings struct {
	GymName        string    `json:"gym_name" db:"gym_name"`
	Address        string    `json:"address" db:"address"`
	Phone          string    `json:"phone" db:"phone"`
	CurrencySymbol string    `json:"currency_symbol" db:"currency_symbol"`
	TaxRate        float64   `json:"tax_rate" db:"tax_rate"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
