package services

import (
	"database/sql"

	"power_gym_backend/internal/repositories"
)

// txHandle is the slice of *sql.Tx the services use. Keeping it as an
// interface lets tests run transactional flows against mock
// repositories without a live database.
type txHandle interface {
	repositories.SQLExecutor
	Commit() error
	Rollback() error
}

// beginFunc starts a database transaction.
type beginFunc func() (txHandle, error)

func sqlBeginner(db *sql.DB) beginFunc {
	return func() (txHandle, error) {
		return db.Begin()
	}
}
