package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"power_gym_backend/internal/models"

	"github.com/lib/pq"
)

// AuthRepository defines user and role database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) (*models.User, error)
	FindUserByID(id int64) (*models.User, error)
	FindUserByUsername(username string) (*models.User, error)
	GetUsers(page, pageSize int) ([]models.User, int, error)
	FindRoleByName(name string) (*models.Role, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (username, password_hash, email, full_name, role_id, photo_url, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := executor.QueryRow(query,
		user.Username, user.PasswordHash, user.Email, user.FullName,
		user.RoleID, user.PhotoURL, user.IsActive, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: username %q already exists", ErrDuplicateKey, user.Username)
		}
		return nil, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return user, nil
}

func scanUserRow(row scanner) (*models.User, error) {
	var user models.User
	var role models.Role
	var email, fullName, photoURL, roleName sql.NullString
	var roleID sql.NullInt64

	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &email, &fullName,
		&roleID, &photoURL, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		&roleName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
	}

	if email.Valid {
		user.Email = &email.String
	}
	if fullName.Valid {
		user.FullName = &fullName.String
	}
	if photoURL.Valid {
		user.PhotoURL = &photoURL.String
	}
	if roleID.Valid {
		user.RoleID = &roleID.Int64
		if roleName.Valid {
			role.ID = roleID.Int64
			role.Name = roleName.String
			user.Role = &role
		}
	}
	return &user, nil
}

const userSelectColumns = `u.id, u.username, u.password_hash, u.email, u.full_name,
	    u.role_id, u.photo_url, u.is_active, u.created_at, u.updated_at,
	    COALESCE(r.name, '') as role_name`

func (r *authRepository) FindUserByID(id int64) (*models.User, error) {
	query := `SELECT ` + userSelectColumns + `
	          FROM users u
	          LEFT JOIN roles r ON u.role_id = r.id
	          WHERE u.id = $1`
	return scanUserRow(r.db.QueryRow(query, id))
}

func (r *authRepository) FindUserByUsername(username string) (*models.User, error) {
	query := `SELECT ` + userSelectColumns + `
	          FROM users u
	          LEFT JOIN roles r ON u.role_id = r.id
	          WHERE u.username = $1`
	return scanUserRow(r.db.QueryRow(query, username))
}

func (r *authRepository) GetUsers(page, pageSize int) ([]models.User, int, error) {
	users := []models.User{}
	totalCount := 0

	query := `SELECT ` + userSelectColumns + `, COUNT(*) OVER() as total_count
	          FROM users u
	          LEFT JOIN roles r ON u.role_id = r.id
	          ORDER BY u.username ASC
	          LIMIT $1 OFFSET $2`

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		var role models.Role
		var email, fullName, photoURL, roleName sql.NullString
		var roleID sql.NullInt64
		var rowTotal int

		if err := rows.Scan(
			&user.ID, &user.Username, &user.PasswordHash, &email, &fullName,
			&roleID, &photoURL, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
			&roleName, &rowTotal,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning user from list: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal

		if email.Valid {
			user.Email = &email.String
		}
		if fullName.Valid {
			user.FullName = &fullName.String
		}
		if photoURL.Valid {
			user.PhotoURL = &photoURL.String
		}
		if roleID.Valid {
			user.RoleID = &roleID.Int64
			if roleName.Valid {
				role.ID = roleID.Int64
				role.Name = roleName.String
				user.Role = &role
			}
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating user rows: %v", ErrDatabaseError, err)
	}
	return users, totalCount, nil
}

func (r *authRepository) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	err := r.db.QueryRow(`SELECT id, name FROM roles WHERE LOWER(name) = LOWER($1)`, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding role %q: %v", ErrDatabaseError, name, err)
	}
	return &role, nil
}
