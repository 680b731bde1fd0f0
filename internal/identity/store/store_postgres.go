package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/identity/models"
	"hrportal/pkg/platform/sentinel"
)

// PostgresUserStore persists users in PostgreSQL. This store is pure I/O —
// transition rules live on the model and in the service layer.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

// Schema is the users table DDL, applied by EnsureSchema in development.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user',
	status TEXT NOT NULL DEFAULT 'pending',
	profile_complete BOOLEAN NOT NULL DEFAULT FALSE,
	employee_code TEXT NOT NULL DEFAULT '',
	designation TEXT NOT NULL DEFAULT '',
	process TEXT NOT NULL DEFAULT '',
	date_of_joining TEXT NOT NULL DEFAULT '',
	shift_timing TEXT NOT NULL DEFAULT '',
	work_location TEXT NOT NULL DEFAULT '',
	current_city TEXT NOT NULL DEFAULT '',
	system_service_tag TEXT NOT NULL DEFAULT '',
	employment_type TEXT NOT NULL DEFAULT '',
	holding_assets TEXT NOT NULL DEFAULT '',
	manager_email TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_unique ON users (LOWER(email));
`

// EnsureSchema creates the users table when absent.
func (s *PostgresUserStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

const userColumns = `
	id, name, email, phone, password_hash, role, status, profile_complete,
	employee_code, designation, process, date_of_joining, shift_timing,
	work_location, current_city, system_service_tag, employment_type,
	holding_assets, manager_email, created_at, updated_at
`

func (s *PostgresUserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err := s.pool.Exec(ctx, query, userArgs(user)...)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

func (s *PostgresUserStore) FindByEmployeeCode(ctx context.Context, code string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE employee_code = $1 AND employee_code <> ''`
	return scanUser(s.pool.QueryRow(ctx, query, code))
}

func (s *PostgresUserStore) Execute(ctx context.Context, id uuid.UUID, validate func(*models.User) error, apply func(*models.User)) (*models.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	user, err := scanUser(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := validate(user); err != nil {
		return nil, err
	}
	apply(user)

	update := `
		UPDATE users SET
			name = $2, email = $3, phone = $4, password_hash = $5, role = $6,
			status = $7, profile_complete = $8, employee_code = $9,
			designation = $10, process = $11, date_of_joining = $12,
			shift_timing = $13, work_location = $14, current_city = $15,
			system_service_tag = $16, employment_type = $17,
			holding_assets = $18, manager_email = $19, created_at = $20,
			updated_at = $21
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, update, userArgs(user)...); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return user, nil
}

func (s *PostgresUserStore) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	return s.queryUsers(ctx, query)
}

func (s *PostgresUserStore) ListByStatus(ctx context.Context, status models.Status) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE status = $1 ORDER BY created_at, id`
	return s.queryUsers(ctx, query, string(status))
}

func (s *PostgresUserStore) ListByManager(ctx context.Context, managerEmail string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(manager_email) = LOWER($1) ORDER BY created_at, id`
	return s.queryUsers(ctx, query, managerEmail)
}

func (s *PostgresUserStore) LastEmployeeCode(ctx context.Context) (string, error) {
	var last string
	query := `SELECT COALESCE(MAX(employee_code), '') FROM users WHERE employee_code <> ''`
	if err := s.pool.QueryRow(ctx, query).Scan(&last); err != nil {
		return "", fmt.Errorf("last employee code: %w", err)
	}
	return last, nil
}

func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresUserStore) queryUsers(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	out := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status,
		&u.ProfileComplete, &u.EmployeeCode,
		&u.Profile.Designation, &u.Profile.Process, &u.Profile.DateOfJoining,
		&u.Profile.ShiftTiming, &u.Profile.WorkLocation, &u.Profile.CurrentCity,
		&u.Profile.SystemServiceTag, &u.Profile.EmploymentType,
		&u.Profile.HoldingAssets,
		&u.ManagerEmail, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func userArgs(u *models.User) []any {
	return []any{
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status,
		u.ProfileComplete, u.EmployeeCode,
		u.Profile.Designation, u.Profile.Process, u.Profile.DateOfJoining,
		u.Profile.ShiftTiming, u.Profile.WorkLocation, u.Profile.CurrentCity,
		u.Profile.SystemServiceTag, u.Profile.EmploymentType,
		u.Profile.HoldingAssets,
		u.ManagerEmail, u.CreatedAt, u.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
