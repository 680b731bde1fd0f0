package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/leave/models"
	"hrportal/pkg/platform/sentinel"
)

// PostgresLeaveStore persists leave applications in PostgreSQL.
type PostgresLeaveStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresLeaveStore {
	return &PostgresLeaveStore{pool: pool}
}

// Schema is the leaves table DDL, applied by EnsureSchema in development.
const Schema = `
CREATE TABLE IF NOT EXISTS leaves (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	employee_name TEXT NOT NULL,
	employee_code TEXT NOT NULL,
	manager_email TEXT NOT NULL,
	leave_type TEXT NOT NULL,
	start_date TIMESTAMPTZ NOT NULL,
	end_date TIMESTAMPTZ NOT NULL,
	reason TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS leaves_user_idx ON leaves (user_id);
CREATE INDEX IF NOT EXISTS leaves_manager_idx ON leaves (LOWER(manager_email));
`

// EnsureSchema creates the leaves table when absent.
func (s *PostgresLeaveStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("ensure leaves schema: %w", err)
	}
	return nil
}

const leaveColumns = `
	id, user_id, employee_name, employee_code, manager_email, leave_type,
	start_date, end_date, reason, status, created_at, updated_at
`

func (s *PostgresLeaveStore) Create(ctx context.Context, leave *models.Leave) error {
	query := `
		INSERT INTO leaves (` + leaveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.pool.Exec(ctx, query, leaveArgs(leave)...)
	if err != nil {
		return fmt.Errorf("create leave: %w", err)
	}
	return nil
}

func (s *PostgresLeaveStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Leave, error) {
	query := `SELECT ` + leaveColumns + ` FROM leaves WHERE id = $1`
	return scanLeave(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresLeaveStore) Execute(ctx context.Context, id uuid.UUID, validate func(*models.Leave) error, apply func(*models.Leave)) (*models.Leave, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `SELECT ` + leaveColumns + ` FROM leaves WHERE id = $1 FOR UPDATE`
	leave, err := scanLeave(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := validate(leave); err != nil {
		return nil, err
	}
	apply(leave)

	update := `
		UPDATE leaves SET
			user_id = $2, employee_name = $3, employee_code = $4,
			manager_email = $5, leave_type = $6, start_date = $7,
			end_date = $8, reason = $9, status = $10, created_at = $11,
			updated_at = $12
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, update, leaveArgs(leave)...); err != nil {
		return nil, fmt.Errorf("update leave: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return leave, nil
}

func (s *PostgresLeaveStore) List(ctx context.Context) ([]*models.Leave, error) {
	query := `SELECT ` + leaveColumns + ` FROM leaves ORDER BY created_at DESC, id`
	return s.queryLeaves(ctx, query)
}

func (s *PostgresLeaveStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Leave, error) {
	query := `SELECT ` + leaveColumns + ` FROM leaves WHERE user_id = $1 ORDER BY created_at DESC, id`
	return s.queryLeaves(ctx, query, userID)
}

func (s *PostgresLeaveStore) ListByManager(ctx context.Context, managerEmail string) ([]*models.Leave, error) {
	query := `SELECT ` + leaveColumns + ` FROM leaves WHERE LOWER(manager_email) = LOWER($1) ORDER BY created_at DESC, id`
	return s.queryLeaves(ctx, query, managerEmail)
}

func (s *PostgresLeaveStore) queryLeaves(ctx context.Context, query string, args ...any) ([]*models.Leave, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaves: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Leave, 0)
	for rows.Next() {
		leave, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, leave)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeave(row rowScanner) (*models.Leave, error) {
	var l models.Leave
	err := row.Scan(
		&l.ID, &l.UserID, &l.EmployeeName, &l.EmployeeCode, &l.ManagerEmail,
		&l.Type, &l.StartDate, &l.EndDate, &l.Reason, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan leave: %w", err)
	}
	return &l, nil
}

func leaveArgs(l *models.Leave) []any {
	return []any{
		l.ID, l.UserID, l.EmployeeName, l.EmployeeCode, l.ManagerEmail,
		l.Type, l.StartDate, l.EndDate, l.Reason, l.Status,
		l.CreatedAt, l.UpdatedAt,
	}
}
