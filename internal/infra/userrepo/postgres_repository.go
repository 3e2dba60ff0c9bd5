package userrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cropwise/fieldadvisor/internal/domain/auth"
)

// PostgresRepository persists users in Postgres. Roles are stored in a
// text[] column so a role grant is a single row update.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, email, nickname, passwordHash string, roles []string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, nickname, password_hash, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, nickname, password_hash, roles, created_at
	`, email, nickname, passwordHash, roles)
	return scanUser(row)
}

// GetByEmail fetches a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, nickname, password_hash, roles, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`, email)
	if err != nil {
		return auth.User{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return auth.User{}, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return auth.User{}, false, err
	}
	return user, true, rows.Err()
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (auth.User, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, nickname, password_hash, roles, created_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return auth.User{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return auth.User{}, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return auth.User{}, false, err
	}
	return user, true, rows.Err()
}

// SetRoles replaces the role set for a user.
func (r *PostgresRepository) SetRoles(ctx context.Context, userID int64, roles []string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET roles = $1 WHERE id = $2`, roles, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var user auth.User
	var created time.Time
	if err := row.Scan(&user.ID, &user.Email, &user.Nickname, &user.PasswordHash, &user.Roles, &created); err != nil {
		return auth.User{}, err
	}
	user.CreatedAt = created.UTC()
	return user, nil
}

var _ auth.Repository = (*PostgresRepository)(nil)
