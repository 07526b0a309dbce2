package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"AINewsServer/internal/domain"
	"AINewsServer/internal/ports"
)

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registration hits an existing email.
var ErrEmailTaken = errors.New("user already exists")

// PostgresUserRepository stores account records and category preferences.
type PostgresUserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*PostgresUserRepository)(nil)

// NewPostgresUserRepository wires a sql.DB implementation.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Create inserts a new account; a duplicate email maps to ErrEmailTaken.
func (r *PostgresUserRepository) Create(ctx context.Context, user domain.User) error {
	query := `INSERT INTO users (id, email, password_hash, categories, created_at)
              VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		pq.Array(categoryNames(user.Categories)),
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByEmail looks up an account by its unique email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT id, email, password_hash, categories, created_at
              FROM users WHERE email = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID looks up an account by primary key.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	query := `SELECT id, email, password_hash, categories, created_at
              FROM users WHERE id = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdateCategories replaces the user's preference set.
func (r *PostgresUserRepository) UpdateCategories(ctx context.Context, id uuid.UUID, categories []domain.Category) error {
	query := `UPDATE users SET categories = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, pq.Array(categoryNames(categories)))
	if err != nil {
		return fmt.Errorf("update categories: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *PostgresUserRepository) scanUser(row *sql.Row) (domain.User, error) {
	var (
		user  domain.User
		names pq.StringArray
	)

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &names, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}

	user.Categories = make([]domain.Category, 0, len(names))
	for _, name := range names {
		user.Categories = append(user.Categories, domain.Category(name))
	}

	return user, nil
}

func categoryNames(categories []domain.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return names
}
