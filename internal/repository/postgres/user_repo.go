package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventbot/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) GetOrCreate(ctx context.Context, id int64, username string) (*domain.User, error) {
	query := `
		INSERT INTO users (id, username)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING id, username, bot_role, balance, created_at, updated_at
	`
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, id, username).
		Scan(&u.ID, &u.Username, &u.Role, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, username, bot_role, balance, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Username, &u.Role, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) SetRole(ctx context.Context, id int64, role domain.Role) error {
	query := `UPDATE users SET bot_role = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, string(role))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
