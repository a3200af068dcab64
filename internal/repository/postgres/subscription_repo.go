package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"eventbot/internal/domain"
)

type subscriptionRepository struct {
	DB *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) domain.SubscriptionRepository {
	return &subscriptionRepository{DB: db}
}

func (r *subscriptionRepository) Add(ctx context.Context, subscriberID, creatorID int64) error {
	query := `
		INSERT INTO subscriptions (subscriber_id, creator_id)
		VALUES ($1, $2)
	`
	_, err := r.DB.ExecContext(ctx, query, subscriberID, creatorID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadySubscribed
		}
		return err
	}
	return nil
}

func (r *subscriptionRepository) Remove(ctx context.Context, subscriberID, creatorID int64) (bool, error) {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND creator_id = $2`
	result, err := r.DB.ExecContext(ctx, query, subscriberID, creatorID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *subscriptionRepository) ListCreators(ctx context.Context, subscriberID int64) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.bot_role, u.balance, u.created_at, u.updated_at
		FROM users u
		JOIN subscriptions s ON s.creator_id = u.id
		WHERE s.subscriber_id = $1
		ORDER BY u.username ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, subscriberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	creators := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.Balance, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		creators = append(creators, u)
	}
	return creators, rows.Err()
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, creatorID int64) ([]int64, error) {
	query := `SELECT subscriber_id FROM subscriptions WHERE creator_id = $1`
	rows, err := r.DB.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	subscribers := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, id)
	}
	return subscribers, rows.Err()
}
