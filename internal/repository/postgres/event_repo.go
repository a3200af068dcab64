package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventbot/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) CreateWithSlots(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (owner_id, title, description, starts_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		e.OwnerID, e.Title, e.Description, e.StartsAt, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	slotQuery := `
		INSERT INTO event_slots (event_id, slot_number, role_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	for _, s := range e.Slots {
		s.EventID = e.ID
		if err := tx.QueryRowContext(ctx, slotQuery, e.ID, s.Number, s.RoleName).Scan(&s.ID); err != nil {
			return fmt.Errorf("insert slot %d: %w", s.Number, err)
		}
	}

	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT id, owner_id, title, description, starts_at, channel_id, message_id, thread_id, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var channelNull, messageNull, threadNull sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.OwnerID, &e.Title, &e.Description, &e.StartsAt,
		&channelNull, &messageNull, &threadNull, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.ChannelID = channelNull.Int64
	e.MessageID = messageNull.Int64
	e.ThreadID = threadNull.Int64

	slots, err := r.slotsByEventID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Slots = slots
	return e, nil
}

// slotsByEventID returns the event's slots ordered by slot number so
// rendering stays deterministic.
func (r *eventRepository) slotsByEventID(ctx context.Context, eventID int64) ([]*domain.EventSlot, error) {
	query := `
		SELECT id, event_id, slot_number, role_name, occupant_id
		FROM event_slots
		WHERE event_id = $1
		ORDER BY slot_number ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]*domain.EventSlot, 0)
	for rows.Next() {
		s := &domain.EventSlot{}
		var occupantNull sql.NullInt64
		if err := rows.Scan(&s.ID, &s.EventID, &s.Number, &s.RoleName, &occupantNull); err != nil {
			return nil, err
		}
		s.OccupantID = occupantNull.Int64
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *eventRepository) SetAnnouncement(ctx context.Context, eventID, channelID, messageID int64) error {
	query := `UPDATE events SET channel_id = $2, message_id = $3, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, eventID, channelID, messageID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetThread(ctx context.Context, eventID, threadID int64) error {
	query := `UPDATE events SET thread_id = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, eventID, threadID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) GetSlot(ctx context.Context, slotID int64) (*domain.EventSlot, error) {
	query := `
		SELECT id, event_id, slot_number, role_name, occupant_id
		FROM event_slots
		WHERE id = $1
	`
	s := &domain.EventSlot{}
	var occupantNull sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, slotID).
		Scan(&s.ID, &s.EventID, &s.Number, &s.RoleName, &occupantNull)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.OccupantID = occupantNull.Int64
	return s, nil
}

func (r *eventRepository) AssignSlot(ctx context.Context, slotID, userID int64) error {
	query := `UPDATE event_slots SET occupant_id = $2 WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, slotID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) CreateSignupRequest(ctx context.Context, req *domain.SignupRequest) error {
	query := `
		INSERT INTO signup_requests (message_id, slot_id, requester_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, req.MessageID, req.SlotID, req.RequesterID, req.CreatedAt)
	return err
}

func (r *eventRepository) GetSignupRequest(ctx context.Context, messageID int64) (*domain.SignupRequest, error) {
	query := `
		SELECT message_id, slot_id, requester_id, created_at
		FROM signup_requests
		WHERE message_id = $1
	`
	req := &domain.SignupRequest{}
	err := r.DB.QueryRowContext(ctx, query, messageID).
		Scan(&req.MessageID, &req.SlotID, &req.RequesterID, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
