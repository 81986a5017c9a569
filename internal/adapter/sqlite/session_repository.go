package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(s *Store) interfaces.SessionRepository {
	return &sessionRepository{db: s.db}
}

func (r *sessionRepository) Load(ctx context.Context, userID int64) (*domain.Session, error) {
	var (
		s           domain.Session
		step        string
		previous    string
		cart        string
		fulfillment string
		updatedAt   string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, step, previous_step, cart, category, fulfillment,
		       address, customer_name, table_number, phone, updated_at
		FROM sessions WHERE user_id = ?`, userID,
	).Scan(
		&s.UserID, &step, &previous, &cart, &s.Category, &fulfillment,
		&s.Address, &s.CustomerName, &s.TableNumber, &s.Phone, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := json.Unmarshal([]byte(cart), &s.Cart); err != nil {
		return nil, fmt.Errorf("%w: cart: %v", domain.ErrCorruptSession, err)
	}
	if s.Cart == nil {
		s.Cart = domain.Cart{}
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("%w: updated_at: %v", domain.ErrCorruptSession, err)
	}
	s.Step = domain.Step(step)
	s.PreviousStep = domain.Step(previous)
	s.Fulfillment = domain.Fulfillment(fulfillment)

	return &s, nil
}

func (r *sessionRepository) Save(ctx context.Context, s *domain.Session) error {
	cart, err := json.Marshal(s.Cart.Clone())
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, step, previous_step, cart, category, fulfillment,
		                      address, customer_name, table_number, phone, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			step = excluded.step,
			previous_step = excluded.previous_step,
			cart = excluded.cart,
			category = excluded.category,
			fulfillment = excluded.fulfillment,
			address = excluded.address,
			customer_name = excluded.customer_name,
			table_number = excluded.table_number,
			phone = excluded.phone,
			updated_at = excluded.updated_at`,
		s.UserID, string(s.Step), string(s.PreviousStep), string(cart), s.Category, string(s.Fulfillment),
		s.Address, s.CustomerName, s.TableNumber, s.Phone, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
