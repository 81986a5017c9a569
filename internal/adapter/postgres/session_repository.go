package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

type sessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) interfaces.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Load(ctx context.Context, userID int64) (*domain.Session, error) {
	query := `
		SELECT user_id, step, previous_step, cart::text, category, fulfillment,
		       address, customer_name, table_number, phone, updated_at
		FROM sessions
		WHERE user_id = $1
	`

	var (
		s           domain.Session
		step        string
		previous    string
		cart        string
		fulfillment string
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &step, &previous, &cart, &s.Category, &fulfillment,
		&s.Address, &s.CustomerName, &s.TableNumber, &s.Phone, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
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
	s.Step = domain.Step(step)
	s.PreviousStep = domain.Step(previous)
	s.Fulfillment = domain.Fulfillment(fulfillment)
	s.UpdatedAt = s.UpdatedAt.UTC()

	return &s, nil
}

// Save upserts by user_id; the last write wins
func (r *sessionRepository) Save(ctx context.Context, s *domain.Session) error {
	cart, err := json.Marshal(s.Cart.Clone())
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	query := `
		INSERT INTO sessions (user_id, step, previous_step, cart, category, fulfillment,
		                      address, customer_name, table_number, phone, updated_at)
		VALUES ($1, $2, $3, $4::text::jsonb, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			step = EXCLUDED.step,
			previous_step = EXCLUDED.previous_step,
			cart = EXCLUDED.cart,
			category = EXCLUDED.category,
			fulfillment = EXCLUDED.fulfillment,
			address = EXCLUDED.address,
			customer_name = EXCLUDED.customer_name,
			table_number = EXCLUDED.table_number,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.Exec(ctx, query,
		s.UserID, string(s.Step), string(s.PreviousStep), string(cart), s.Category, string(s.Fulfillment),
		s.Address, s.CustomerName, s.TableNumber, s.Phone, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
