package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func NewOrderCheckout(db DB) interfaces.OrderCheckout {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return insertOrder(ctx, r.db, order)
}

// CreateAndDeleteSession inserts the order and removes the user's session in
// one transaction, so a stored order never leaves a confirmable session behind
func (r *orderRepository) CreateAndDeleteSession(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertOrder(ctx, tx, order); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, order.UserID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// queryRower is satisfied by both DB and Tx
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

func insertOrder(ctx context.Context, q queryRower, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	query := `
		INSERT INTO orders (user_id, created_at, items, total, fulfillment,
		                    address, table_number, customer_name, phone)
		VALUES ($1, $2, $3::text::jsonb, $4::text::numeric, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = q.QueryRow(ctx, query,
		order.UserID, order.CreatedAt, string(items), order.TotalPrice.StringFixed(2), string(order.Fulfillment),
		order.Address, order.TableNumber, order.CustomerName, order.Phone,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

const selectOrder = `
	SELECT id, user_id, created_at, items::text, total::text, fulfillment,
	       address, table_number, customer_name, phone
	FROM orders
`

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, selectOrder+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, selectOrder+" ORDER BY created_at DESC, id DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func scanOrder(row Row) (*domain.Order, error) {
	var (
		order       domain.Order
		items       string
		total       string
		fulfillment string
	)
	err := row.Scan(
		&order.ID, &order.UserID, &order.CreatedAt, &items, &total, &fulfillment,
		&order.Address, &order.TableNumber, &order.CustomerName, &order.Phone,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
		return nil, fmt.Errorf("order %d items: %w", order.ID, err)
	}
	if order.TotalPrice, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("order %d total: %w", order.ID, err)
	}
	order.Fulfillment = domain.Fulfillment(fulfillment)
	order.CreatedAt = order.CreatedAt.UTC()

	return &order, nil
}
