package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(s *Store) interfaces.OrderRepository {
	return &orderRepository{db: s.db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (user_id, created_at, items, total, fulfillment,
		                    address, table_number, customer_name, phone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.UserID, formatTime(order.CreatedAt), string(items), order.TotalPrice.StringFixed(2),
		string(order.Fulfillment), order.Address, order.TableNumber, order.CustomerName, order.Phone,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if order.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read order id: %w", err)
	}
	return nil
}

const selectOrder = `
	SELECT id, user_id, created_at, items, total, fulfillment,
	       address, table_number, customer_name, phone
	FROM orders`

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return order, nil
}

func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrder+" ORDER BY created_at DESC, id DESC LIMIT ?", limit)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*domain.Order, error) {
	var (
		order       domain.Order
		createdAt   string
		items       string
		total       string
		fulfillment string
	)
	err := row.Scan(
		&order.ID, &order.UserID, &createdAt, &items, &total, &fulfillment,
		&order.Address, &order.TableNumber, &order.CustomerName, &order.Phone,
	)
	if err != nil {
		return nil, err
	}

	if order.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("order %d created_at: %w", order.ID, err)
	}
	if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
		return nil, fmt.Errorf("order %d items: %w", order.ID, err)
	}
	if order.TotalPrice, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("order %d total: %w", order.ID, err)
	}
	order.Fulfillment = domain.Fulfillment(fulfillment)

	return &order, nil
}
