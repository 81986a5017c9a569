package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces/contract"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testOrder(userID int64, at time.Time, names ...string) *domain.Order {
	o := &domain.Order{
		UserID:       userID,
		CreatedAt:    at,
		Fulfillment:  domain.FulfillmentPickup,
		Address:      domain.NotSpecified,
		TableNumber:  domain.NotSpecified,
		CustomerName: "Ana",
		Phone:        "+15551234567",
	}
	for _, name := range names {
		o.Items = append(o.Items, domain.CartLine{Name: name, Price: decimal.RequireFromString("1.75")})
	}
	o.CalculateTotal()
	return o
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&count))
	assert.Zero(t, count)
}

func TestSessionRepository_Contract(t *testing.T) {
	contract.RunSessionRepositoryContract(t, NewSessionRepository(openTestStore(t)))
}

func TestSessionRepository_CorruptCart(t *testing.T) {
	s := openTestStore(t)
	_, err := s.db.Exec(`INSERT INTO sessions (user_id, step, cart, updated_at) VALUES (1, 'cart', '{oops', ?)`,
		formatTime(time.Now()))
	require.NoError(t, err)

	_, err = NewSessionRepository(s).Load(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrCorruptSession)
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	repo := NewOrderRepository(openTestStore(t))
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	order := testOrder(42, at, "Hot Latte", "Kiwi Soda")
	require.NoError(t, repo.Create(ctx, order))
	assert.NotZero(t, order.ID)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), found.UserID)
	assert.True(t, at.Equal(found.CreatedAt))
	assert.Equal(t, "3.50", found.TotalPrice.StringFixed(2))
	require.Len(t, found.Items, 2)
	assert.Equal(t, "Kiwi Soda", found.Items[1].Name)
	assert.True(t, decimal.RequireFromString("1.75").Equal(found.Items[1].Price))
	assert.Equal(t, domain.FulfillmentPickup, found.Fulfillment)
	assert.Equal(t, domain.NotSpecified, found.Address)
}

func TestOrderRepository_FindMissing(t *testing.T) {
	_, err := NewOrderRepository(openTestStore(t)).FindByID(context.Background(), 99)
	assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
}

func TestOrderRepository_ListRecentNewestFirst(t *testing.T) {
	repo := NewOrderRepository(openTestStore(t))
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Create(ctx, testOrder(int64(i), base.Add(time.Duration(i)*time.Minute), "Hot Latte")))
	}

	orders, err := repo.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, orders, 5)
	assert.Equal(t, int64(6), orders[0].UserID)
	assert.Equal(t, int64(2), orders[4].UserID)
}

func TestErrorLogRepository_Record(t *testing.T) {
	s := openTestStore(t)
	repo := NewErrorLogRepository(s)

	entry := domain.NewErrorLogEntry(7, domain.StepConfirm, errors.New("cart missing"))
	require.NoError(t, repo.Record(context.Background(), entry))

	var (
		userID  int64
		message string
		step    string
	)
	require.NoError(t, s.db.QueryRow(`SELECT user_id, message, step FROM error_logs`).Scan(&userID, &message, &step))
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, "cart missing", message)
	assert.Equal(t, "confirm", step)
}
