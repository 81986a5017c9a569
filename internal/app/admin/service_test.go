package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/cafebot/internal/adapter/logger"
	"github.com/YelzhanWeb/cafebot/internal/domain"
)

type listOnly struct {
	orders []*domain.Order
	err    error
	limit  int
}

func (l *listOnly) Create(ctx context.Context, o *domain.Order) error { return nil }

func (l *listOnly) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	for _, o := range l.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (l *listOnly) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	l.limit = limit
	return l.orders, l.err
}

func sampleOrders() []*domain.Order {
	at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	price := decimal.RequireFromString
	return []*domain.Order{
		{
			ID: 12, CreatedAt: at.Add(time.Hour),
			Items:       []domain.CartLine{{Name: "Kiwi Soda", Price: price("1.75")}, {Name: "Hot Latte", Price: price("1.75")}},
			TotalPrice:  price("3.5"),
			Fulfillment: domain.FulfillmentDelivery, Address: "Street 1", TableNumber: domain.NotSpecified,
			CustomerName: "Ana", Phone: "+15551234567",
		},
		{
			ID: 11, CreatedAt: at,
			Items:       []domain.CartLine{{Name: "Hot Matcha", Price: price("1.75")}},
			TotalPrice:  price("1.75"),
			Fulfillment: domain.FulfillmentOnSite, Address: domain.NotSpecified, TableNumber: "7",
			CustomerName: "Bo", Phone: domain.NotProvided,
		},
	}
}

func TestService_IsAdmin(t *testing.T) {
	svc := NewService(&listOnly{}, []int64{1, 2}, logger.NewNop())
	assert.True(t, svc.IsAdmin(2))
	assert.False(t, svc.IsAdmin(3))
}

func TestService_RecentOrdersTextGolden(t *testing.T) {
	repo := &listOnly{orders: sampleOrders()}
	svc := NewService(repo, nil, logger.NewNop())

	text, err := svc.RecentOrdersText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RecentLimit, repo.limit)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "recent_orders", []byte(text))
}

func TestService_NoOrders(t *testing.T) {
	svc := NewService(&listOnly{}, nil, logger.NewNop())

	text, err := svc.RecentOrdersText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MsgNoOrders, text)
}

func TestService_ListError(t *testing.T) {
	svc := NewService(&listOnly{err: errors.New("db down")}, nil, logger.NewNop())

	_, err := svc.RecentOrdersText(context.Background())
	assert.Error(t, err)
}

func TestService_Order(t *testing.T) {
	svc := NewService(&listOnly{orders: sampleOrders()}, nil, logger.NewNop())

	o, err := svc.Order(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Bo", o.CustomerName)

	_, err = svc.Order(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
