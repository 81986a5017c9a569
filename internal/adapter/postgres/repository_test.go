package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces/contract"
)

// connectTestDB needs a disposable database in CAFEBOT_TEST_POSTGRES_DSN
func connectTestDB(t *testing.T) DB {
	t.Helper()
	dsn := os.Getenv("CAFEBOT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CAFEBOT_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestSessionRepository_Contract(t *testing.T) {
	contract.RunSessionRepositoryContract(t, NewSessionRepository(connectTestDB(t)))
}

func TestOrderRepository_RoundTrip(t *testing.T) {
	repo := NewOrderRepository(connectTestDB(t))
	ctx := context.Background()

	order := &domain.Order{
		UserID:    time.Now().UnixNano(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		Items: []domain.CartLine{
			{Name: "Hot Latte", Price: decimal.RequireFromString("1.75")},
			{Name: "Ice Chocolate", Price: decimal.RequireFromString("2.00")},
		},
		Fulfillment:  domain.FulfillmentOnSite,
		Address:      domain.NotSpecified,
		TableNumber:  "7",
		CustomerName: "Ana",
		Phone:        domain.NotProvided,
	}
	order.CalculateTotal()

	require.NoError(t, repo.Create(ctx, order))
	require.NotZero(t, order.ID)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.75", found.TotalPrice.StringFixed(2))
	assert.Equal(t, "7", found.TableNumber)
	assert.True(t, order.CreatedAt.Equal(found.CreatedAt))
	require.Len(t, found.Items, 2)

	recent, err := repo.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
	assert.LessOrEqual(t, len(recent), 5)

	_, err = repo.FindByID(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestErrorLogRepository_Record(t *testing.T) {
	db := connectTestDB(t)
	entry := domain.NewErrorLogEntry(time.Now().UnixNano(), domain.StepPhone, assert.AnError)

	require.NoError(t, NewErrorLogRepository(db).Record(context.Background(), entry))

	var message string
	require.NoError(t, db.QueryRow(context.Background(),
		`SELECT message FROM error_logs WHERE user_id = $1`, entry.UserID).Scan(&message))
	assert.Equal(t, assert.AnError.Error(), message)
}

func TestOrderCheckout_DeletesSessionInSameTransaction(t *testing.T) {
	db := connectTestDB(t)
	ctx := context.Background()
	userID := time.Now().UnixNano()

	require.NoError(t, NewSessionRepository(db).Save(ctx, domain.NewSession(userID)))

	order := &domain.Order{
		UserID:       userID,
		CreatedAt:    time.Now().UTC(),
		Items:        []domain.CartLine{{Name: "Hot Latte", Price: decimal.RequireFromString("1.75")}},
		Fulfillment:  domain.FulfillmentPickup,
		Address:      domain.NotSpecified,
		TableNumber:  domain.NotSpecified,
		CustomerName: "Ana",
		Phone:        "+15551234567",
	}
	order.CalculateTotal()

	require.NoError(t, NewOrderCheckout(db).CreateAndDeleteSession(ctx, order))
	require.NotZero(t, order.ID)

	_, err := NewSessionRepository(db).Load(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

type fakeRow struct {
	id  int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.id
	return nil
}

type fakeTx struct {
	execErr    error
	execs      []string
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return fakeRow{id: 42}
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	tx.execs = append(tx.execs, sql)
	return nil, tx.execErr
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

// fakeDB only supports transactions
type fakeDB struct {
	DB
	tx *fakeTx
}

func (db *fakeDB) Begin(ctx context.Context) (Tx, error) { return db.tx, nil }

func TestOrderCheckout_Transaction(t *testing.T) {
	newOrder := func() *domain.Order {
		o := &domain.Order{
			UserID:      7,
			Items:       []domain.CartLine{{Name: "Hot Latte", Price: decimal.RequireFromString("1.75")}},
			Fulfillment: domain.FulfillmentPickup,
		}
		o.CalculateTotal()
		return o
	}

	t.Run("commits insert and delete", func(t *testing.T) {
		tx := &fakeTx{}
		order := newOrder()

		require.NoError(t, NewOrderCheckout(&fakeDB{tx: tx}).CreateAndDeleteSession(context.Background(), order))

		assert.Equal(t, int64(42), order.ID)
		require.Len(t, tx.execs, 1)
		assert.Contains(t, tx.execs[0], "DELETE FROM sessions")
		assert.True(t, tx.committed)
		assert.False(t, tx.rolledBack)
	})

	t.Run("rolls back when the session delete fails", func(t *testing.T) {
		tx := &fakeTx{execErr: errors.New("lock timeout")}

		err := NewOrderCheckout(&fakeDB{tx: tx}).CreateAndDeleteSession(context.Background(), newOrder())

		require.Error(t, err)
		assert.False(t, tx.committed)
		assert.True(t, tx.rolledBack)
	})
}
