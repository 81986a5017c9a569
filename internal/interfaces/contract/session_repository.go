// Package contract holds behavior suites shared by the adapter tests
package contract

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces"
)

// RunSessionRepositoryContract verifies that a SessionRepository keeps every
// field of a session across a save/load round trip, treats Save as an upsert
// and reports missing sessions with domain.ErrSessionNotFound.
func RunSessionRepositoryContract(t *testing.T, repo interfaces.SessionRepository) {
	ctx := context.Background()
	userID := time.Now().UnixNano()

	t.Run("Save and Load", func(t *testing.T) {
		s := domain.NewSession(userID)
		s.Cart.Add(domain.CatalogItem{Name: "Hot Latte", Price: decimal.RequireFromString("1.75")})
		s.Cart.Add(domain.CatalogItem{Name: "Hot Latte", Price: decimal.RequireFromString("1.75")})
		s.Category = "Hot Drinks"
		s.Step = domain.StepCart
		s.MoveTo(domain.StepFulfillment)
		s.MoveTo(domain.StepAddress)
		s.SetFulfillment(domain.FulfillmentDelivery)
		s.Address = "Street 1"
		s.CustomerName = "Ana"
		s.Phone = "+15551234567"

		require.NoError(t, repo.Save(ctx, s))

		loaded, err := repo.Load(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, domain.StepAddress, loaded.Step)
		assert.Equal(t, domain.StepFulfillment, loaded.PreviousStep)
		assert.Equal(t, "Hot Drinks", loaded.Category)
		assert.Equal(t, domain.FulfillmentDelivery, loaded.Fulfillment)
		assert.Equal(t, "Street 1", loaded.Address)
		assert.Equal(t, "Ana", loaded.CustomerName)
		assert.Equal(t, "+15551234567", loaded.Phone)
		require.Len(t, loaded.Cart, 2)
		assert.Equal(t, "Hot Latte", loaded.Cart[1].Name)
		assert.Equal(t, "3.50", loaded.Cart.Total().StringFixed(2))
		assert.NoError(t, loaded.Validate())
	})

	t.Run("Save overwrites", func(t *testing.T) {
		first := domain.NewSession(userID)
		first.Category = "Soda"
		require.NoError(t, repo.Save(ctx, first))

		second := domain.NewSession(userID)
		second.SetFulfillment(domain.FulfillmentOnSite)
		second.TableNumber = "7"
		require.NoError(t, repo.Save(ctx, second))

		loaded, err := repo.Load(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Category)
		assert.Equal(t, "7", loaded.TableNumber)
		assert.Empty(t, loaded.Cart)
	})

	t.Run("Load missing", func(t *testing.T) {
		_, err := repo.Load(ctx, userID+1)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, domain.NewSession(userID)))
		require.NoError(t, repo.Delete(ctx, userID))

		_, err := repo.Load(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		assert.NoError(t, repo.Delete(ctx, userID), "deleting twice is not an error")
	})
}
