package memory_test

import (
	"context"
	"testing"

	"github.com/YelzhanWeb/cafebot/internal/adapter/memory"
	"github.com/YelzhanWeb/cafebot/internal/domain"
	"github.com/YelzhanWeb/cafebot/internal/interfaces/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_Contract(t *testing.T) {
	contract.RunSessionRepositoryContract(t, memory.NewSessionStore())
}

func TestSessionStore_IsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()

	s := domain.NewSession(5)
	s.Cart.Add(domain.CatalogItem{Name: "Kiwi Soda"})
	require.NoError(t, store.Save(ctx, s))

	s.Cart[0].Name = "mutated after save"
	loaded, err := store.Load(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Kiwi Soda", loaded.Cart[0].Name)

	loaded.Cart.Add(domain.CatalogItem{Name: "Hot Latte"})
	again, err := store.Load(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, again.Cart, 1)
	assert.Equal(t, 1, store.Len())
}
