package court

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourtService(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	t.Run("Create defaults to indoor and active", func(t *testing.T) {
		c, err := svc.Create(ctx, CreateRequest{Name: "Court A", BasePrice: decimal.NewFromInt(50)})
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, TypeIndoor, c.Type)
		assert.True(t, c.IsActive)
	})

	t.Run("Create rejects invalid input", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{Name: "  ", BasePrice: decimal.NewFromInt(50)})
		assert.ErrorIs(t, err, ErrEmptyName)

		_, err = svc.Create(ctx, CreateRequest{Name: "Court B", Type: "grass", BasePrice: decimal.NewFromInt(50)})
		assert.ErrorIs(t, err, ErrInvalidType)

		_, err = svc.Create(ctx, CreateRequest{Name: "Court B", BasePrice: decimal.NewFromInt(-1)})
		assert.ErrorIs(t, err, ErrNegativePrice)

		_, err = svc.Create(ctx, CreateRequest{Name: "court a", BasePrice: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, ErrNameTaken)
	})

	t.Run("Update and Deactivate", func(t *testing.T) {
		c, err := svc.Create(ctx, CreateRequest{Name: "Court C", Type: TypeOutdoor, BasePrice: decimal.NewFromInt(40)})
		require.NoError(t, err)

		price := decimal.NewFromInt(45)
		updated, err := svc.Update(ctx, c.ID, UpdateRequest{BasePrice: &price})
		require.NoError(t, err)
		assert.True(t, updated.BasePrice.Equal(price))

		require.NoError(t, svc.Deactivate(ctx, c.ID))
		got, err := svc.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)

		active, total, err := svc.List(ctx, Filter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Court A", active[0].Name)
	})

	t.Run("Unknown court", func(t *testing.T) {
		_, err := svc.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, svc.Deactivate(ctx, "missing"), ErrNotFound)
	})
}
