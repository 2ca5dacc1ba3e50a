package equipment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquipmentService(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	e, err := svc.Create(ctx, CreateRequest{
		Name:        "Racket",
		Type:        TypeRacket,
		TotalStock:  10,
		RentalPrice: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, e.AvailableStock, "available stock starts at total stock")

	_, err = svc.Create(ctx, CreateRequest{Name: "Ball", Type: "ball", TotalStock: 1})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.Create(ctx, CreateRequest{Name: "Shoes", Type: TypeShoes, TotalStock: -1})
	assert.ErrorIs(t, err, ErrInvalidStock)

	t.Run("Shrinking total stock clamps available stock", func(t *testing.T) {
		total := 4
		updated, err := svc.Update(ctx, e.ID, UpdateRequest{TotalStock: &total})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.TotalStock)
		assert.Equal(t, 4, updated.AvailableStock)
	})

	t.Run("Deactivate", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(ctx, e.ID))
		got, err := svc.GetByID(ctx, e.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})
}
