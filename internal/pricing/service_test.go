package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleService(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())

	peak, err := svc.Create(ctx, CreateRequest{
		Name:      "Evening peak",
		Type:      RuleTypePeakHour,
		Modifier:  dec("1.5"),
		StartHour: hour(18),
		EndHour:   hour(21),
	})
	require.NoError(t, err)
	assert.True(t, peak.IsActive)
	assert.Equal(t, ModifierMultiplier, peak.ModifierType)

	t.Run("Second active rule of a type is refused", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			Name:      "Morning peak",
			Type:      RuleTypePeakHour,
			Modifier:  dec("1.2"),
			StartHour: hour(6),
			EndHour:   hour(9),
		})
		assert.ErrorIs(t, err, ErrDuplicateActiveRule)
	})

	t.Run("Validation", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{Name: "No hours", Type: RuleTypePeakHour, Modifier: dec("1.5")})
		assert.ErrorIs(t, err, ErrInvalidHours)

		_, err = svc.Create(ctx, CreateRequest{Name: "Bad", Type: "birthday", Modifier: dec("1")})
		assert.ErrorIs(t, err, ErrInvalidType)

		_, err = svc.Create(ctx, CreateRequest{Name: "Neg", Type: RuleTypeWeekend, Modifier: dec("-1")})
		assert.ErrorIs(t, err, ErrNegativeModifier)

		_, err = svc.Create(ctx, CreateRequest{Name: "Kind", Type: RuleTypeWeekend, ModifierType: "percent", Modifier: dec("1")})
		assert.ErrorIs(t, err, ErrInvalidModifierType)
	})

	t.Run("Reactivation is refused while another rule is active", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(ctx, peak.ID))

		morning, err := svc.Create(ctx, CreateRequest{
			Name:      "Morning peak",
			Type:      RuleTypePeakHour,
			Modifier:  dec("1.2"),
			StartHour: hour(6),
			EndHour:   hour(9),
		})
		require.NoError(t, err)

		active := true
		_, err = svc.Update(ctx, peak.ID, UpdateRequest{IsActive: &active})
		assert.ErrorIs(t, err, ErrDuplicateActiveRule)

		rules, err := svc.ActiveRules(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, morning.ID, rules[0].ID)
	})

	t.Run("Unknown rule", func(t *testing.T) {
		_, err := svc.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
