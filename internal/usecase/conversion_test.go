package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrylens/enricher/internal/domain"
)

func TestResolveToMassOrVolume(t *testing.T) {
	product := &domain.Product{ID: 12, Name: "Oat Milk", StockUnitID: 1}

	t.Run("prefers the grams conversion", func(t *testing.T) {
		inventory := NewMockInventoryClient()
		inventory.addConversion(&domain.ConversionRule{ProductID: 12, FromUnitID: 1, ToUnitID: 2, Factor: 250})
		inventory.addConversion(&domain.ConversionRule{ProductID: 12, FromUnitID: 1, ToUnitID: 4, Factor: 330})
		resolver := NewConversionResolver(inventory, testUnitTable(t), nil, false)

		conversion, err := resolver.ResolveToMassOrVolume(context.Background(), product)
		require.NoError(t, err)
		require.NotNil(t, conversion)
		assert.Equal(t, 2, conversion.ToUnitID)
		assert.Equal(t, 250.0, conversion.Factor)
	})

	t.Run("falls back to milliliters", func(t *testing.T) {
		inventory := NewMockInventoryClient()
		inventory.addConversion(&domain.ConversionRule{ProductID: 12, FromUnitID: 1, ToUnitID: 4, Factor: 330})
		resolver := NewConversionResolver(inventory, testUnitTable(t), nil, false)

		conversion, err := resolver.ResolveToMassOrVolume(context.Background(), product)
		require.NoError(t, err)
		require.NotNil(t, conversion)
		assert.Equal(t, 4, conversion.ToUnitID)
		assert.Equal(t, 330.0, conversion.Factor)
	})

	t.Run("returns nil when neither exists", func(t *testing.T) {
		inventory := NewMockInventoryClient()
		resolver := NewConversionResolver(inventory, testUnitTable(t), nil, false)

		conversion, err := resolver.ResolveToMassOrVolume(context.Background(), product)
		require.NoError(t, err)
		assert.Nil(t, conversion)
	})
}

func TestDeriveConversion(t *testing.T) {
	newDetails := func() *domain.ProductDetails {
		return &domain.ProductDetails{
			Product: domain.Product{ID: 12, Name: "Oat Milk", StockUnitID: 1},
		}
	}

	t.Run("creates the rule without asking when confirmation is off", func(t *testing.T) {
		inventory := NewMockInventoryClient()
		resolver := NewConversionResolver(inventory, testUnitTable(t), nil, false)

		created, err := resolver.DeriveConversion(context.Background(), newDetails(), recordWithQuantity("1.5kg"))
		require.NoError(t, err)
		assert.True(t, created)

		require.Len(t, inventory.createdConversions, 1)
		rule := inventory.createdConversions[0]
		assert.Equal(t, 1, rule.FromUnitID)
		assert.Equal(t, 3, rule.ToUnitID)
		assert.Equal(t, 1.5, rule.Factor)
	})

	t.Run("asks and honors a decline", func(t *testing.T) {
		inventory := NewMockInventoryClient()
		var question string
		confirm := func(prompt string) bool {
			question = prompt
			return false
		}
		resolver := NewConversionResolver(inventory, testUnitTable(t), confirm, true)

		created, err := resolver.DeriveConversion(context.Background(), newDetails(), recordWithQuantity("250 g"))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Empty(t, inventory.createdConversions)
		assert.Contains(t, question, "Oat Milk")
		assert.Contains(t, question, "250")
	})

	t.Run("fails on unparseable quantity", func(t *testing.T) {
		inventory := NewMockInventoryClient()
		resolver := NewConversionResolver(inventory, testUnitTable(t), nil, false)

		created, err := resolver.DeriveConversion(context.Background(), newDetails(), recordWithQuantity("a dozen"))
		assert.False(t, created)
		assert.ErrorIs(t, err, domain.ErrQuantityParse)
		assert.Empty(t, inventory.createdConversions)
	})
}
