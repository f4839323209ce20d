package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUnits = []QuantityUnit{
	{ID: 1, Name: "Piece"},
	{ID: 2, Name: "Gram"},
	{ID: 3, Name: "Kilogram"},
	{ID: 4, Name: "Millilitre"},
	{ID: 5, Name: "Litre"},
}

var testUnitNames = UnitNames{
	Gram:       "Gram",
	Kilogram:   "Kilogram",
	Milliliter: "Millilitre",
	Liter:      "Litre",
}

func TestNewUnitTable(t *testing.T) {
	table, err := NewUnitTable(testUnits, testUnitNames)
	require.NoError(t, err)

	assert.Equal(t, 2, table.GramID())
	assert.Equal(t, 3, table.KilogramID())
	assert.Equal(t, 4, table.MilliliterID())
	assert.Equal(t, 5, table.LiterID())

	id, ok := table.IDForName("Piece")
	assert.True(t, ok)
	assert.Equal(t, 1, id)

	_, ok = table.IDForName("Bushel")
	assert.False(t, ok)

	assert.Equal(t, "Litre", table.NameForID(5))
	assert.Equal(t, "unit#9", table.NameForID(9))
}

func TestNewUnitTable_MissingRole(t *testing.T) {
	names := testUnitNames
	names.Milliliter = "Mililitro"

	_, err := NewUnitTable(testUnits, names)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnitMissing)
}

func TestUnitForToken(t *testing.T) {
	table, err := NewUnitTable(testUnits, testUnitNames)
	require.NoError(t, err)

	tests := []struct {
		token  string
		wantID int
		wantOK bool
	}{
		{"g", 2, true},
		{"kg", 3, true},
		{"ml", 4, true},
		{"l", 5, true},
		{"L", 5, true},
		{"cl", 0, false},
		{"oz", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			id, ok := table.UnitForToken(tt.token)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
