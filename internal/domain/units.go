package domain

import (
	"fmt"
	"strings"
)

// UnitNames holds the configured display names of the four units the
// quantity grammar recognizes. They must already exist in the backend.
type UnitNames struct {
	Gram       string
	Kilogram   string
	Milliliter string
	Liter      string
}

// UnitTable is an immutable name/id lookup built once at startup from the
// inventory backend's unit list. It is passed explicitly into the parser
// and resolver instead of living in module-level state.
type UnitTable struct {
	nameToID map[string]int
	idToName map[int]string

	gramID       int
	kilogramID   int
	milliliterID int
	literID      int
}

// NewUnitTable builds the lookup table and resolves the four role units.
// It fails when any configured unit name is absent from the backend list.
func NewUnitTable(units []QuantityUnit, names UnitNames) (*UnitTable, error) {
	t := &UnitTable{
		nameToID: make(map[string]int, len(units)),
		idToName: make(map[int]string, len(units)),
	}
	for _, u := range units {
		t.nameToID[u.Name] = u.ID
		t.idToName[u.ID] = u.Name
	}

	for _, role := range []struct {
		name string
		dst  *int
	}{
		{names.Gram, &t.gramID},
		{names.Kilogram, &t.kilogramID},
		{names.Milliliter, &t.milliliterID},
		{names.Liter, &t.literID},
	} {
		id, ok := t.nameToID[role.name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnitMissing, role.name)
		}
		*role.dst = id
	}

	return t, nil
}

// IDForName returns the backend id of a unit name
func (t *UnitTable) IDForName(name string) (int, bool) {
	id, ok := t.nameToID[name]
	return id, ok
}

// NameForID returns the display name of a unit id, or a numeric placeholder
func (t *UnitTable) NameForID(id int) string {
	if name, ok := t.idToName[id]; ok {
		return name
	}
	return fmt.Sprintf("unit#%d", id)
}

func (t *UnitTable) GramID() int       { return t.gramID }
func (t *UnitTable) KilogramID() int   { return t.kilogramID }
func (t *UnitTable) MilliliterID() int { return t.milliliterID }
func (t *UnitTable) LiterID() int      { return t.literID }

// UnitForToken maps a lowercase unit token from the quantity grammar to a
// backend unit id. Only g, kg, ml and l are recognized.
func (t *UnitTable) UnitForToken(token string) (int, bool) {
	switch strings.ToLower(token) {
	case "g":
		return t.gramID, true
	case "kg":
		return t.kilogramID, true
	case "ml":
		return t.milliliterID, true
	case "l":
		return t.literID, true
	default:
		return 0, false
	}
}
