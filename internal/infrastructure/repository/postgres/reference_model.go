package postgres

import (
	"fmt"

	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
)

type referenceTableModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
}

// referenceTable maps a lookup kind to its table. scopeColumn is empty for unscoped kinds.
type referenceTable struct {
	name        string
	scopeColumn string
}

var referenceTables = map[reference.Kind]referenceTable{
	reference.KindCountry:    {name: "countries"},
	reference.KindCity:       {name: "cities", scopeColumn: "country_public_id"},
	reference.KindSport:      {name: "sports"},
	reference.KindDepartment: {name: "departments"},
}

func tableFor(kind reference.Kind) (referenceTable, error) {
	table, ok := referenceTables[kind]
	if !ok {
		return referenceTable{}, fmt.Errorf("unknown reference kind %q", kind)
	}
	return table, nil
}

func (t referenceTable) conflictTarget() string {
	if t.scopeColumn == "" {
		return "(name_key)"
	}
	return "(" + t.scopeColumn + ", name_key)"
}
