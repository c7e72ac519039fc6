package reference

import (
	"context"
	"fmt"
	"strings"
)

// Kind names a lookup table the importer may create rows in.
type Kind string

const (
	KindCountry    Kind = "country"
	KindCity       Kind = "city"
	KindSport      Kind = "sport"
	KindDepartment Kind = "department"
)

func (k Kind) Validate() error {
	switch k {
	case KindCountry, KindCity, KindSport, KindDepartment:
		return nil
	default:
		return fmt.Errorf("unknown reference kind %q", k)
	}
}

// Scoped reports whether names are only unique inside a parent row. Cities are scoped by country.
func (k Kind) Scoped() bool {
	return k == KindCity
}

// Entity is a lookup row. ScopeID is the parent id for scoped kinds and empty otherwise.
type Entity struct {
	ID      string
	Kind    Kind
	Name    string
	ScopeID string
}

// NameKey is the case-insensitive identity of a display name: trimmed, lower-cased, inner
// whitespace collapsed. Every natural key in the importer compares NameKey values.
func NameKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Repository resolves lookup rows. FindOrCreate must be atomic per (kind, scope, name key).
type Repository interface {
	Find(ctx context.Context, kind Kind, name, scopeID string) (Entity, bool, error)
	FindOrCreate(ctx context.Context, kind Kind, name, scopeID string) (Entity, error)
}
