package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	"github.com/riskibarqy/sports-crm-import/internal/platform/id"
	qb "github.com/riskibarqy/sports-crm-import/internal/platform/querybuilder"
)

type ReferenceRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewReferenceRepository(db *sqlx.DB, ids id.Generator) *ReferenceRepository {
	return &ReferenceRepository{db: db, ids: ids}
}

func (r *ReferenceRepository) Find(ctx context.Context, kind reference.Kind, name, scopeID string) (reference.Entity, bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return reference.Entity{}, false, err
	}

	conditions := []qb.Condition{qb.Eq("name_key", reference.NameKey(name))}
	if table.scopeColumn != "" {
		conditions = append(conditions, qb.Eq(table.scopeColumn, scopeID))
	}
	query, args, err := qb.Select("public_id", "name").
		From(table.name).
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return reference.Entity{}, false, fmt.Errorf("build find %s query: %w", kind, err)
	}

	var row referenceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return reference.Entity{}, false, nil
		}
		return reference.Entity{}, false, fmt.Errorf("find %s %q: %w", kind, name, err)
	}

	return toReferenceEntity(kind, row, table, scopeID), true, nil
}

// FindOrCreate inserts with ON CONFLICT DO NOTHING and reads the winner back when a concurrent
// import created the row first.
func (r *ReferenceRepository) FindOrCreate(ctx context.Context, kind reference.Kind, name, scopeID string) (reference.Entity, error) {
	table, err := tableFor(kind)
	if err != nil {
		return reference.Entity{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return reference.Entity{}, fmt.Errorf("%s name is required", kind)
	}
	if table.scopeColumn != "" && scopeID == "" {
		return reference.Entity{}, fmt.Errorf("%s %q requires a scope", kind, name)
	}

	if found, ok, err := r.Find(ctx, kind, name, scopeID); err != nil {
		return reference.Entity{}, err
	} else if ok {
		return found, nil
	}

	publicID, err := r.ids.NewID()
	if err != nil {
		return reference.Entity{}, fmt.Errorf("generate %s id: %w", kind, err)
	}

	columns := []string{"public_id", "name", "name_key"}
	values := []any{publicID, name, reference.NameKey(name)}
	if table.scopeColumn != "" {
		columns = append(columns, table.scopeColumn)
		values = append(values, scopeID)
	}
	query, args, err := qb.InsertInto(table.name).
		Columns(columns...).
		Values(values...).
		Suffix("ON CONFLICT " + table.conflictTarget() + " DO NOTHING RETURNING public_id, name").
		ToSQL()
	if err != nil {
		return reference.Entity{}, fmt.Errorf("build create %s query: %w", kind, err)
	}

	var row referenceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if !isNotFound(err) {
			return reference.Entity{}, fmt.Errorf("create %s %q: %w", kind, name, err)
		}
		found, ok, findErr := r.Find(ctx, kind, name, scopeID)
		if findErr != nil {
			return reference.Entity{}, findErr
		}
		if !ok {
			return reference.Entity{}, fmt.Errorf("create %s %q: conflicting row vanished", kind, name)
		}
		return found, nil
	}

	return toReferenceEntity(kind, row, table, scopeID), nil
}

func toReferenceEntity(kind reference.Kind, row referenceTableModel, table referenceTable, scopeID string) reference.Entity {
	entity := reference.Entity{ID: row.PublicID, Kind: kind, Name: row.Name}
	if table.scopeColumn != "" {
		entity.ScopeID = scopeID
	}
	return entity
}
