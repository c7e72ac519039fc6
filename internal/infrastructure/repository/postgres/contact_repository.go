package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-crm-import/internal/domain/contact"
	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	"github.com/riskibarqy/sports-crm-import/internal/platform/id"
	qb "github.com/riskibarqy/sports-crm-import/internal/platform/querybuilder"
)

type ContactRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewContactRepository(db *sqlx.DB, ids id.Generator) *ContactRepository {
	return &ContactRepository{db: db, ids: ids}
}

func (r *ContactRepository) FindByNameAndTeam(ctx context.Context, teamID, name string) (contact.Contact, bool, error) {
	const query = `
SELECT id, public_id, team_public_id, department_public_id, name, name_key, role, email, phone,
	linkedin, is_email_verified, email_credit_cost, phone_credit_cost, linkedin_credit_cost,
	created_at, updated_at
FROM contacts
WHERE team_public_id = $1
  AND name_key = $2`

	var row contactTableModel
	if err := r.db.GetContext(ctx, &row, query, teamID, reference.NameKey(name)); err != nil {
		if isNotFound(err) {
			return contact.Contact{}, false, nil
		}
		return contact.Contact{}, false, fmt.Errorf("find contact by name and team: %w", err)
	}
	return toContactDomain(row), true, nil
}

// Create relies on the (team_public_id, name_key) unique index; a conflicting row returns the
// stored contact with created=false.
func (r *ContactRepository) Create(ctx context.Context, item contact.Contact) (contact.Contact, bool, error) {
	publicID, err := r.ids.NewID()
	if err != nil {
		return contact.Contact{}, false, fmt.Errorf("generate contact id: %w", err)
	}
	item.ID = publicID

	insertModel := contactInsertModel{
		PublicID:           item.ID,
		TeamID:             item.TeamID,
		DepartmentID:       nullableString(item.DepartmentID),
		Name:               item.Name,
		NameKey:            reference.NameKey(item.Name),
		Role:               nullableString(item.Role),
		Email:              nullableString(item.Email),
		Phone:              nullableString(item.Phone),
		LinkedIn:           nullableString(item.LinkedIn),
		IsEmailVerified:    item.IsEmailVerified,
		EmailCreditCost:    item.Costs.Email,
		PhoneCreditCost:    item.Costs.Phone,
		LinkedInCreditCost: item.Costs.LinkedIn,
	}
	query, args, err := qb.InsertModel("contacts", insertModel, "ON CONFLICT (team_public_id, name_key) DO NOTHING RETURNING public_id")
	if err != nil {
		return contact.Contact{}, false, fmt.Errorf("build create contact query: %w", err)
	}

	var returned string
	if err := r.db.GetContext(ctx, &returned, query, args...); err != nil {
		if !isNotFound(err) {
			return contact.Contact{}, false, fmt.Errorf("create contact: %w", err)
		}
		existing, found, findErr := r.FindByNameAndTeam(ctx, item.TeamID, item.Name)
		if findErr != nil {
			return contact.Contact{}, false, findErr
		}
		if !found {
			return contact.Contact{}, false, fmt.Errorf("create contact %q: conflicting row vanished", item.Name)
		}
		return existing, false, nil
	}
	return item, true, nil
}

func (r *ContactRepository) Update(ctx context.Context, patch contact.Patch) error {
	values := make(map[string]any, len(patch.Fields()))
	for _, field := range patch.Fields() {
		value, _ := patch.Value(field)
		values[contactColumnFor(field)] = value
	}
	query, args, err := qb.Update("contacts").
		SetMap(values).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", patch.ContactID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update contact query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update contact: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update contact %s: not found", patch.ContactID)
	}
	return nil
}

func contactColumnFor(field contact.Field) string {
	if field == contact.FieldDepartment {
		return "department_public_id"
	}
	return string(field)
}

func toContactDomain(row contactTableModel) contact.Contact {
	return contact.Contact{
		ID:              row.PublicID,
		TeamID:          row.TeamID,
		DepartmentID:    stringOrEmpty(row.DepartmentID),
		Name:            row.Name,
		Role:            stringOrEmpty(row.Role),
		Email:           stringOrEmpty(row.Email),
		Phone:           stringOrEmpty(row.Phone),
		LinkedIn:        stringOrEmpty(row.LinkedIn),
		IsEmailVerified: row.IsEmailVerified,
		Costs: contact.CreditCosts{
			Email:    row.EmailCreditCost,
			Phone:    row.PhoneCreditCost,
			LinkedIn: row.LinkedInCreditCost,
		},
	}
}
