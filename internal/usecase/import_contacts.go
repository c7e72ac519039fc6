package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/sports-crm-import/internal/domain/batch"
	"github.com/riskibarqy/sports-crm-import/internal/domain/contact"
	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	"github.com/riskibarqy/sports-crm-import/internal/domain/team"
	"github.com/riskibarqy/sports-crm-import/internal/platform/tabular"
)

// contactRun is the state of one contact batch: contacts written so far and a memo of team
// name lookups, both discarded when the batch ends.
type contactRun struct {
	service      *ImportService
	seen         contact.KeySet
	teamsByName  map[string][]team.Ref
	resolutions  map[int]string
	columns      map[string]bool
	nullifyEmpty bool
}

func (r *contactRun) create(ctx context.Context, row tabular.Row, rowNumber int) (rowOutcome, error) {
	name := row.Get(contact.ColumnName)
	if name == "" {
		return 0, rowErrorf("contact name is required")
	}
	teamID, err := r.resolveTeam(ctx, row, rowNumber)
	if err != nil {
		return 0, err
	}

	key := contact.KeyOf(teamID, name)
	if r.seen.Has(key) {
		return rowSkipped, nil
	}
	if _, exists, err := r.service.contactRepo.FindByNameAndTeam(ctx, teamID, name); err != nil {
		return 0, fmt.Errorf("find contact: %w", err)
	} else if exists {
		r.seen.Add(key)
		return rowSkipped, nil
	}

	item := contact.Contact{
		TeamID:   teamID,
		Name:     name,
		Role:     row.Get(contact.ColumnRole),
		Email:    row.Get(contact.ColumnEmail),
		Phone:    row.Get(contact.ColumnPhone),
		LinkedIn: normalizeLinkedIn(row.Get(contact.ColumnLinkedIn)),
		Costs:    r.service.cfg.Costs,
	}
	if err := r.service.checkContactFields(item.Email, item.Phone, ""); err != nil {
		return 0, err
	}
	if err := r.service.checkLinkedIn(item.LinkedIn); err != nil {
		return 0, err
	}
	if item.IsEmailVerified, err = contact.ParseBool(row.Get(contact.ColumnIsEmailVerified)); err != nil {
		return 0, rowError{msg: err.Error()}
	}
	if err := item.Validate(); err != nil {
		return 0, rowError{msg: err.Error()}
	}
	if item.DepartmentID, err = r.service.resolver.Resolve(ctx, reference.KindDepartment, row.Get(contact.ColumnDepartment), ""); err != nil {
		return 0, err
	}

	_, created, err := r.service.contactRepo.Create(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("create contact: %w", err)
	}
	r.seen.Add(key)
	if !created {
		return rowSkipped, nil
	}
	return rowCreated, nil
}

func (r *contactRun) update(ctx context.Context, row tabular.Row, rowNumber int) (rowOutcome, error) {
	name := row.Get(contact.ColumnName)
	if name == "" {
		return 0, rowErrorf("contact name is required")
	}
	teamID, err := r.resolveTeam(ctx, row, rowNumber)
	if err != nil {
		return 0, err
	}

	existing, found, err := r.service.contactRepo.FindByNameAndTeam(ctx, teamID, name)
	if err != nil {
		return 0, fmt.Errorf("find contact: %w", err)
	}
	if !found {
		return rowNotFound, nil
	}

	patch, err := r.patchFromRow(ctx, existing.ID, row)
	if err != nil {
		return 0, err
	}
	if patch.IsEmpty() {
		return rowSkipped, nil
	}
	if err := r.service.contactRepo.Update(ctx, patch); err != nil {
		return 0, fmt.Errorf("update contact: %w", err)
	}
	return rowUpdated, nil
}

func (r *contactRun) patchFromRow(ctx context.Context, contactID string, row tabular.Row) (contact.Patch, error) {
	patch := contact.NewPatch(contactID)
	apply := func(column string) (string, bool) {
		if !r.columns[column] {
			return "", false
		}
		raw := row.Get(column)
		if raw == "" && !r.nullifyEmpty {
			return "", false
		}
		return raw, true
	}

	textFields := []struct {
		column string
		field  contact.Field
	}{
		{contact.ColumnRole, contact.FieldRole},
		{contact.ColumnEmail, contact.FieldEmail},
		{contact.ColumnPhone, contact.FieldPhone},
		{contact.ColumnLinkedIn, contact.FieldLinkedIn},
	}
	for _, f := range textFields {
		raw, ok := apply(f.column)
		if !ok {
			continue
		}
		if raw == "" {
			patch.Clear(f.field)
			continue
		}

		var err error
		switch f.column {
		case contact.ColumnEmail:
			err = r.service.checkContactFields(raw, "", "")
		case contact.ColumnPhone:
			err = r.service.checkContactFields("", raw, "")
		case contact.ColumnLinkedIn:
			raw = normalizeLinkedIn(raw)
			err = r.service.checkLinkedIn(raw)
		}
		if err != nil {
			return contact.Patch{}, err
		}
		patch.Set(f.field, raw)
	}

	if raw, ok := apply(contact.ColumnIsEmailVerified); ok {
		verified, err := contact.ParseBool(raw)
		if err != nil {
			return contact.Patch{}, rowError{msg: err.Error()}
		}
		patch.Set(contact.FieldIsEmailVerified, verified)
	}

	if raw, ok := apply(contact.ColumnDepartment); ok {
		departmentID, err := r.service.resolver.Resolve(ctx, reference.KindDepartment, raw, "")
		if err != nil {
			return contact.Patch{}, err
		}
		if departmentID == "" {
			patch.Clear(contact.FieldDepartment)
		} else {
			patch.Set(contact.FieldDepartment, departmentID)
		}
	}
	return patch, nil
}

// resolveTeam applies a caller-supplied conflict resolution for the row first, then a
// case-insensitive name lookup that must match exactly one team.
func (r *contactRun) resolveTeam(ctx context.Context, row tabular.Row, rowNumber int) (string, error) {
	if teamID, ok := r.resolutions[rowNumber]; ok && teamID != "" {
		if _, found, err := r.service.teamRepo.GetByID(ctx, teamID); err != nil {
			return "", fmt.Errorf("get team %s: %w", teamID, err)
		} else if !found {
			return "", rowErrorf("conflict resolution team %q not found", teamID)
		}
		return teamID, nil
	}

	name := row.Get(contact.ColumnTeam)
	if name == "" {
		return "", rowErrorf("team is required")
	}

	key := reference.NameKey(name)
	matches, cached := r.teamsByName[key]
	if !cached {
		var err error
		matches, err = r.service.teamRepo.FindByName(ctx, name)
		if err != nil {
			return "", fmt.Errorf("find team %q: %w", name, err)
		}
		r.teamsByName[key] = matches
	}

	switch len(matches) {
	case 0:
		return "", rowErrorf("team %q not found", name)
	case 1:
		return matches[0].ID, nil
	default:
		return "", rowErrorf("multiple teams named %q; conflict resolution required", name)
	}
}

func normalizeLinkedIn(raw string) string {
	return team.NormalizeWebsite(raw)
}

func contactLookups(table tabular.Table, window batch.Window) []ReferenceLookup {
	out := make([]ReferenceLookup, 0, window.Len())
	for i := window.Start; i < window.End; i++ {
		out = append(out, ReferenceLookup{Kind: reference.KindDepartment, Name: table.Row(i).Get(contact.ColumnDepartment)})
	}
	return out
}
