package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/sports-crm-import/internal/domain/batch"
	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	"github.com/riskibarqy/sports-crm-import/internal/domain/team"
	"github.com/riskibarqy/sports-crm-import/internal/platform/tabular"
)

// teamRun is the state of one team batch. The index starts as a snapshot of stored teams
// and grows with every insert so later rows of the batch see earlier ones.
type teamRun struct {
	service      *ImportService
	index        *team.Index
	columns      map[string]bool
	nullifyEmpty bool
}

func (r *teamRun) create(ctx context.Context, row tabular.Row, _ int) (rowOutcome, error) {
	item, err := r.service.teamFromRow(row)
	if err != nil {
		return 0, err
	}

	if _, exists := r.index.Find(item.Name, item.City, item.Country); exists {
		return rowSkipped, nil
	}

	if err := r.service.resolveTeamReferences(ctx, &item, row); err != nil {
		return 0, err
	}

	created, err := r.service.teamRepo.Create(ctx, item)
	if errors.Is(err, team.ErrDuplicate) {
		r.index.Add(item.Ref())
		return rowSkipped, nil
	}
	if err != nil {
		return 0, fmt.Errorf("create team: %w", err)
	}
	r.index.Add(created.Ref())
	return rowCreated, nil
}

func (r *teamRun) update(ctx context.Context, row tabular.Row, _ int) (rowOutcome, error) {
	name := row.Get(team.ColumnName)
	if name == "" {
		return 0, rowErrorf("team name is required")
	}

	target, found, err := r.locate(name, row)
	if err != nil {
		return 0, err
	}
	if !found {
		return rowNotFound, nil
	}

	current, exists, err := r.service.teamRepo.GetByID(ctx, target.ID)
	if err != nil {
		return 0, fmt.Errorf("get team %s: %w", target.ID, err)
	}
	if !exists {
		return rowNotFound, nil
	}

	patch, err := r.service.teamPatchFromRow(ctx, current, row, r.columns, r.nullifyEmpty)
	if err != nil {
		return 0, err
	}
	if patch.IsEmpty() {
		return rowSkipped, nil
	}

	// A patch that rewrites the stored values changes nothing.
	next := current
	patch.Apply(&next)
	if next.SameAs(current) {
		return rowSkipped, nil
	}

	if err := r.service.teamRepo.Update(ctx, patch); err != nil {
		return 0, fmt.Errorf("update team: %w", err)
	}
	if next.City != current.City || next.Country != current.Country {
		r.index.Replace(next.Ref())
	}
	return rowUpdated, nil
}

// locate finds the team an update row targets. A unique name wins outright; shared names are
// narrowed with the row's city and country.
func (r *teamRun) locate(name string, row tabular.Row) (team.Ref, bool, error) {
	named := r.index.Named(name)
	switch len(named) {
	case 0:
		return team.Ref{}, false, nil
	case 1:
		return named[0], true, nil
	}

	city := row.Get(team.ColumnCity)
	if city == "" {
		return team.Ref{}, false, rowErrorf("multiple teams named %q; add city and country to choose one", name)
	}
	matches := r.index.FindAll(name, city, row.Get(team.ColumnCountry))
	switch len(matches) {
	case 0:
		return team.Ref{}, false, nil
	case 1:
		return matches[0], true, nil
	default:
		return team.Ref{}, false, rowErrorf("multiple teams named %q in %s; add a country to choose one", name, city)
	}
}

func (s *ImportService) teamFromRow(row tabular.Row) (team.Team, error) {
	item := team.Team{
		Name:    row.Get(team.ColumnName),
		Level:   row.Get(team.ColumnLevel),
		Street:  row.Get(team.ColumnStreet),
		Postal:  row.Get(team.ColumnPostal),
		City:    row.Get(team.ColumnCity),
		Country: row.Get(team.ColumnCountry),
		Website: team.NormalizeWebsite(row.Get(team.ColumnWebsite)),
		Phone:   row.Get(team.ColumnPhone),
		Email:   row.Get(team.ColumnEmail),
	}
	if item.Name == "" {
		return team.Team{}, rowErrorf("team name is required")
	}

	var err error
	if err = s.checkContactFields(item.Email, item.Phone, item.Website); err != nil {
		return team.Team{}, err
	}
	if item.Founded, err = team.ParseFounded(row.Get(team.ColumnFounded)); err != nil {
		return team.Team{}, rowError{msg: err.Error()}
	}
	if item.Revenue, err = team.ParseRevenue(row.Get(team.ColumnRevenue)); err != nil {
		return team.Team{}, rowError{msg: err.Error()}
	}
	if item.Employees, err = team.ParseEmployees(row.Get(team.ColumnEmployees)); err != nil {
		return team.Team{}, rowError{msg: err.Error()}
	}
	if item.SocialLinks, err = team.ParseSocialLinks(row.Get(team.ColumnSocials)); err != nil {
		return team.Team{}, rowError{msg: err.Error()}
	}
	if item.OpeningHours, err = team.ParseOpeningHours(row.Get(team.ColumnHours)); err != nil {
		return team.Team{}, rowError{msg: err.Error()}
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, rowError{msg: err.Error()}
	}
	return item, nil
}

// resolveTeamReferences fills sport, country and city ids. Cities are only resolved inside a
// resolved country.
func (s *ImportService) resolveTeamReferences(ctx context.Context, item *team.Team, row tabular.Row) error {
	var err error
	if item.SportID, err = s.resolver.Resolve(ctx, reference.KindSport, row.Get(team.ColumnSport), ""); err != nil {
		return err
	}
	if item.CountryID, err = s.resolver.Resolve(ctx, reference.KindCountry, item.Country, ""); err != nil {
		return err
	}
	if item.CityID, err = s.resolver.Resolve(ctx, reference.KindCity, item.City, item.CountryID); err != nil {
		return err
	}
	return nil
}

func (s *ImportService) teamPatchFromRow(
	ctx context.Context,
	current team.Team,
	row tabular.Row,
	columns map[string]bool,
	nullifyEmpty bool,
) (team.Patch, error) {
	patch := team.NewPatch(current.ID)

	// apply reports whether the column should be written and with what raw value.
	apply := func(column string) (string, bool) {
		if !columns[column] {
			return "", false
		}
		raw := row.Get(column)
		if raw == "" && !nullifyEmpty {
			return "", false
		}
		return raw, true
	}

	textFields := []struct {
		column string
		field  team.Field
	}{
		{team.ColumnLevel, team.FieldLevel},
		{team.ColumnStreet, team.FieldStreet},
		{team.ColumnPostal, team.FieldPostal},
		{team.ColumnPhone, team.FieldPhone},
		{team.ColumnEmail, team.FieldEmail},
		{team.ColumnWebsite, team.FieldWebsite},
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
		if f.column == team.ColumnWebsite {
			raw = team.NormalizeWebsite(raw)
		}
		patch.Set(f.field, raw)
	}

	email, _ := patch.Value(team.FieldEmail)
	phone, _ := patch.Value(team.FieldPhone)
	website, _ := patch.Value(team.FieldWebsite)
	if err := s.checkContactFields(asString(email), asString(phone), asString(website)); err != nil {
		return team.Patch{}, err
	}

	if raw, ok := apply(team.ColumnFounded); ok {
		v, err := team.ParseFounded(raw)
		if err != nil {
			return team.Patch{}, rowError{msg: err.Error()}
		}
		setOrClearInt(&patch, team.FieldFounded, v)
	}
	if raw, ok := apply(team.ColumnEmployees); ok {
		v, err := team.ParseEmployees(raw)
		if err != nil {
			return team.Patch{}, rowError{msg: err.Error()}
		}
		setOrClearInt(&patch, team.FieldEmployees, v)
	}
	if raw, ok := apply(team.ColumnRevenue); ok {
		v, err := team.ParseRevenue(raw)
		if err != nil {
			return team.Patch{}, rowError{msg: err.Error()}
		}
		if v == nil {
			patch.Clear(team.FieldRevenue)
		} else {
			patch.Set(team.FieldRevenue, *v)
		}
	}

	if raw, ok := apply(team.ColumnSocials); ok {
		links, err := team.ParseSocialLinks(raw)
		if err != nil {
			return team.Patch{}, rowError{msg: err.Error()}
		}
		patch.ReplaceSocialLinks = true
		patch.SocialLinks = links
	}
	if raw, ok := apply(team.ColumnHours); ok {
		hours, err := team.ParseOpeningHours(raw)
		if err != nil {
			return team.Patch{}, rowError{msg: err.Error()}
		}
		patch.ReplaceOpeningHours = true
		patch.OpeningHours = hours
	}

	if raw, ok := apply(team.ColumnSport); ok {
		sportID, err := s.resolver.Resolve(ctx, reference.KindSport, raw, "")
		if err != nil {
			return team.Patch{}, err
		}
		setOrClearString(&patch, team.FieldSport, sportID)
	}

	if err := s.patchTeamLocation(ctx, &patch, current, apply); err != nil {
		return team.Patch{}, err
	}
	return patch, nil
}

// patchTeamLocation updates country and city together. A new city is resolved inside the
// row's country when given, otherwise inside the team's stored country.
func (s *ImportService) patchTeamLocation(
	ctx context.Context,
	patch *team.Patch,
	current team.Team,
	apply func(string) (string, bool),
) error {
	countryRaw, countryOK := apply(team.ColumnCountry)
	cityRaw, cityOK := apply(team.ColumnCity)
	if !countryOK && !cityOK {
		return nil
	}

	countryID := ""
	if countryOK {
		id, err := s.resolver.Resolve(ctx, reference.KindCountry, countryRaw, "")
		if err != nil {
			return err
		}
		countryID = id
		setOrClearString(patch, team.FieldCountry, id)
		setOrClearString(patch, team.FieldCountryName, countryRaw)
	}
	if !cityOK {
		return nil
	}

	if !countryOK {
		countryID = current.CountryID
	}

	cityID, err := s.resolver.Resolve(ctx, reference.KindCity, cityRaw, countryID)
	if err != nil {
		return err
	}
	setOrClearString(patch, team.FieldCity, cityID)
	setOrClearString(patch, team.FieldCityName, cityRaw)
	return nil
}

func teamLookups(table tabular.Table, window batch.Window) []ReferenceLookup {
	out := make([]ReferenceLookup, 0, window.Len()*2)
	for i := window.Start; i < window.End; i++ {
		row := table.Row(i)
		out = append(out,
			ReferenceLookup{Kind: reference.KindSport, Name: row.Get(team.ColumnSport)},
			ReferenceLookup{Kind: reference.KindCountry, Name: row.Get(team.ColumnCountry)},
		)
	}
	return out
}

func setOrClearString(patch *team.Patch, field team.Field, value string) {
	if value == "" {
		patch.Clear(field)
		return
	}
	patch.Set(field, value)
}

func setOrClearInt(patch *team.Patch, field team.Field, value *int) {
	if value == nil {
		patch.Clear(field)
		return
	}
	patch.Set(field, *value)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
