package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	"github.com/riskibarqy/sports-crm-import/internal/domain/team"
	"github.com/riskibarqy/sports-crm-import/internal/platform/id"
	qb "github.com/riskibarqy/sports-crm-import/internal/platform/querybuilder"
)

const teamColumns = `public_id, name, name_key, sport_public_id, level, street, postal,
	city_public_id, city_name, country_public_id, country_name, website, phone, email,
	founded, revenue, employees, id, created_at, updated_at`

type TeamRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewTeamRepository(db *sqlx.DB, ids id.Generator) *TeamRepository {
	return &TeamRepository{db: db, ids: ids}
}

func (r *TeamRepository) ListRefs(ctx context.Context) ([]team.Ref, error) {
	const query = `
SELECT public_id, name, city_name, country_name
FROM teams
ORDER BY id ASC`

	var rows []teamRefTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list team refs: %w", err)
	}
	return toTeamRefs(rows), nil
}

func (r *TeamRepository) FindByName(ctx context.Context, name string) ([]team.Ref, error) {
	query, args, err := qb.Select("public_id", "name", "city_name", "country_name").
		From("teams").
		Where(qb.Eq("name_key", reference.NameKey(name))).
		OrderBy("id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find team by name query: %w", err)
	}

	var rows []teamRefTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find team by name %q: %w", name, err)
	}
	return toTeamRefs(rows), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	const query = `SELECT ` + teamColumns + ` FROM teams WHERE public_id = $1`

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, teamID); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	const socialsQuery = `
SELECT team_public_id, platform, url
FROM team_social_links
WHERE team_public_id = $1
ORDER BY platform ASC`
	var socials []teamSocialLinkTableModel
	if err := r.db.SelectContext(ctx, &socials, socialsQuery, teamID); err != nil {
		return team.Team{}, false, fmt.Errorf("list team social links: %w", err)
	}

	const hoursQuery = `
SELECT team_public_id, day, hours
FROM team_opening_hours
WHERE team_public_id = $1
ORDER BY id ASC`
	var hours []teamOpeningHoursTableModel
	if err := r.db.SelectContext(ctx, &hours, hoursQuery, teamID); err != nil {
		return team.Team{}, false, fmt.Errorf("list team opening hours: %w", err)
	}

	return toTeamDomain(row, socials, hours), true, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) (team.Team, error) {
	publicID, err := r.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	item.ID = publicID

	insertModel := teamInsertModel{
		PublicID:    item.ID,
		Name:        item.Name,
		NameKey:     reference.NameKey(item.Name),
		SportID:     nullableString(item.SportID),
		Level:       nullableString(item.Level),
		Street:      nullableString(item.Street),
		Postal:      nullableString(item.Postal),
		CityID:      nullableString(item.CityID),
		CityName:    nullableString(item.City),
		CountryID:   nullableString(item.CountryID),
		CountryName: nullableString(item.Country),
		Website:     nullableString(item.Website),
		Phone:       nullableString(item.Phone),
		Email:       nullableString(item.Email),
		Founded:     item.Founded,
		Revenue:     item.Revenue,
		Employees:   item.Employees,
	}
	query, args, err := qb.InsertModel("teams", insertModel, "")
	if err != nil {
		return team.Team{}, fmt.Errorf("build create team query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return team.Team{}, fmt.Errorf("begin tx create team: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return team.Team{}, fmt.Errorf("create team %q: %w", item.Name, team.ErrDuplicate)
		}
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}
	if err := insertSocialLinks(ctx, tx, item.ID, item.SocialLinks); err != nil {
		return team.Team{}, err
	}
	if err := insertOpeningHours(ctx, tx, item.ID, item.OpeningHours); err != nil {
		return team.Team{}, err
	}

	if err := tx.Commit(); err != nil {
		return team.Team{}, fmt.Errorf("commit create team: %w", err)
	}
	return item, nil
}

func (r *TeamRepository) Update(ctx context.Context, patch team.Patch) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update team: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	values := make(map[string]any, len(patch.Fields()))
	for _, field := range patch.Fields() {
		value, _ := patch.Value(field)
		values[teamColumnFor(field)] = value
	}
	query, args, err := qb.Update("teams").
		SetMap(values).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", patch.TeamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update team: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update team %s: not found", patch.TeamID)
	}

	if patch.ReplaceSocialLinks {
		if _, err := tx.ExecContext(ctx, `DELETE FROM team_social_links WHERE team_public_id = $1`, patch.TeamID); err != nil {
			return fmt.Errorf("clear team social links: %w", err)
		}
		if err := insertSocialLinks(ctx, tx, patch.TeamID, patch.SocialLinks); err != nil {
			return err
		}
	}
	if patch.ReplaceOpeningHours {
		if _, err := tx.ExecContext(ctx, `DELETE FROM team_opening_hours WHERE team_public_id = $1`, patch.TeamID); err != nil {
			return fmt.Errorf("clear team opening hours: %w", err)
		}
		if err := insertOpeningHours(ctx, tx, patch.TeamID, patch.OpeningHours); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update team: %w", err)
	}
	return nil
}

func insertSocialLinks(ctx context.Context, tx *sqlx.Tx, teamID string, links []team.SocialLink) error {
	if len(links) == 0 {
		return nil
	}
	builder := qb.InsertInto("team_social_links").Columns("team_public_id", "platform", "url")
	for _, link := range links {
		builder.Values(teamID, link.Platform, link.URL)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert team social links query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team social links: %w", err)
	}
	return nil
}

func insertOpeningHours(ctx context.Context, tx *sqlx.Tx, teamID string, hours []team.OpeningHours) error {
	if len(hours) == 0 {
		return nil
	}
	builder := qb.InsertInto("team_opening_hours").Columns("team_public_id", "day", "hours")
	for _, h := range hours {
		builder.Values(teamID, h.Day, h.Hours)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert team opening hours query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team opening hours: %w", err)
	}
	return nil
}

// teamColumnFor maps a patch field to its column; reference ids are stored as public ids.
func teamColumnFor(field team.Field) string {
	switch field {
	case team.FieldSport:
		return "sport_public_id"
	case team.FieldCity:
		return "city_public_id"
	case team.FieldCountry:
		return "country_public_id"
	default:
		return string(field)
	}
}

func toTeamRefs(rows []teamRefTableModel) []team.Ref {
	out := make([]team.Ref, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Ref{
			ID:      row.PublicID,
			Name:    row.Name,
			City:    stringOrEmpty(row.CityName),
			Country: stringOrEmpty(row.CountryName),
		})
	}
	return out
}

func toTeamDomain(row teamTableModel, socials []teamSocialLinkTableModel, hours []teamOpeningHoursTableModel) team.Team {
	out := team.Team{
		ID:        row.PublicID,
		Name:      row.Name,
		SportID:   stringOrEmpty(row.SportID),
		Level:     stringOrEmpty(row.Level),
		Street:    stringOrEmpty(row.Street),
		Postal:    stringOrEmpty(row.Postal),
		CityID:    stringOrEmpty(row.CityID),
		CountryID: stringOrEmpty(row.CountryID),
		Website:   stringOrEmpty(row.Website),
		Phone:     stringOrEmpty(row.Phone),
		Email:     stringOrEmpty(row.Email),
		Founded:   intPtr(row.Founded),
		Revenue:   floatPtr(row.Revenue),
		Employees: intPtr(row.Employees),
		City:      stringOrEmpty(row.CityName),
		Country:   stringOrEmpty(row.CountryName),
	}
	for _, s := range socials {
		out.SocialLinks = append(out.SocialLinks, team.SocialLink{Platform: s.Platform, URL: s.URL})
	}
	for _, h := range hours {
		out.OpeningHours = append(out.OpeningHours, team.OpeningHours{Day: h.Day, Hours: h.Hours})
	}
	return out
}
