package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID          int64           `db:"id"`
	PublicID    string          `db:"public_id"`
	Name        string          `db:"name"`
	NameKey     string          `db:"name_key"`
	SportID     sql.NullString  `db:"sport_public_id"`
	Level       sql.NullString  `db:"level"`
	Street      sql.NullString  `db:"street"`
	Postal      sql.NullString  `db:"postal"`
	CityID      sql.NullString  `db:"city_public_id"`
	CityName    sql.NullString  `db:"city_name"`
	CountryID   sql.NullString  `db:"country_public_id"`
	CountryName sql.NullString  `db:"country_name"`
	Website     sql.NullString  `db:"website"`
	Phone       sql.NullString  `db:"phone"`
	Email       sql.NullString  `db:"email"`
	Founded     sql.NullInt64   `db:"founded"`
	Revenue     sql.NullFloat64 `db:"revenue"`
	Employees   sql.NullInt64   `db:"employees"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type teamRefTableModel struct {
	PublicID    string         `db:"public_id"`
	Name        string         `db:"name"`
	CityName    sql.NullString `db:"city_name"`
	CountryName sql.NullString `db:"country_name"`
}

type teamInsertModel struct {
	PublicID    string   `db:"public_id"`
	Name        string   `db:"name"`
	NameKey     string   `db:"name_key"`
	SportID     *string  `db:"sport_public_id"`
	Level       *string  `db:"level"`
	Street      *string  `db:"street"`
	Postal      *string  `db:"postal"`
	CityID      *string  `db:"city_public_id"`
	CityName    *string  `db:"city_name"`
	CountryID   *string  `db:"country_public_id"`
	CountryName *string  `db:"country_name"`
	Website     *string  `db:"website"`
	Phone       *string  `db:"phone"`
	Email       *string  `db:"email"`
	Founded     *int     `db:"founded"`
	Revenue     *float64 `db:"revenue"`
	Employees   *int     `db:"employees"`
}

type teamSocialLinkTableModel struct {
	TeamID   string `db:"team_public_id"`
	Platform string `db:"platform"`
	URL      string `db:"url"`
}

type teamOpeningHoursTableModel struct {
	TeamID string `db:"team_public_id"`
	Day    string `db:"day"`
	Hours  string `db:"hours"`
}
