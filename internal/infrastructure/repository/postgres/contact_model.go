package postgres

import (
	"database/sql"
	"time"
)

type contactTableModel struct {
	ID                 int64          `db:"id"`
	PublicID           string         `db:"public_id"`
	TeamID             string         `db:"team_public_id"`
	DepartmentID       sql.NullString `db:"department_public_id"`
	Name               string         `db:"name"`
	NameKey            string         `db:"name_key"`
	Role               sql.NullString `db:"role"`
	Email              sql.NullString `db:"email"`
	Phone              sql.NullString `db:"phone"`
	LinkedIn           sql.NullString `db:"linkedin"`
	IsEmailVerified    bool           `db:"is_email_verified"`
	EmailCreditCost    int            `db:"email_credit_cost"`
	PhoneCreditCost    int            `db:"phone_credit_cost"`
	LinkedInCreditCost int            `db:"linkedin_credit_cost"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

type contactInsertModel struct {
	PublicID           string  `db:"public_id"`
	TeamID             string  `db:"team_public_id"`
	DepartmentID       *string `db:"department_public_id"`
	Name               string  `db:"name"`
	NameKey            string  `db:"name_key"`
	Role               *string `db:"role"`
	Email              *string `db:"email"`
	Phone              *string `db:"phone"`
	LinkedIn           *string `db:"linkedin"`
	IsEmailVerified    bool    `db:"is_email_verified"`
	EmailCreditCost    int     `db:"email_credit_cost"`
	PhoneCreditCost    int     `db:"phone_credit_cost"`
	LinkedInCreditCost int     `db:"linkedin_credit_cost"`
}
