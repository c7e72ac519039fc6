package contact

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
)

// Column names recognised in contact files.
const (
	ColumnName            = "name"
	ColumnRole            = "role"
	ColumnEmail           = "email"
	ColumnPhone           = "phone"
	ColumnLinkedIn        = "linkedin"
	ColumnTeam            = "team"
	ColumnDepartment      = "department"
	ColumnIsEmailVerified = "is_email_verified"
)

var Columns = []string{
	ColumnName, ColumnRole, ColumnEmail, ColumnPhone, ColumnLinkedIn, ColumnTeam, ColumnDepartment, ColumnIsEmailVerified,
}

// Contact is a person attached to a team.
type Contact struct {
	ID              string
	TeamID          string
	DepartmentID    string
	Name            string
	Role            string
	Email           string
	Phone           string
	LinkedIn        string
	IsEmailVerified bool
	Costs           CreditCosts
}

// CreditCosts are the reveal prices stamped on a contact when it is created.
type CreditCosts struct {
	Email    int
	Phone    int
	LinkedIn int
}

func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("contact name is required")
	}
	if strings.TrimSpace(c.TeamID) == "" {
		return fmt.Errorf("contact team is required")
	}
	if c.Costs.Email < 0 || c.Costs.Phone < 0 || c.Costs.LinkedIn < 0 {
		return fmt.Errorf("contact credit costs cannot be negative")
	}
	return nil
}

// Key is the natural key of a contact: its name is only unique inside one team.
type Key struct {
	TeamID string
	Name   string
}

func KeyOf(teamID, name string) Key {
	return Key{TeamID: teamID, Name: reference.NameKey(name)}
}

// KeySet tracks contacts written earlier in the same batch.
type KeySet map[Key]struct{}

func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

func (s KeySet) Add(k Key) {
	s[k] = struct{}{}
}

// ParseBool reads the is_email_verified column. Blank is false.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "no", "n", "0":
		return false, nil
	case "true", "yes", "y", "1":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q: expected true/false, yes/no or 1/0", raw)
	}
}

// Field is an overwritable contact attribute. Name and team form the match key.
type Field string

const (
	FieldRole            Field = "role"
	FieldEmail           Field = "email"
	FieldPhone           Field = "phone"
	FieldLinkedIn        Field = "linkedin"
	FieldDepartment      Field = "department_id"
	FieldIsEmailVerified Field = "is_email_verified"
)

// Patch is one row of a contact update file. A nil value clears the field.
type Patch struct {
	ContactID string
	values    map[Field]any
}

func NewPatch(contactID string) Patch {
	return Patch{ContactID: contactID, values: make(map[Field]any)}
}

func (p *Patch) Set(field Field, value any) {
	if p.values == nil {
		p.values = make(map[Field]any)
	}
	p.values[field] = value
}

func (p *Patch) Clear(field Field) {
	p.Set(field, nil)
}

func (p Patch) Value(field Field) (any, bool) {
	v, ok := p.values[field]
	return v, ok
}

func (p Patch) Fields() []Field {
	out := make([]Field, 0, len(p.values))
	for f := range p.values {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p Patch) IsEmpty() bool {
	return len(p.values) == 0
}

func (p Patch) Apply(c *Contact) {
	for field, value := range p.values {
		s, _ := value.(string)
		switch field {
		case FieldRole:
			c.Role = s
		case FieldEmail:
			c.Email = s
		case FieldPhone:
			c.Phone = s
		case FieldLinkedIn:
			c.LinkedIn = s
		case FieldDepartment:
			c.DepartmentID = s
		case FieldIsEmailVerified:
			b, _ := value.(bool)
			c.IsEmailVerified = b
		}
	}
}

// Repository describes contact persistence needs of the import use cases.
type Repository interface {
	FindByNameAndTeam(ctx context.Context, teamID, name string) (Contact, bool, error)
	// Create inserts the contact unless (team, name) already exists; created reports which.
	Create(ctx context.Context, item Contact) (out Contact, created bool, err error)
	Update(ctx context.Context, patch Patch) error
}
