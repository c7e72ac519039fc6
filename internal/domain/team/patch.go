package team

import "sort"

// Field is an overwritable team attribute. Name is the match key and is never patched.
type Field string

const (
	FieldSport       Field = "sport_id"
	FieldLevel       Field = "level"
	FieldStreet      Field = "street"
	FieldPostal      Field = "postal"
	FieldCity        Field = "city_id"
	FieldCityName    Field = "city_name"
	FieldCountry     Field = "country_id"
	FieldCountryName Field = "country_name"
	FieldWebsite     Field = "website"
	FieldPhone       Field = "phone"
	FieldEmail       Field = "email"
	FieldFounded     Field = "founded"
	FieldRevenue     Field = "revenue"
	FieldEmployees   Field = "employees"
)

// Patch describes one row of an update file. A nil value clears the field.
type Patch struct {
	TeamID string
	values map[Field]any

	ReplaceSocialLinks  bool
	SocialLinks         []SocialLink
	ReplaceOpeningHours bool
	OpeningHours        []OpeningHours
}

func NewPatch(teamID string) Patch {
	return Patch{TeamID: teamID, values: make(map[Field]any)}
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

// Fields lists the patched scalar fields in a stable order.
func (p Patch) Fields() []Field {
	out := make([]Field, 0, len(p.values))
	for f := range p.values {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p Patch) IsEmpty() bool {
	return len(p.values) == 0 && !p.ReplaceSocialLinks && !p.ReplaceOpeningHours
}

// Apply writes the patch onto t. Repositories without column-level updates use it.
func (p Patch) Apply(t *Team) {
	for field, value := range p.values {
		switch field {
		case FieldSport:
			t.SportID = stringValue(value)
		case FieldLevel:
			t.Level = stringValue(value)
		case FieldStreet:
			t.Street = stringValue(value)
		case FieldPostal:
			t.Postal = stringValue(value)
		case FieldCity:
			t.CityID = stringValue(value)
		case FieldCityName:
			t.City = stringValue(value)
		case FieldCountry:
			t.CountryID = stringValue(value)
		case FieldCountryName:
			t.Country = stringValue(value)
		case FieldWebsite:
			t.Website = stringValue(value)
		case FieldPhone:
			t.Phone = stringValue(value)
		case FieldEmail:
			t.Email = stringValue(value)
		case FieldFounded:
			t.Founded = intValue(value)
		case FieldRevenue:
			t.Revenue = floatValue(value)
		case FieldEmployees:
			t.Employees = intValue(value)
		}
	}
	if p.ReplaceSocialLinks {
		t.SocialLinks = append([]SocialLink(nil), p.SocialLinks...)
	}
	if p.ReplaceOpeningHours {
		t.OpeningHours = append([]OpeningHours(nil), p.OpeningHours...)
	}
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func intValue(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case *int:
		return n
	default:
		return nil
	}
}

func floatValue(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case *float64:
		return n
	default:
		return nil
	}
}
