package team

import (
	"fmt"
	"slices"
	"strings"
)

// Team is a club or organisation record in the CRM.
type Team struct {
	ID        string
	Name      string
	SportID   string
	Level     string
	Street    string
	Postal    string
	CityID    string
	CountryID string
	Website   string
	Phone     string
	Email     string
	Founded   *int
	Revenue   *float64
	Employees *int

	// City and Country keep the names from the file even when no lookup row backs them,
	// so a re-import matches the same natural key.
	City    string
	Country string

	SocialLinks  []SocialLink
	OpeningHours []OpeningHours
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Employees != nil && *t.Employees < 0 {
		return fmt.Errorf("team employees cannot be negative")
	}
	if t.Revenue != nil && *t.Revenue < 0 {
		return fmt.Errorf("team revenue cannot be negative")
	}
	for _, link := range t.SocialLinks {
		if err := link.Validate(); err != nil {
			return err
		}
	}
	for _, hours := range t.OpeningHours {
		if err := hours.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Ref is the slice of a team the duplicate detector and contact resolution need.
type Ref struct {
	ID      string
	Name    string
	City    string
	Country string
}

func (t Team) Ref() Ref {
	return Ref{ID: t.ID, Name: t.Name, City: t.City, Country: t.Country}
}

// SameAs reports whether o carries the same stored values as t. Empty and nil child lists
// are equal.
func (t Team) SameAs(o Team) bool {
	return t.ID == o.ID &&
		t.Name == o.Name &&
		t.SportID == o.SportID &&
		t.Level == o.Level &&
		t.Street == o.Street &&
		t.Postal == o.Postal &&
		t.CityID == o.CityID &&
		t.CountryID == o.CountryID &&
		t.City == o.City &&
		t.Country == o.Country &&
		t.Website == o.Website &&
		t.Phone == o.Phone &&
		t.Email == o.Email &&
		equalPtr(t.Founded, o.Founded) &&
		equalPtr(t.Revenue, o.Revenue) &&
		equalPtr(t.Employees, o.Employees) &&
		slices.Equal(t.SocialLinks, o.SocialLinks) &&
		slices.Equal(t.OpeningHours, o.OpeningHours)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
