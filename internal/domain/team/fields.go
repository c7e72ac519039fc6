package team

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names recognised in team files.
const (
	ColumnName      = "name"
	ColumnSport     = "sport"
	ColumnLevel     = "level"
	ColumnStreet    = "street"
	ColumnPostal    = "postal"
	ColumnCity      = "city"
	ColumnCountry   = "country"
	ColumnWebsite   = "website"
	ColumnPhone     = "phone"
	ColumnEmail     = "email"
	ColumnFounded   = "founded"
	ColumnRevenue   = "revenue"
	ColumnEmployees = "employees"
	ColumnSocials   = "socials"
	ColumnHours     = "hours"
)

var Columns = []string{
	ColumnName, ColumnSport, ColumnLevel, ColumnStreet, ColumnPostal, ColumnCity, ColumnCountry,
	ColumnWebsite, ColumnPhone, ColumnEmail, ColumnFounded, ColumnRevenue, ColumnEmployees,
	ColumnSocials, ColumnHours,
}

// ParseFounded accepts a four digit year. Spreadsheet exports like "1905.0" are tolerated.
func ParseFounded(raw string) (*int, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), ".0")
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1000 || year > 9999 {
		return nil, fmt.Errorf("invalid founded year %q", raw)
	}
	return &year, nil
}

// ParseEmployees accepts a non-negative whole number with optional thousands separators.
func ParseEmployees(raw string) (*int, error) {
	cleaned := strings.TrimSuffix(strings.NewReplacer(",", "", " ", "", "_", "").Replace(strings.TrimSpace(raw)), ".0")
	if cleaned == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid employees count %q", raw)
	}
	return &n, nil
}

var revenueMultipliers = map[byte]float64{'k': 1e3, 'm': 1e6, 'b': 1e9}

// ParseRevenue accepts amounts like "1500000", "$1,500,000", "€2.5m" or "750k".
func ParseRevenue(raw string) (*float64, error) {
	cleaned := strings.ToLower(strings.NewReplacer(",", "", " ", "", "$", "", "€", "", "£", "").Replace(strings.TrimSpace(raw)))
	if cleaned == "" {
		return nil, nil
	}

	multiplier := 1.0
	if m, ok := revenueMultipliers[cleaned[len(cleaned)-1]]; ok {
		multiplier = m
		cleaned = cleaned[:len(cleaned)-1]
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, fmt.Errorf("invalid revenue %q", raw)
	}
	v *= multiplier
	return &v, nil
}

// NormalizeWebsite prefixes https:// when no scheme is present.
func NormalizeWebsite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}
