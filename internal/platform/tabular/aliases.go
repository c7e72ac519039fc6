package tabular

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Aliases maps normalized header spellings to canonical column names.
type Aliases map[string]string

func DefaultAliases() Aliases {
	return Aliases{
		"full name":           "name",
		"contact name":        "name",
		"job title":           "role",
		"title":               "role",
		"position":            "role",
		"e-mail":              "email",
		"email address":       "email",
		"phone number":        "phone",
		"telephone":           "phone",
		"linkedin url":        "linkedin",
		"linked in":           "linkedin",
		"dept":                "department",
		"email verified":      "is_email_verified",
		"is email verified":   "is_email_verified",
		"address":             "street",
		"street address":      "street",
		"postal code":         "postal",
		"postcode":            "postal",
		"zip":                 "postal",
		"zip code":            "postal",
		"web":                 "website",
		"url":                 "website",
		"year founded":        "founded",
		"founded year":        "founded",
		"employee count":      "employees",
		"number of employees": "employees",
		"social links":        "socials",
		"social":              "socials",
		"opening hours":       "hours",
	}
}

// LoadAliases reads a YAML file shaped as `canonical: [alias, ...]` and merges it over the defaults.
func LoadAliases(path string) (Aliases, error) {
	aliases := DefaultAliases()
	if path == "" {
		return aliases, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read column aliases file: %w", err)
	}

	var doc map[string][]string
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse column aliases file: %w", err)
	}
	for canonical, spellings := range doc {
		target := normalizeHeader(canonical)
		if target == "" {
			return nil, fmt.Errorf("column aliases file has an empty canonical name")
		}
		for _, spelling := range spellings {
			if key := normalizeHeader(spelling); key != "" {
				aliases[key] = target
			}
		}
	}
	return aliases, nil
}

// Canonical normalizes h and resolves it through the alias table.
func (a Aliases) Canonical(h string) string {
	name := normalizeHeader(h)
	if target, ok := a[name]; ok {
		return target
	}
	return name
}
