package team

import "github.com/riskibarqy/sports-crm-import/internal/domain/reference"

type indexEntry struct {
	ref     Ref
	city    string
	country string
}

// Index is the per-batch duplicate detector over existing teams. It is not safe for
// concurrent use; one batch owns one Index.
type Index struct {
	byName map[string][]indexEntry
}

func NewIndex(refs []Ref) *Index {
	idx := &Index{byName: make(map[string][]indexEntry, len(refs))}
	for _, ref := range refs {
		idx.Add(ref)
	}
	return idx
}

// Add records ref so later rows of the same batch see it.
func (i *Index) Add(ref Ref) {
	key := reference.NameKey(ref.Name)
	if key == "" {
		return
	}
	i.byName[key] = append(i.byName[key], indexEntry{
		ref:     ref,
		city:    reference.NameKey(ref.City),
		country: reference.NameKey(ref.Country),
	})
}

// Find returns the first team matching the candidate's natural key.
func (i *Index) Find(name, city, country string) (Ref, bool) {
	matches := i.FindAll(name, city, country)
	if len(matches) == 0 {
		return Ref{}, false
	}
	return matches[0], true
}

// FindAll applies the natural key rule. With a city, the name and city must match and the
// country is compared only when both sides carry one. Without a city, only teams that have
// no city either are candidates.
func (i *Index) FindAll(name, city, country string) []Ref {
	entries := i.byName[reference.NameKey(name)]
	if len(entries) == 0 {
		return nil
	}

	cityKey := reference.NameKey(city)
	countryKey := reference.NameKey(country)
	var out []Ref
	for _, e := range entries {
		if cityKey == "" {
			if e.city == "" {
				out = append(out, e.ref)
			}
			continue
		}
		if e.city != cityKey {
			continue
		}
		if countryKey != "" && e.country != "" && e.country != countryKey {
			continue
		}
		out = append(out, e.ref)
	}
	return out
}

// Replace swaps the entry holding ref.ID for ref, so an update that moves a team to
// another city or country is matched at its new location by later rows.
func (i *Index) Replace(ref Ref) {
	key := reference.NameKey(ref.Name)
	entries := i.byName[key]
	for n, e := range entries {
		if e.ref.ID == ref.ID {
			entries[n] = indexEntry{
				ref:     ref,
				city:    reference.NameKey(ref.City),
				country: reference.NameKey(ref.Country),
			}
			return
		}
	}
	i.Add(ref)
}

// Named returns every team with the given name regardless of city or country.
func (i *Index) Named(name string) []Ref {
	entries := i.byName[reference.NameKey(name)]
	out := make([]Ref, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ref)
	}
	return out
}
