package team

import (
	"fmt"
	"strings"
)

// SocialLink is one platform profile of a team, e.g. twitter -> https://x.com/club.
type SocialLink struct {
	Platform string
	URL      string
}

func (s SocialLink) Validate() error {
	if s.Platform == "" {
		return fmt.Errorf("social link platform is required")
	}
	if s.URL == "" {
		return fmt.Errorf("social link url is required for %s", s.Platform)
	}
	return nil
}

// OpeningHours holds the free-text hours of one weekday, Day being mon..sun.
type OpeningHours struct {
	Day   string
	Hours string
}

func (o OpeningHours) Validate() error {
	if _, ok := dayAliases[o.Day]; !ok {
		return fmt.Errorf("invalid opening hours day %q", o.Day)
	}
	if o.Hours == "" {
		return fmt.Errorf("opening hours for %s are empty", o.Day)
	}
	return nil
}

var dayAliases = map[string]string{
	"mon": "mon", "monday": "mon",
	"tue": "tue", "tues": "tue", "tuesday": "tue",
	"wed": "wed", "weds": "wed", "wednesday": "wed",
	"thu": "thu", "thur": "thu", "thurs": "thu", "thursday": "thu",
	"fri": "fri", "friday": "fri",
	"sat": "sat", "saturday": "sat",
	"sun": "sun", "sunday": "sun",
}

// ParseSocialLinks reads "platform:url;platform:url". Only the first colon separates the
// pair, so URLs keep their scheme. A repeated platform keeps the last URL.
func ParseSocialLinks(raw string) ([]SocialLink, error) {
	pairs, err := splitPairs(raw, "socials")
	if err != nil {
		return nil, err
	}

	out := make([]SocialLink, 0, len(pairs))
	seen := make(map[string]int, len(pairs))
	for _, p := range pairs {
		link := SocialLink{Platform: strings.ToLower(p.key), URL: p.value}
		if err := link.Validate(); err != nil {
			return nil, err
		}
		if idx, dup := seen[link.Platform]; dup {
			out[idx] = link
			continue
		}
		seen[link.Platform] = len(out)
		out = append(out, link)
	}
	return out, nil
}

// ParseOpeningHours reads "mon:9am-5pm;tue:9am-5pm". Day names may be short or long in any case.
func ParseOpeningHours(raw string) ([]OpeningHours, error) {
	pairs, err := splitPairs(raw, "hours")
	if err != nil {
		return nil, err
	}

	out := make([]OpeningHours, 0, len(pairs))
	seen := make(map[string]int, len(pairs))
	for _, p := range pairs {
		day, ok := dayAliases[strings.ToLower(p.key)]
		if !ok {
			return nil, fmt.Errorf("invalid hours entry %q: unknown day %q", p.raw, p.key)
		}
		item := OpeningHours{Day: day, Hours: p.value}
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if idx, dup := seen[day]; dup {
			out[idx] = item
			continue
		}
		seen[day] = len(out)
		out = append(out, item)
	}
	return out, nil
}

func FormatSocialLinks(links []SocialLink) string {
	parts := make([]string, 0, len(links))
	for _, link := range links {
		parts = append(parts, link.Platform+":"+link.URL)
	}
	return strings.Join(parts, ";")
}

func FormatOpeningHours(hours []OpeningHours) string {
	parts := make([]string, 0, len(hours))
	for _, h := range hours {
		parts = append(parts, h.Day+":"+h.Hours)
	}
	return strings.Join(parts, ";")
}

type pair struct {
	raw   string
	key   string
	value string
}

func splitPairs(raw, field string) ([]pair, error) {
	var out []pair
	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, ok := strings.Cut(item, ":")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid %s entry %q: expected key:value", field, item)
		}
		out = append(out, pair{raw: item, key: key, value: value})
	}
	return out, nil
}
