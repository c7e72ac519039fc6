package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL fills lib/pq connection parameters the service relies on without
// overriding values already present in the URL. Keyword/value DSNs are returned as is.
func normalizeDBURL(raw, applicationName string, binaryParameters bool) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return trimmed
	}

	query := parsed.Query()
	changed := false
	if applicationName != "" && query.Get("application_name") == "" {
		query.Set("application_name", applicationName)
		changed = true
	}
	if binaryParameters && query.Get("binary_parameters") == "" {
		query.Set("binary_parameters", "yes")
		changed = true
	}
	if !changed {
		return trimmed
	}

	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		name, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
			return name
		}
	}

	return ""
}
