package tabular

import (
	"encoding/base64"
	"strings"
)

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// DecodePayload turns the request's csvData field into file bytes. Spreadsheets arrive
// base64 encoded, optionally as a data URL; CSV arrives as plain text.
func DecodePayload(raw string, format Format) ([]byte, error) {
	if !format.Spreadsheet() {
		return []byte(raw), nil
	}

	encoded := strings.TrimSpace(raw)
	if strings.HasPrefix(encoded, "data:") {
		if idx := strings.Index(encoded, ","); idx >= 0 {
			encoded = encoded[idx+1:]
		}
	}
	encoded = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, encoded)
	if encoded == "" {
		return nil, malformedf("%s payload is empty", format)
	}

	for _, enc := range base64Encodings {
		if out, err := enc.DecodeString(encoded); err == nil {
			return out, nil
		}
	}
	return nil, malformedf("%s payload is not valid base64", format)
}
