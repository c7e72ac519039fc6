package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var candidateDelimiters = []rune{',', ';', '\t'}

func readCSV(data []byte) ([][]string, error) {
	text, err := normalizeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapMalformed(err, "read csv")
		}
		records = append(records, record)
	}
	return records, nil
}

// normalizeText strips a BOM, decodes UTF-16 when a BOM says so and falls back to
// Windows-1252 for bytes that are not valid UTF-8.
func normalizeText(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return nil, wrapMalformed(err, "decode text")
	}
	if utf8.Valid(out) {
		return out, nil
	}

	out, _, err = transform.Bytes(charmap.Windows1252.NewDecoder(), out)
	if err != nil {
		return nil, wrapMalformed(err, "decode windows-1252 text")
	}
	return out, nil
}

// detectDelimiter picks the candidate that occurs most often outside quotes on the header line.
// Ties and headers with no candidate resolve to comma.
func detectDelimiter(text []byte) rune {
	counts := make(map[rune]int, len(candidateDelimiters))
	inQuotes := false
	for _, r := range string(text) {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		if r == '\n' || r == '\r' {
			break
		}
		counts[r]++
	}

	best := ','
	for _, d := range candidateDelimiters {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}
