// Package tabular turns uploaded CSV and spreadsheet payloads into a header plus data rows.
package tabular

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// ErrMalformedInput marks payloads that cannot produce a header and at least one data row.
var ErrMalformedInput = crerr.New("malformed input")

func malformedf(format string, args ...any) error {
	return crerr.Mark(crerr.Newf(format, args...), ErrMalformedInput)
}

func wrapMalformed(err error, msg string) error {
	return crerr.Mark(crerr.Wrap(err, msg), ErrMalformedInput)
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// ParseFormat accepts csv, xlsx and xls in any case. Blank means csv.
func ParseFormat(v string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), ".")))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatXLS:
		return FormatXLS, nil
	default:
		return "", malformedf("unsupported file type %q: expected csv, xlsx or xls", v)
	}
}

func (f Format) Spreadsheet() bool {
	return f == FormatXLSX || f == FormatXLS
}

// Table holds normalized header names and the raw data rows beneath them.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

func newTable(header []string, rows [][]string, aliases Aliases) Table {
	normalized := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := aliases.Canonical(h)
		normalized[i] = name
		if name == "" {
			continue
		}
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return Table{header: normalized, index: index, rows: rows}
}

func (t Table) Header() []string {
	return append([]string(nil), t.header...)
}

func (t Table) Len() int {
	return len(t.rows)
}

func (t Table) HasColumn(name string) bool {
	_, ok := t.index[normalizeHeader(name)]
	return ok
}

// Require fails with ErrMalformedInput naming the first missing column.
func (t Table) Require(columns ...string) error {
	for _, col := range columns {
		if !t.HasColumn(col) {
			return malformedf("missing required %q column", col)
		}
	}
	return nil
}

func (t Table) Row(i int) Row {
	if i < 0 || i >= len(t.rows) {
		return Row{table: &t}
	}
	return Row{table: &t, values: t.rows[i]}
}

// Row is one data row addressed by header name.
type Row struct {
	table  *Table
	values []string
}

// Get returns the trimmed cell under column, or "" when the column or cell is absent.
func (r Row) Get(column string) string {
	if r.table == nil {
		return ""
	}
	idx, ok := r.table.index[normalizeHeader(column)]
	if !ok || idx >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[idx])
}

// Has reports whether the table carries column at all, regardless of the cell value.
func (r Row) Has(column string) bool {
	return r.table != nil && r.table.HasColumn(column)
}

func (r Row) Values() []string {
	return append([]string(nil), r.values...)
}

// Parser decodes payloads with a fixed alias table.
type Parser struct {
	aliases Aliases
}

func NewParser(aliases Aliases) *Parser {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Parser{aliases: aliases}
}

// Parse uses the default alias table.
func Parse(data []byte, format Format) (Table, error) {
	return NewParser(nil).Parse(data, format)
}

func (p *Parser) Parse(data []byte, format Format) (Table, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatXLSX, FormatXLS:
		records, err = readSpreadsheet(data, format)
	case FormatCSV, "":
		records, err = readCSV(data)
	default:
		return Table{}, malformedf("unsupported file type %q", format)
	}
	if err != nil {
		return Table{}, err
	}

	records = dropBlankRecords(records)
	if len(records) < 2 {
		return Table{}, malformedf("file must contain a header row and at least one data row")
	}

	header := records[0]
	rows := records[1:]
	for i, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			rows[i] = padded
		}
	}

	table := newTable(header, rows, p.aliases)
	if len(table.index) == 0 {
		return Table{}, malformedf("header row has no column names")
	}
	return table, nil
}

func dropBlankRecords(records [][]string) [][]string {
	out := records[:0]
	for _, rec := range records {
		blank := true
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}

func normalizeHeader(v string) string {
	v = strings.TrimPrefix(v, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(v)), " ")
}
