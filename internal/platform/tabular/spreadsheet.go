package tabular

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// readSpreadsheet returns the first sheet's cells as strings. Files labelled xls that are
// really OOXML or delimited text are accepted; BIFF workbooks are not.
func readSpreadsheet(data []byte, format Format) ([][]string, error) {
	switch {
	case bytes.HasPrefix(data, oleMagic):
		return nil, malformedf("legacy .xls workbooks are not supported; save as .xlsx or .csv")
	case bytes.HasPrefix(data, zipMagic):
		return readWorkbook(data)
	case format == FormatXLS:
		return readCSV(data)
	default:
		return nil, malformedf("%s payload is not a valid workbook", format)
	}
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, wrapMalformed(err, "open workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, malformedf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, wrapMalformed(err, "read sheet "+sheets[0])
	}
	return rows, nil
}
