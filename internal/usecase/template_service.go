package usecase

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/riskibarqy/sports-crm-import/internal/domain/contact"
	"github.com/riskibarqy/sports-crm-import/internal/domain/team"
	"github.com/riskibarqy/sports-crm-import/internal/platform/tabular"
	"github.com/valyala/bytebufferpool"
	"github.com/xuri/excelize/v2"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ImportTemplate is a downloadable starter file for one import entity.
type ImportTemplate struct {
	Filename    string
	ContentType string
	Body        []byte
}

type templateLayout struct {
	columns  []string
	required map[string]bool
	sample   []string
}

var templateLayouts = map[string]templateLayout{
	"teams": {
		columns:  team.Columns,
		required: map[string]bool{team.ColumnName: true},
		sample: []string{
			"Chelsea FC", "Football", "Professional", "Fulham Road", "SW6 1HS", "London", "England",
			"https://www.chelseafc.com", "+44 20 7386 9373", "info@chelseafc.com", "1905", "500m", "850",
			team.FormatSocialLinks([]team.SocialLink{
				{Platform: "twitter", URL: "https://x.com/chelseafc"},
				{Platform: "facebook", URL: "https://facebook.com/chelseafc"},
			}),
			team.FormatOpeningHours([]team.OpeningHours{
				{Day: "mon", Hours: "9am-5pm"},
				{Day: "tue", Hours: "9am-5pm"},
			}),
		},
	},
	"contacts": {
		columns:  contact.Columns,
		required: map[string]bool{contact.ColumnName: true, contact.ColumnTeam: true},
		sample: []string{
			"John Smith", "Head of Scouting", "john.smith@example.com", "+44 20 7946 0000",
			"https://www.linkedin.com/in/johnsmith", "Chelsea FC", "Scouting", "yes",
		},
	},
}

type TemplateService struct{}

func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

// Render builds the template for entity ("teams" or "contacts") in csv or xlsx.
func (s *TemplateService) Render(entity, fileType string) (ImportTemplate, error) {
	entity = strings.ToLower(strings.TrimSpace(entity))
	layout, ok := templateLayouts[entity]
	if !ok {
		return ImportTemplate{}, fmt.Errorf("%w: unknown template %q", ErrNotFound, entity)
	}

	format, err := tabular.ParseFormat(fileType)
	if err != nil {
		return ImportTemplate{}, malformedInput(err)
	}

	switch format {
	case tabular.FormatCSV:
		body, err := renderCSVTemplate(layout)
		if err != nil {
			return ImportTemplate{}, err
		}
		return ImportTemplate{Filename: entity + "_import_template.csv", ContentType: contentTypeCSV, Body: body}, nil
	case tabular.FormatXLSX:
		body, err := renderXLSXTemplate(entity, layout)
		if err != nil {
			return ImportTemplate{}, err
		}
		return ImportTemplate{Filename: entity + "_import_template.xlsx", ContentType: contentTypeXLSX, Body: body}, nil
	default:
		return ImportTemplate{}, fmt.Errorf("%w: templates are available as csv or xlsx", ErrInvalidInput)
	}
}

func renderCSVTemplate(layout templateLayout) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := csv.NewWriter(buf)
	if err := w.Write(layout.columns); err != nil {
		return nil, fmt.Errorf("write template header: %w", err)
	}
	if err := w.Write(layout.sample); err != nil {
		return nil, fmt.Errorf("write template sample: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush template: %w", err)
	}

	return append([]byte(nil), buf.B...), nil
}

func renderXLSXTemplate(entity string, layout templateLayout) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := strings.ToUpper(entity[:1]) + entity[1:]
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	requiredStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create required style: %w", err)
	}

	for i, col := range layout.columns {
		header, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		sample, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, header, col); err != nil {
			return nil, fmt.Errorf("set header %s: %w", col, err)
		}
		style := headerStyle
		if layout.required[col] {
			style = requiredStyle
		}
		if err := f.SetCellStyle(sheet, header, header, style); err != nil {
			return nil, fmt.Errorf("style header %s: %w", col, err)
		}
		if i < len(layout.sample) {
			if err := f.SetCellValue(sheet, sample, layout.sample[i]); err != nil {
				return nil, fmt.Errorf("set sample %s: %w", col, err)
			}
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, colName, colName, 20); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return out.Bytes(), nil
}
