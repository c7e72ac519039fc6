package httpapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/sports-crm-import/internal/domain/batch"
	"github.com/riskibarqy/sports-crm-import/internal/usecase"
)

type importRequest struct {
	CSVData             string            `json:"csvData" validate:"required"`
	FileType            string            `json:"fileType" validate:"omitempty,oneofci=csv xlsx xls"`
	StartRow            int               `json:"startRow" validate:"min=0"`
	BatchSize           int               `json:"batchSize" validate:"min=0"`
	SelectedColumns     []string          `json:"selectedColumns" validate:"omitempty,dive,required"`
	NullifyEmpty        bool              `json:"nullifyEmpty"`
	ConflictResolutions map[string]string `json:"conflictResolutions" validate:"omitempty,dive,keys,required,endkeys,required"`
}

// toInput converts the wire request. Conflict resolution keys are 1-based row numbers.
func (r importRequest) toInput() (usecase.ImportInput, error) {
	input := usecase.ImportInput{
		Data:            r.CSVData,
		FileType:        r.FileType,
		StartRow:        r.StartRow,
		BatchSize:       r.BatchSize,
		SelectedColumns: r.SelectedColumns,
		NullifyEmpty:    r.NullifyEmpty,
	}
	if len(r.ConflictResolutions) == 0 {
		return input, nil
	}

	input.ConflictResolutions = make(map[int]string, len(r.ConflictResolutions))
	for key, teamID := range r.ConflictResolutions {
		row, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || row < 1 {
			return usecase.ImportInput{}, fmt.Errorf("%w: conflictResolutions key %q is not a row number", usecase.ErrInvalidInput, key)
		}
		input.ConflictResolutions[row] = strings.TrimSpace(teamID)
	}
	return input, nil
}

type progressDTO struct {
	Processed       int      `json:"processed"`
	Successful      int      `json:"successful"`
	Skipped         int      `json:"skipped"`
	Created         int      `json:"created"`
	Updated         int      `json:"updated"`
	Errors          []string `json:"errors"`
	TruncatedErrors int      `json:"truncatedErrors,omitempty"`
	NotFoundNames   []string `json:"notFoundNames,omitempty"`
	TotalRows       int      `json:"totalRows"`
	NextStartRow    int      `json:"nextStartRow"`
	IsComplete      bool     `json:"isComplete"`
	DurationMS      int64    `json:"durationMs"`
}

func toProgressDTO(p batch.Progress) progressDTO {
	errs := p.Errors
	if errs == nil {
		errs = []string{}
	}
	return progressDTO{
		Processed:       p.Processed,
		Successful:      p.Successful,
		Skipped:         p.Skipped,
		Created:         p.Created,
		Updated:         p.Updated,
		Errors:          errs,
		TruncatedErrors: p.TruncatedErrors,
		NotFoundNames:   p.NotFoundNames,
		TotalRows:       p.TotalRows,
		NextStartRow:    p.NextStartRow,
		IsComplete:      p.IsComplete,
		DurationMS:      p.Duration.Milliseconds(),
	}
}

const (
	streamEventBatch   = "batch"
	streamEventSummary = "summary"
	streamEventError   = "error"
)

// streamEventDTO is one NDJSON line of a streaming import.
type streamEventDTO struct {
	Type     string       `json:"type"`
	Progress *progressDTO `json:"progress,omitempty"`
	Error    string       `json:"error,omitempty"`
}
