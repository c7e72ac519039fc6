// Package batch holds the resumable cursor protocol shared by every import flow.
//
// Rows are addressed by a 0-based startRow over the data rows (header excluded). Error
// messages and conflict resolutions use 1-based row numbers, startRow+i+1 for the i-th
// row of a window.
package batch

import (
	"fmt"
	"time"
)

// MaxErrors caps the error list of one batch; the overflow is only counted.
const MaxErrors = 500

// Window is the half-open slice [Start, End) of data rows one call processes.
type Window struct {
	Start int
	End   int
	Total int
}

// NewWindow clamps startRow into [0, totalRows] and processes at most batchSize rows.
// batchSize must already be positive.
func NewWindow(startRow, batchSize, totalRows int) Window {
	if totalRows < 0 {
		totalRows = 0
	}
	if startRow < 0 {
		startRow = 0
	}
	if startRow > totalRows {
		startRow = totalRows
	}
	if batchSize < 1 {
		batchSize = 1
	}

	end := startRow + batchSize
	if end > totalRows || end < startRow {
		end = totalRows
	}
	return Window{Start: startRow, End: end, Total: totalRows}
}

func (w Window) Len() int {
	return w.End - w.Start
}

// Complete reports whether this window reaches the last row.
func (w Window) Complete() bool {
	return w.End >= w.Total
}

// RowNumber converts a 0-based data-row index into the 1-based number shown to users.
func RowNumber(index int) int {
	return index + 1
}

// Progress is the result of one batch call and the payload of each stream event.
type Progress struct {
	Processed       int
	Successful      int
	Skipped         int
	Created         int
	Updated         int
	Errors          []string
	TruncatedErrors int
	NotFoundNames   []string
	TotalRows       int
	NextStartRow    int
	IsComplete      bool
	Duration        time.Duration
}

// NewProgress starts a progress record whose cursor already points past w.
func NewProgress(w Window) *Progress {
	return &Progress{
		Errors:       []string{},
		TotalRows:    w.Total,
		NextStartRow: w.End,
		IsComplete:   w.Complete(),
	}
}

func (p *Progress) MarkCreated() {
	p.Processed++
	p.Successful++
	p.Created++
}

func (p *Progress) MarkUpdated() {
	p.Processed++
	p.Successful++
	p.Updated++
}

func (p *Progress) MarkSkipped() {
	p.Processed++
	p.Skipped++
}

// MarkNotFound counts an update row whose target does not exist as skipped and remembers its name.
func (p *Progress) MarkNotFound(name string) {
	p.MarkSkipped()
	p.NotFoundNames = append(p.NotFoundNames, name)
}

// MarkFailed records "Row N: message" for a row that could not be imported.
func (p *Progress) MarkFailed(rowNumber int, err error) {
	p.Processed++
	if len(p.Errors) >= MaxErrors {
		p.TruncatedErrors++
		return
	}
	p.Errors = append(p.Errors, fmt.Sprintf("Row %d: %s", rowNumber, err.Error()))
}

// ErrorCount includes the truncated overflow.
func (p *Progress) ErrorCount() int {
	return len(p.Errors) + p.TruncatedErrors
}

// Merge folds a later batch of the same session into p and takes over its cursor.
func (p *Progress) Merge(next Progress) {
	p.Processed += next.Processed
	p.Successful += next.Successful
	p.Skipped += next.Skipped
	p.Created += next.Created
	p.Updated += next.Updated
	for _, msg := range next.Errors {
		if len(p.Errors) >= MaxErrors {
			p.TruncatedErrors++
			continue
		}
		p.Errors = append(p.Errors, msg)
	}
	p.TruncatedErrors += next.TruncatedErrors
	p.NotFoundNames = append(p.NotFoundNames, next.NotFoundNames...)
	p.TotalRows = next.TotalRows
	p.NextStartRow = next.NextStartRow
	p.IsComplete = next.IsComplete
	p.Duration += next.Duration
}
