package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/sports-crm-import/internal/domain/batch"
	"github.com/riskibarqy/sports-crm-import/internal/domain/contact"
	"github.com/riskibarqy/sports-crm-import/internal/domain/team"
	"github.com/riskibarqy/sports-crm-import/internal/platform/logging"
	"github.com/riskibarqy/sports-crm-import/internal/platform/tabular"
	"go.opentelemetry.io/otel/attribute"
)

// Operation names one of the four import flows.
type Operation string

const (
	OpProcessTeams    Operation = "process-teams"
	OpUpdateTeams     Operation = "update-teams"
	OpProcessContacts Operation = "process-contacts"
	OpUpdateContacts  Operation = "update-contacts"
)

func (o Operation) entity() string {
	switch o {
	case OpProcessTeams, OpUpdateTeams:
		return "teams"
	default:
		return "contacts"
	}
}

func (o Operation) lockKey() string {
	return "import:" + o.entity()
}

func (o Operation) requiredColumns() []string {
	if o.entity() == "teams" {
		return []string{team.ColumnName}
	}
	return []string{contact.ColumnName, contact.ColumnTeam}
}

func (o Operation) Validate() error {
	switch o {
	case OpProcessTeams, OpUpdateTeams, OpProcessContacts, OpUpdateContacts:
		return nil
	default:
		return fmt.Errorf("%w: unknown import operation %q", ErrInvalidInput, o)
	}
}

// ImportLocker serializes batches that write the same entity.
type ImportLocker interface {
	TryAcquire(ctx context.Context, key string) (release func(), acquired bool, err error)
}

type ImportConfig struct {
	DefaultBatchSize int
	MaxBatchSize     int
	Costs            contact.CreditCosts
}

// ImportInput is one batch request. StartRow is 0-based over data rows; the keys of
// ConflictResolutions are the 1-based row numbers used in error messages.
type ImportInput struct {
	Data                string
	FileType            string
	StartRow            int
	BatchSize           int
	SelectedColumns     []string
	NullifyEmpty        bool
	ConflictResolutions map[int]string
}

type ImportService struct {
	teamRepo    team.Repository
	contactRepo contact.Repository
	resolver    *ReferenceResolver
	locker      ImportLocker
	parser      *tabular.Parser
	validate    *validator.Validate
	cfg         ImportConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewImportService(
	teamRepo team.Repository,
	contactRepo contact.Repository,
	resolver *ReferenceResolver,
	locker ImportLocker,
	parser *tabular.Parser,
	cfg ImportConfig,
	logger *logging.Logger,
) *ImportService {
	if parser == nil {
		parser = tabular.NewParser(nil)
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DefaultBatchSize < 1 {
		cfg.DefaultBatchSize = 50
	}
	if cfg.MaxBatchSize < cfg.DefaultBatchSize {
		cfg.MaxBatchSize = cfg.DefaultBatchSize
	}

	return &ImportService{
		teamRepo:    teamRepo,
		contactRepo: contactRepo,
		resolver:    resolver,
		locker:      locker,
		parser:      parser,
		validate:    newRowValidator(),
		cfg:         cfg,
		logger:      logger.Named("import"),
		now:         time.Now,
	}
}

func (s *ImportService) ProcessTeams(ctx context.Context, input ImportInput) (batch.Progress, error) {
	return s.Run(ctx, OpProcessTeams, input)
}

func (s *ImportService) UpdateTeams(ctx context.Context, input ImportInput) (batch.Progress, error) {
	return s.Run(ctx, OpUpdateTeams, input)
}

func (s *ImportService) ProcessContacts(ctx context.Context, input ImportInput) (batch.Progress, error) {
	return s.Run(ctx, OpProcessContacts, input)
}

func (s *ImportService) UpdateContacts(ctx context.Context, input ImportInput) (batch.Progress, error) {
	return s.Run(ctx, OpUpdateContacts, input)
}

// Run processes one window of the file and returns its progress and cursor. When ctx is
// cancelled mid-window the partial progress is returned with the error, its cursor on the
// first unprocessed row.
func (s *ImportService) Run(ctx context.Context, op Operation, input ImportInput) (batch.Progress, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.Run", attribute.String("operation", string(op)))
	var err error
	defer func() { finishSpan(span, err) }()

	table, columns, err := s.prepare(op, input)
	if err != nil {
		return batch.Progress{}, err
	}

	progress, err := s.runWindow(ctx, op, table, columns, input)
	return progress, err
}

// Stream runs every remaining window from input.StartRow, calling emit after each one,
// and returns the merged totals. It stops early when ctx is cancelled or emit fails.
func (s *ImportService) Stream(ctx context.Context, op Operation, input ImportInput, emit func(batch.Progress) error) (batch.Progress, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.Stream", attribute.String("operation", string(op)))
	var err error
	defer func() { finishSpan(span, err) }()

	table, columns, err := s.prepare(op, input)
	if err != nil {
		return batch.Progress{}, err
	}

	total := batch.NewProgress(batch.NewWindow(input.StartRow, s.batchSize(input.BatchSize), table.Len()))
	total.NextStartRow = input.StartRow
	total.IsComplete = input.StartRow >= table.Len()
	for !total.IsComplete {
		var step batch.Progress
		step, err = s.runWindow(ctx, op, table, columns, input)
		total.Merge(step)
		if err != nil {
			return *total, err
		}
		if emit != nil {
			if err = emit(step); err != nil {
				return *total, err
			}
		}
		if step.Processed == 0 && !step.IsComplete {
			break
		}
		input.StartRow = step.NextStartRow
	}
	return *total, nil
}

func (s *ImportService) prepare(op Operation, input ImportInput) (tabular.Table, map[string]bool, error) {
	if err := op.Validate(); err != nil {
		return tabular.Table{}, nil, err
	}
	if input.StartRow < 0 {
		return tabular.Table{}, nil, fmt.Errorf("%w: startRow must be >= 0", ErrInvalidInput)
	}
	if input.BatchSize < 0 {
		return tabular.Table{}, nil, fmt.Errorf("%w: batchSize must be >= 0", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Data) == "" {
		return tabular.Table{}, nil, fmt.Errorf("%w: csvData is required", ErrInvalidInput)
	}

	format, err := tabular.ParseFormat(input.FileType)
	if err != nil {
		return tabular.Table{}, nil, malformedInput(err)
	}
	raw, err := tabular.DecodePayload(input.Data, format)
	if err != nil {
		return tabular.Table{}, nil, malformedInput(err)
	}
	table, err := s.parser.Parse(raw, format)
	if err != nil {
		return tabular.Table{}, nil, malformedInput(err)
	}
	if err := table.Require(op.requiredColumns()...); err != nil {
		return tabular.Table{}, nil, malformedInput(err)
	}

	var columns map[string]bool
	if op == OpUpdateTeams || op == OpUpdateContacts {
		columns, err = updatableColumns(op, table, input.SelectedColumns)
		if err != nil {
			return tabular.Table{}, nil, err
		}
	}
	return table, columns, nil
}

// updatableColumns picks the columns an update may overwrite: the selected ones, or every
// recognised column when none are selected, always intersected with the file header.
// Match-key columns are never overwritten.
func updatableColumns(op Operation, table tabular.Table, selected []string) (map[string]bool, error) {
	recognised := team.Columns
	keys := map[string]bool{team.ColumnName: true}
	if op == OpUpdateContacts {
		recognised = contact.Columns
		keys = map[string]bool{contact.ColumnName: true, contact.ColumnTeam: true}
	}
	known := make(map[string]bool, len(recognised))
	for _, col := range recognised {
		known[col] = true
	}

	wanted := selected
	if len(wanted) == 0 {
		wanted = recognised
	}
	out := make(map[string]bool, len(wanted))
	for _, col := range wanted {
		col = strings.ToLower(strings.TrimSpace(col))
		if col == "" {
			continue
		}
		if !known[col] {
			return nil, fmt.Errorf("%w: unknown column %q in selectedColumns", ErrInvalidInput, col)
		}
		if keys[col] || !table.HasColumn(col) {
			continue
		}
		out[col] = true
	}
	return out, nil
}

func (s *ImportService) batchSize(requested int) int {
	if requested <= 0 {
		return s.cfg.DefaultBatchSize
	}
	if requested > s.cfg.MaxBatchSize {
		return s.cfg.MaxBatchSize
	}
	return requested
}

type rowOutcome int

const (
	rowCreated rowOutcome = iota + 1
	rowUpdated
	rowSkipped
	rowNotFound
)

type rowHandler func(ctx context.Context, row tabular.Row, rowNumber int) (rowOutcome, error)

func (s *ImportService) runWindow(
	ctx context.Context,
	op Operation,
	table tabular.Table,
	columns map[string]bool,
	input ImportInput,
) (batch.Progress, error) {
	window := batch.NewWindow(input.StartRow, s.batchSize(input.BatchSize), table.Len())
	progress := batch.NewProgress(window)
	if window.Len() == 0 {
		return *progress, nil
	}

	// unstarted keeps the cursor on the window start when nothing was processed.
	unstarted := func(err error) (batch.Progress, error) {
		progress.NextStartRow = window.Start
		progress.IsComplete = false
		return *progress, err
	}

	release, acquired, err := s.locker.TryAcquire(ctx, op.lockKey())
	if err != nil {
		return unstarted(fmt.Errorf("%w: acquire import lock: %v", ErrDependencyUnavailable, err))
	}
	if !acquired {
		return unstarted(fmt.Errorf("%w: another %s import is running", ErrConflict, op.entity()))
	}
	defer release()

	startedAt := s.now()
	handle, err := s.newRowHandler(ctx, op, table, window, columns, input)
	if err != nil {
		return unstarted(err)
	}

	for i := window.Start; i < window.End; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			progress.NextStartRow = i
			progress.IsComplete = false
			return *progress, fmt.Errorf("import interrupted at row %d: %w", batch.RowNumber(i), ctxErr)
		}

		rowNumber := batch.RowNumber(i)
		row := table.Row(i)
		outcome, rowErr := handle(ctx, row, rowNumber)
		if rowErr != nil {
			if isInfrastructureError(rowErr) {
				s.logger.WarnContext(ctx, "import row failed", "operation", string(op), "row", rowNumber, "error", rowErr)
			} else {
				s.logger.DebugContext(ctx, "import row rejected", "operation", string(op), "row", rowNumber, "error", rowErr)
			}
			progress.MarkFailed(rowNumber, rowErr)
			continue
		}

		switch outcome {
		case rowCreated:
			progress.MarkCreated()
		case rowUpdated:
			progress.MarkUpdated()
		case rowNotFound:
			progress.MarkNotFound(row.Get("name"))
		default:
			progress.MarkSkipped()
		}
	}

	progress.Duration = s.now().Sub(startedAt)
	s.logger.InfoContext(ctx, "import batch finished",
		"entity", op.entity(),
		"operation", string(op),
		"start_row", window.Start,
		"processed", progress.Processed,
		"successful", progress.Successful,
		"skipped", progress.Skipped,
		"errors", progress.ErrorCount(),
		"next_start_row", progress.NextStartRow,
		"is_complete", progress.IsComplete,
		"duration", progress.Duration,
	)
	return *progress, nil
}

func (s *ImportService) newRowHandler(
	ctx context.Context,
	op Operation,
	table tabular.Table,
	window batch.Window,
	columns map[string]bool,
	input ImportInput,
) (rowHandler, error) {
	switch op {
	case OpProcessTeams, OpUpdateTeams:
		refs, err := s.teamRepo.ListRefs(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list existing teams: %v", ErrDependencyUnavailable, err)
		}
		s.resolver.Prefetch(ctx, teamLookups(table, window))
		run := &teamRun{service: s, index: team.NewIndex(refs), columns: columns, nullifyEmpty: input.NullifyEmpty}
		if op == OpProcessTeams {
			return run.create, nil
		}
		return run.update, nil
	default:
		s.resolver.Prefetch(ctx, contactLookups(table, window))
		run := &contactRun{
			service:      s,
			seen:         contact.KeySet{},
			teamsByName:  make(map[string][]team.Ref),
			resolutions:  input.ConflictResolutions,
			columns:      columns,
			nullifyEmpty: input.NullifyEmpty,
		}
		if op == OpProcessContacts {
			return run.create, nil
		}
		return run.update, nil
	}
}

// malformedInput marks file-level failures (undecodable payload, missing header or data
// rows, missing required columns). They abort the whole request.
func malformedInput(err error) error {
	if crerr.Is(err, tabular.ErrMalformedInput) {
		return fmt.Errorf("%w: %s", ErrMalformedInput, err.Error())
	}
	return err
}

// rowError is a data problem in one row, as opposed to a storage failure.
type rowError struct {
	msg string
}

func (e rowError) Error() string {
	return e.msg
}

func rowErrorf(format string, args ...any) error {
	return rowError{msg: fmt.Sprintf(format, args...)}
}

func isInfrastructureError(err error) bool {
	var re rowError
	return !crerr.As(err, &re)
}
