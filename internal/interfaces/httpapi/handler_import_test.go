package httpapi

import (
	"bufio"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-crm-import/internal/domain/contact"
	"github.com/riskibarqy/sports-crm-import/internal/domain/team"
	lockmemory "github.com/riskibarqy/sports-crm-import/internal/infrastructure/lock/memory"
	"github.com/riskibarqy/sports-crm-import/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sports-crm-import/internal/platform/id"
	"github.com/riskibarqy/sports-crm-import/internal/platform/logging"
	"github.com/riskibarqy/sports-crm-import/internal/usecase"
)

func newTestRouter(t *testing.T, cfg RouterConfig, seed ...team.Team) (http.Handler, *memory.ContactRepository) {
	t.Helper()
	return newLoggedTestRouter(t, cfg, logging.NewNop(), seed...)
}

func newLoggedTestRouter(t *testing.T, cfg RouterConfig, logger *logging.Logger, seed ...team.Team) (http.Handler, *memory.ContactRepository) {
	t.Helper()

	teams := memory.NewTeamRepository(id.NewSequenceGenerator("team"), seed...)
	contacts := memory.NewContactRepository(id.NewSequenceGenerator("contact"))
	refs := memory.NewReferenceRepository(id.NewSequenceGenerator("ref"))
	service := usecase.NewImportService(
		teams,
		contacts,
		usecase.NewReferenceResolver(refs, 2, logger),
		lockmemory.NewLocker(),
		nil,
		usecase.ImportConfig{DefaultBatchSize: 50, MaxBatchSize: 500, Costs: contact.CreditCosts{Email: 1, Phone: 2, LinkedIn: 1}},
		logger,
	)
	handler := NewHandler(service, usecase.NewTemplateService(), logger)
	if cfg.CORSAllowedOrigins == nil {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	return NewRouter(handler, logger, cfg), contacts
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := sonic.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeProgress(t *testing.T, rec *httptest.ResponseRecorder) progressDTO {
	t.Helper()

	var out progressDTO
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal progress: %v (body=%s)", err, rec.Body.String())
	}
	return out
}

func TestHandler_ProcessTeams(t *testing.T) {
	router, _ := newTestRouter(t, RouterConfig{})

	rec := postJSON(t, router, "/v1/imports/teams", map[string]any{
		"csvData":   "Name,City,Country\nChelsea FC,London,England\nArsenal,London,England\nchelsea fc,london,england",
		"fileType":  "csv",
		"batchSize": 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	got := decodeProgress(t, rec)
	if got.Created != 2 || got.Processed != 2 || got.TotalRows != 3 {
		t.Fatalf("unexpected progress: %+v", got)
	}
	if got.NextStartRow != 2 || got.IsComplete {
		t.Fatalf("unexpected cursor: next=%d complete=%v", got.NextStartRow, got.IsComplete)
	}

	rec = postJSON(t, router, "/v1/imports/teams", map[string]any{
		"csvData":   "Name,City,Country\nChelsea FC,London,England\nArsenal,London,England\nchelsea fc,london,england",
		"startRow":  got.NextStartRow,
		"batchSize": 2,
	})
	got = decodeProgress(t, rec)
	if got.Skipped != 1 || !got.IsComplete || got.NextStartRow != 3 {
		t.Fatalf("unexpected second batch: %+v", got)
	}
}

func TestHandler_ProcessTeams_LogsBatchSummaryOnce(t *testing.T) {
	var logs bytes.Buffer
	router, _ := newLoggedTestRouter(t, RouterConfig{}, logging.NewJSONWriter(logging.LevelInfo, &logs))

	rec := postJSON(t, router, "/v1/imports/teams", map[string]any{"csvData": "Name\nChelsea FC\nArsenal"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := strings.Count(logs.String(), `"msg":"import batch finished"`); got != 1 {
		t.Fatalf("expected one batch summary line, got %d in %s", got, logs.String())
	}
	if !strings.Contains(logs.String(), `"msg":"http request"`) {
		t.Fatalf("expected request access line, got %s", logs.String())
	}
}

func TestHandler_RequestValidation(t *testing.T) {
	router, _ := newTestRouter(t, RouterConfig{MaxBodyBytes: 256})

	tests := []struct {
		name    string
		payload any
		want    int
	}{
		{name: "missing data", payload: map[string]any{"fileType": "csv"}, want: http.StatusBadRequest},
		{name: "unknown field", payload: map[string]any{"csvData": "name\nA", "bogus": true}, want: http.StatusBadRequest},
		{name: "negative start", payload: map[string]any{"csvData": "name\nA", "startRow": -1}, want: http.StatusBadRequest},
		{name: "bad file type", payload: map[string]any{"csvData": "name\nA", "fileType": "pdf"}, want: http.StatusBadRequest},
		{name: "bad resolution key", payload: map[string]any{"csvData": "name,team\nA,B", "conflictResolutions": map[string]string{"first": "team-1"}}, want: http.StatusBadRequest},
		{name: "too large", payload: map[string]any{"csvData": "name\n" + strings.Repeat("A", 512)}, want: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/v1/imports/teams", tt.payload)
			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d body=%s", tt.want, rec.Code, rec.Body.String())
			}
			var body errorResponse
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
				t.Fatalf("expected error body, got %s", rec.Body.String())
			}
		})
	}
}

func TestHandler_MalformedFileIsServerError(t *testing.T) {
	router, _ := newTestRouter(t, RouterConfig{})

	tests := []struct {
		name    string
		csvData string
		want    string
	}{
		{name: "header only", csvData: "Name,City,Country", want: "at least one data row"},
		{name: "missing name column", csvData: "City\nLondon", want: `missing required "name" column`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/v1/imports/teams", map[string]any{"csvData": tt.csvData})
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d body=%s", rec.Code, rec.Body.String())
			}
			var body errorResponse
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}
			if !strings.Contains(body.Error, tt.want) || body.Reason != "malformedInput" {
				t.Fatalf("unexpected error body %+v", body)
			}
		})
	}
}

func TestHandler_ProcessContacts_ConflictResolution(t *testing.T) {
	router, contacts := newTestRouter(t, RouterConfig{},
		team.Team{ID: "team-u1", Name: "United", City: "Manchester", Country: "England"},
		team.Team{ID: "team-u2", Name: "United", City: "Leeds", Country: "England"},
	)

	rec := postJSON(t, router, "/v1/imports/contacts", map[string]any{
		"csvData":             "name,team\nJane Doe,United\nBob Roe,United",
		"conflictResolutions": map[string]string{"2": "team-u2"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	got := decodeProgress(t, rec)
	if got.Created != 1 || len(got.Errors) != 1 {
		t.Fatalf("unexpected progress: %+v", got)
	}
	if !strings.HasPrefix(got.Errors[0], "Row 1: ") {
		t.Fatalf("unexpected error: %q", got.Errors[0])
	}
	if len(contacts.List("team-u2")) != 1 {
		t.Fatalf("expected contact stored on team-u2")
	}
}

func TestHandler_StreamImport(t *testing.T) {
	router, _ := newTestRouter(t, RouterConfig{})

	rec := postJSON(t, router, "/v1/imports/teams/stream", map[string]any{
		"csvData":   "name\nA\nB\nC",
		"batchSize": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/x-ndjson" {
		t.Fatalf("unexpected content type %q", got)
	}

	var events []streamEventDTO
	scanner := bufio.NewScanner(rec.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var event streamEventDTO
		if err := sonic.UnmarshalString(line, &event); err != nil {
			t.Fatalf("unmarshal event %q: %v", line, err)
		}
		events = append(events, event)
	}

	if len(events) != 4 {
		t.Fatalf("expected 3 batch events and a summary, got %d", len(events))
	}
	for i, event := range events[:3] {
		if event.Type != streamEventBatch || event.Progress == nil || event.Progress.NextStartRow != i+1 {
			t.Fatalf("unexpected batch event %d: %+v", i, event)
		}
	}
	summary := events[3]
	if summary.Type != streamEventSummary || summary.Progress == nil {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Progress.Created != 3 || !summary.Progress.IsComplete || summary.Progress.NextStartRow != 3 {
		t.Fatalf("unexpected summary progress: %+v", summary.Progress)
	}
}

func TestHandler_StreamImport_UnknownEntity(t *testing.T) {
	router, _ := newTestRouter(t, RouterConfig{})

	rec := postJSON(t, router, "/v1/imports/players/stream", map[string]any{"csvData": "name\nA"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandler_DownloadTemplate(t *testing.T) {
	router, _ := newTestRouter(t, RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/v1/imports/templates/contacts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "contacts_import_template.csv") {
		t.Fatalf("unexpected content disposition %q", got)
	}
	header, _, _ := strings.Cut(rec.Body.String(), "\n")
	if !strings.HasPrefix(header, contact.ColumnName+",") {
		t.Fatalf("unexpected template header %q", header)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/imports/templates/players?format=xlsx", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown template, got %d", rec.Code)
	}
}

func TestHandler_ImportRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t, RouterConfig{APIToken: "secret"})

	rec := postJSON(t, router, "/v1/imports/teams", map[string]any{"csvData": "name\nA"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	health := httptest.NewRecorder()
	router.ServeHTTP(health, req)
	if health.Code != http.StatusOK {
		t.Fatalf("expected open healthz, got %d", health.Code)
	}
}
