package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/sports-crm-import/internal/domain/batch"
	"github.com/riskibarqy/sports-crm-import/internal/usecase"
)

func (h *Handler) ProcessTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProcessTeams")
	defer span.End()

	h.runImport(ctx, w, r, usecase.OpProcessTeams)
}

func (h *Handler) UpdateTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeams")
	defer span.End()

	h.runImport(ctx, w, r, usecase.OpUpdateTeams)
}

func (h *Handler) ProcessContacts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProcessContacts")
	defer span.End()

	h.runImport(ctx, w, r, usecase.OpProcessContacts)
}

func (h *Handler) UpdateContacts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateContacts")
	defer span.End()

	h.runImport(ctx, w, r, usecase.OpUpdateContacts)
}

func (h *Handler) runImport(ctx context.Context, w http.ResponseWriter, r *http.Request, op usecase.Operation) {
	input, err := h.readImportInput(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	progress, err := h.importService.Run(ctx, op, input)
	if err != nil {
		h.logImportError(ctx, op, input.StartRow, err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toProgressDTO(progress))
}

// StreamImport runs every remaining batch of the file and writes one NDJSON event per batch
// followed by a summary event. Errors raised before the first batch are plain JSON errors.
func (h *Handler) StreamImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamImport")
	defer span.End()

	op, err := streamOperation(r.PathValue("entity"), strings.HasSuffix(r.URL.Path, "/update/stream"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	input, err := h.readImportInput(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rc := http.NewResponseController(w)
	// A long file outlives the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	encoder := sonic.ConfigDefault.NewEncoder(w)
	started := false
	send := func(event streamEventDTO) error {
		if !started {
			w.Header().Set("Content-Type", "application/x-ndjson")
			w.Header().Set("Cache-Control", "no-cache")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("write stream event: %w", err)
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return fmt.Errorf("flush stream event: %w", err)
		}
		return nil
	}

	total, err := h.importService.Stream(ctx, op, input, func(step batch.Progress) error {
		dto := toProgressDTO(step)
		return send(streamEventDTO{Type: streamEventBatch, Progress: &dto})
	})
	if err != nil {
		h.logImportError(ctx, op, input.StartRow, err)
		if !started {
			writeError(ctx, w, err)
			return
		}
		dto := toProgressDTO(total)
		mapped := mapError(ctx, err)
		msg := err.Error()
		if mapped.HTTPStatus == http.StatusInternalServerError {
			msg = "internal server error"
		}
		_ = send(streamEventDTO{Type: streamEventError, Progress: &dto, Error: msg})
		return
	}

	h.logger.InfoContext(ctx, "import stream finished",
		"operation", string(op),
		"processed", total.Processed,
		"successful", total.Successful,
		"next_start_row", total.NextStartRow,
		"is_complete", total.IsComplete,
	)
	dto := toProgressDTO(total)
	if err := send(streamEventDTO{Type: streamEventSummary, Progress: &dto}); err != nil {
		h.logger.WarnContext(ctx, "write stream summary failed", "operation", string(op), "error", err)
	}
}

func (h *Handler) readImportInput(ctx context.Context, r *http.Request) (usecase.ImportInput, error) {
	var req importRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return usecase.ImportInput{}, err
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.ImportInput{}, err
	}
	return req.toInput()
}

func (h *Handler) logImportError(ctx context.Context, op usecase.Operation, startRow int, err error) {
	args := []any{"operation", string(op), "start_row", startRow, "error", err}
	if mapError(ctx, err).HTTPStatus >= http.StatusInternalServerError && !errors.Is(err, usecase.ErrMalformedInput) {
		h.logger.ErrorContext(ctx, "import batch failed", args...)
		return
	}
	h.logger.WarnContext(ctx, "import batch rejected", args...)
}

func streamOperation(entity string, update bool) (usecase.Operation, error) {
	switch strings.ToLower(strings.TrimSpace(entity)) {
	case "teams":
		if update {
			return usecase.OpUpdateTeams, nil
		}
		return usecase.OpProcessTeams, nil
	case "contacts":
		if update {
			return usecase.OpUpdateContacts, nil
		}
		return usecase.OpProcessContacts, nil
	default:
		return "", fmt.Errorf("%w: unknown import entity %q", usecase.ErrNotFound, entity)
	}
}
