package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/sports-crm-import/internal/platform/logging"
	"github.com/riskibarqy/sports-crm-import/internal/usecase"
)

type Handler struct {
	importService   *usecase.ImportService
	templateService *usecase.TemplateService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	importService *usecase.ImportService,
	templateService *usecase.TemplateService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if templateService == nil {
		templateService = usecase.NewTemplateService()
	}

	return &Handler{
		importService:   importService,
		templateService: templateService,
		logger:          logger.Named("httpapi"),
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON reads the whole body before decoding so an oversized payload is reported as
// such instead of as a syntax error.
func (h *Handler) decodeJSON(r *http.Request, payload any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", errPayloadTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}

	decoder := sonic.ConfigDefault.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
