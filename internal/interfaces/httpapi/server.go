package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sports-crm-import/internal/platform/logging"
)

// RouterConfig holds the HTTP concerns that sit outside the handler itself.
type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	APIToken           string
	MaxBodyBytes       int64
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerImportRoutes(mux, handler, cfg.APIToken)

	inner := LimitBody(cfg.MaxBodyBytes, mux)
	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, inner))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
