package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

// DownloadTemplate serves a starter file for the entity in the requested format (csv by default).
func (h *Handler) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DownloadTemplate")
	defer span.End()

	format := strings.TrimSpace(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}

	tmpl, err := h.templateService.Render(r.PathValue("entity"), format)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", tmpl.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+tmpl.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(tmpl.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(tmpl.Body)
}
