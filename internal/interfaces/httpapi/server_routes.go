package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerImportRoutes(mux *http.ServeMux, handler *Handler, apiToken string) {
	guard := func(h http.HandlerFunc) http.Handler {
		return RequireAPIToken(apiToken, h)
	}

	mux.Handle("POST /v1/imports/teams", guard(handler.ProcessTeams))
	mux.Handle("POST /v1/imports/teams/update", guard(handler.UpdateTeams))
	mux.Handle("POST /v1/imports/contacts", guard(handler.ProcessContacts))
	mux.Handle("POST /v1/imports/contacts/update", guard(handler.UpdateContacts))
	mux.Handle("POST /v1/imports/{entity}/stream", guard(handler.StreamImport))
	mux.Handle("POST /v1/imports/{entity}/update/stream", guard(handler.StreamImport))
	mux.Handle("GET /v1/imports/templates/{entity}", guard(handler.DownloadTemplate))
}
