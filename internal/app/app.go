package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/sports-crm-import/internal/config"
	"github.com/riskibarqy/sports-crm-import/internal/domain/contact"
	"github.com/riskibarqy/sports-crm-import/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/sports-crm-import/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/sports-crm-import/internal/platform/cache"
	"github.com/riskibarqy/sports-crm-import/internal/platform/logging"
	"github.com/riskibarqy/sports-crm-import/internal/platform/tabular"
	"github.com/riskibarqy/sports-crm-import/internal/usecase"
)

// NewHTTPServer wires storage, the import pipeline and the router. The returned cleanup
// closes the database pool and must run after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, err := openStorage(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	refRepo := store.references
	if cfg.CacheEnabled {
		refRepo = cache.NewReferenceRepository(refRepo, basecache.NewStore(cfg.CacheTTL))
	}

	aliases := tabular.DefaultAliases()
	if cfg.Import.ColumnAliasesFile != "" {
		aliases, err = tabular.LoadAliases(cfg.Import.ColumnAliasesFile)
		if err != nil {
			_ = store.close()
			return nil, nil, fmt.Errorf("load column aliases: %w", err)
		}
	}

	importSvc := usecase.NewImportService(
		store.teams,
		store.contacts,
		usecase.NewReferenceResolver(refRepo, cfg.Import.PrefetchWorkers, logger),
		store.locker,
		tabular.NewParser(aliases),
		usecase.ImportConfig{
			DefaultBatchSize: cfg.Import.DefaultBatchSize,
			MaxBatchSize:     cfg.Import.MaxBatchSize,
			Costs: contact.CreditCosts{
				Email:    cfg.Import.EmailCreditCost,
				Phone:    cfg.Import.PhoneCreditCost,
				LinkedIn: cfg.Import.LinkedInCreditCost,
			},
		},
		logger,
	)

	handler := httpapi.NewHandler(importSvc, usecase.NewTemplateService(), logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		APIToken:           cfg.ImportAPIToken,
		MaxBodyBytes:       cfg.Import.MaxBodyBytes,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("import service wired",
		"storage", store.kind,
		"reference_cache", cfg.CacheEnabled,
		"default_batch_size", cfg.Import.DefaultBatchSize,
		"max_batch_size", cfg.Import.MaxBatchSize,
	)
	return server, store.close, nil
}
