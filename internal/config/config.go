package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/sports-crm-import/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	DBURL                   string
	DBBinaryParameters      bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	SwaggerEnabled          bool
	ImportAPIToken          string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	PprofEnabled            bool
	PprofAddr               string
	UptraceEnabled          bool
	UptraceDSN              string
	UptraceLogsEnabled      bool
	BetterStackEnabled      bool
	BetterStackEndpoint     string
	BetterStackToken        string
	BetterStackTimeout      time.Duration
	BetterStackMinLevel     logging.Level
	PyroscopeEnabled        bool
	PyroscopeServerAddress  string
	PyroscopeAppName        string
	PyroscopeAuthToken      string
	PyroscopeBasicAuthUser  string
	PyroscopeBasicAuthPass  string
	PyroscopeUploadRate     time.Duration
	Import                  ImportConfig
	LogLevel                logging.Level
}

// ImportConfig tunes the bulk import pipeline.
type ImportConfig struct {
	DefaultBatchSize   int
	MaxBatchSize       int
	MaxBodyBytes       int64
	PrefetchWorkers    int
	ColumnAliasesFile  string
	EmailCreditCost    int
	PhoneCreditCost    int
	LinkedInCreditCost int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	betterStackEnabled, err := strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackEndpoint := strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if betterStackEnabled && betterStackEndpoint == "" {
		return Config{}, fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	betterStackTimeout, err := time.ParseDuration(getEnv("BETTERSTACK_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	importCfg, err := loadImportConfig()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                 appEnv,
		ServiceName:            getEnv("APP_SERVICE_NAME", "sports-crm-import"),
		ServiceVersion:         getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:               getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                  strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:           pprofEnabled,
		PprofAddr:              pprofAddr,
		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             uptraceDSN,
		UptraceLogsEnabled:     uptraceLogsEnabled,
		BetterStackEnabled:     betterStackEnabled,
		BetterStackEndpoint:    betterStackEndpoint,
		BetterStackToken:       strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:     betterStackTimeout,
		BetterStackMinLevel:    parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "warn")),
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPass: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
		Import:                 importCfg,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	// binary_parameters lets lib/pq run behind transaction-mode poolers without named statements.
	dbBinaryParameters, err := strconv.ParseBool(getEnv("DB_BINARY_PARAMETERS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_BINARY_PARAMETERS: %w", err)
	}
	cfg.DBBinaryParameters = dbBinaryParameters

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	// Batches of a few hundred rows with per-row round trips need more than the usual write budget.
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	cfg.SwaggerEnabled = swaggerEnabled
	cfg.ImportAPIToken = strings.TrimSpace(getEnv("IMPORT_API_TOKEN", ""))
	if cfg.AppEnv == EnvProd && cfg.ImportAPIToken == "" {
		return Config{}, fmt.Errorf("IMPORT_API_TOKEN is required when APP_ENV=%s", EnvProd)
	}

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

func loadImportConfig() (ImportConfig, error) {
	defaultBatchSize, err := getEnvAsInt("IMPORT_DEFAULT_BATCH_SIZE", 50)
	if err != nil {
		return ImportConfig{}, fmt.Errorf("parse IMPORT_DEFAULT_BATCH_SIZE: %w", err)
	}
	if defaultBatchSize < 1 {
		return ImportConfig{}, fmt.Errorf("IMPORT_DEFAULT_BATCH_SIZE must be >= 1")
	}

	maxBatchSize, err := getEnvAsInt("IMPORT_MAX_BATCH_SIZE", 500)
	if err != nil {
		return ImportConfig{}, fmt.Errorf("parse IMPORT_MAX_BATCH_SIZE: %w", err)
	}
	if maxBatchSize < defaultBatchSize {
		return ImportConfig{}, fmt.Errorf("IMPORT_MAX_BATCH_SIZE must be >= IMPORT_DEFAULT_BATCH_SIZE")
	}

	maxBodyBytes, err := getEnvAsInt("IMPORT_MAX_BODY_BYTES", 20<<20)
	if err != nil {
		return ImportConfig{}, fmt.Errorf("parse IMPORT_MAX_BODY_BYTES: %w", err)
	}
	if maxBodyBytes <= 0 {
		return ImportConfig{}, fmt.Errorf("IMPORT_MAX_BODY_BYTES must be > 0")
	}

	prefetchWorkers, err := getEnvAsInt("IMPORT_PREFETCH_WORKERS", 4)
	if err != nil {
		return ImportConfig{}, fmt.Errorf("parse IMPORT_PREFETCH_WORKERS: %w", err)
	}
	if prefetchWorkers < 1 {
		return ImportConfig{}, fmt.Errorf("IMPORT_PREFETCH_WORKERS must be >= 1")
	}

	costs := map[string]int{
		"CONTACT_EMAIL_CREDIT_COST":    1,
		"CONTACT_PHONE_CREDIT_COST":    2,
		"CONTACT_LINKEDIN_CREDIT_COST": 1,
	}
	for key, fallback := range costs {
		value, err := getEnvAsInt(key, fallback)
		if err != nil {
			return ImportConfig{}, fmt.Errorf("parse %s: %w", key, err)
		}
		if value < 0 {
			return ImportConfig{}, fmt.Errorf("%s must be >= 0", key)
		}
		costs[key] = value
	}

	return ImportConfig{
		DefaultBatchSize:   defaultBatchSize,
		MaxBatchSize:       maxBatchSize,
		MaxBodyBytes:       int64(maxBodyBytes),
		PrefetchWorkers:    prefetchWorkers,
		ColumnAliasesFile:  strings.TrimSpace(getEnv("IMPORT_COLUMN_ALIASES_FILE", "")),
		EmailCreditCost:    costs["CONTACT_EMAIL_CREDIT_COST"],
		PhoneCreditCost:    costs["CONTACT_PHONE_CREDIT_COST"],
		LinkedInCreditCost: costs["CONTACT_LINKEDIN_CREDIT_COST"],
	}, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
