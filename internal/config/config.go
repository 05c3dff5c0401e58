package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fightsync/fightsync/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	HTTPAddr     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	DBURL                   string
	DBDisablePreparedBinary bool

	ExtractorURL                   string
	ExtractorTimeout               time.Duration
	ExtractorMaxRetries            int
	ExtractorCircuitEnabled        bool
	ExtractorCircuitFailureCount   int
	ExtractorCircuitOpenTimeout    time.Duration
	ExtractorCircuitHalfOpenMaxReq int

	SiteBaseURL string
	ListingPath string

	DaysOffset         int
	EventWorkers       int
	MaxListingPages    int
	FighterWorkers     int
	FighterRecencyDays int

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY: %w", err)
	}

	extractorURL := strings.TrimSpace(getEnv("EXTRACTOR_URL", ""))
	if extractorURL == "" {
		return Config{}, fmt.Errorf("EXTRACTOR_URL is required")
	}

	extractorTimeout, err := time.ParseDuration(getEnv("EXTRACTOR_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EXTRACTOR_TIMEOUT: %w", err)
	}
	if extractorTimeout <= 0 {
		return Config{}, fmt.Errorf("EXTRACTOR_TIMEOUT must be > 0")
	}

	extractorMaxRetries, err := getEnvAsInt("EXTRACTOR_MAX_RETRIES", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse EXTRACTOR_MAX_RETRIES: %w", err)
	}
	if extractorMaxRetries < 0 {
		return Config{}, fmt.Errorf("EXTRACTOR_MAX_RETRIES must be >= 0")
	}

	extractorCircuitEnabled, err := strconv.ParseBool(getEnv("EXTRACTOR_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EXTRACTOR_CIRCUIT_ENABLED: %w", err)
	}

	extractorCircuitFailureCount, err := getEnvAsInt("EXTRACTOR_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse EXTRACTOR_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if extractorCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("EXTRACTOR_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	extractorCircuitOpenTimeout, err := time.ParseDuration(getEnv("EXTRACTOR_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EXTRACTOR_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if extractorCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("EXTRACTOR_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	extractorCircuitHalfOpenMaxReq, err := getEnvAsInt("EXTRACTOR_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse EXTRACTOR_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if extractorCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("EXTRACTOR_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	daysOffset, err := getEnvAsInt("DAYS_OFFSET", 7)
	if err != nil {
		return Config{}, fmt.Errorf("parse DAYS_OFFSET: %w", err)
	}
	if daysOffset < 1 {
		return Config{}, fmt.Errorf("DAYS_OFFSET must be >= 1")
	}

	eventWorkers, err := getEnvAsInt("EVENT_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse EVENT_WORKERS: %w", err)
	}
	if eventWorkers < 1 {
		return Config{}, fmt.Errorf("EVENT_WORKERS must be >= 1")
	}

	maxListingPages, err := getEnvAsInt("MAX_LISTING_PAGES", 30)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_LISTING_PAGES: %w", err)
	}
	if maxListingPages < 1 {
		return Config{}, fmt.Errorf("MAX_LISTING_PAGES must be >= 1")
	}

	fighterWorkers, err := getEnvAsInt("FIGHTER_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse FIGHTER_WORKERS: %w", err)
	}
	if fighterWorkers < 1 {
		return Config{}, fmt.Errorf("FIGHTER_WORKERS must be >= 1")
	}

	fighterRecencyDays, err := getEnvAsInt("FIGHTER_RECENCY_DAYS", 45)
	if err != nil {
		return Config{}, fmt.Errorf("parse FIGHTER_RECENCY_DAYS: %w", err)
	}
	if fighterRecencyDays < 1 {
		return Config{}, fmt.Errorf("FIGHTER_RECENCY_DAYS must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
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

	serviceName := getEnv("SERVICE_NAME", "fightsync")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,

		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,

		ExtractorURL:                   extractorURL,
		ExtractorTimeout:               extractorTimeout,
		ExtractorMaxRetries:            extractorMaxRetries,
		ExtractorCircuitEnabled:        extractorCircuitEnabled,
		ExtractorCircuitFailureCount:   extractorCircuitFailureCount,
		ExtractorCircuitOpenTimeout:    extractorCircuitOpenTimeout,
		ExtractorCircuitHalfOpenMaxReq: extractorCircuitHalfOpenMaxReq,

		SiteBaseURL: getEnv("SITE_BASE_URL", "https://www.tapology.com"),
		ListingPath: getEnv("LISTING_PATH", "/fightcenter"),

		DaysOffset:         daysOffset,
		EventWorkers:       eventWorkers,
		MaxListingPages:    maxListingPages,
		FighterWorkers:     fighterWorkers,
		FighterRecencyDays: fighterRecencyDays,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", ":6060"),

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}
