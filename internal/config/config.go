package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/auction-draft/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	LogFormat          logging.Format
	CORSAllowedOrigins []string

	StoreDriver             string
	DataDir                 string
	ExportDir               string
	DBURL                   string
	DBDisablePreparedBinary bool

	LeagueFile string
	League     LeagueFile

	BBRefBaseURL               string
	BBRefSeason                int
	BBRefFallbackSeason        int
	BBRefTimeout               time.Duration
	BBRefMaxRetries            int
	BBRefCacheTTL              time.Duration
	BBRefCircuitEnabled        bool
	BBRefCircuitFailureCount   int
	BBRefCircuitOpenTimeout    time.Duration
	BBRefCircuitHalfOpenMaxReq int

	RefreshWorkers int
	RefreshTimeout time.Duration

	NATSURL           string
	NATSSubjectPrefix string

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "auction-draft-api"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		LogLevel:           parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFormat:          logging.ParseFormat(getEnv("LOG_FORMAT", string(logging.FormatJSON))),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		LeagueFile:         strings.TrimSpace(getEnv("LEAGUE_FILE", "")),
		BBRefBaseURL:       strings.TrimSpace(getEnv("BBREF_BASE_URL", "https://www.basketball-reference.com")),
		NATSURL:            strings.TrimSpace(getEnv("NATS_URL", "")),
		NATSSubjectPrefix:  strings.TrimSpace(getEnv("NATS_SUBJECT_PREFIX", "draft.events")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeAppName:   getEnv("PYROSCOPE_APP_NAME", "auction-draft-api"),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),

		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
	}

	if cfg.ReadTimeout, err = parsePositiveDuration("READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = parsePositiveDuration("WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreFile)))
	switch cfg.StoreDriver {
	case StoreFile, StoreMemory:
	case StorePostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s, %s", cfg.StoreDriver, StoreFile, StorePostgres, StoreMemory)
	}
	cfg.DataDir = strings.TrimSpace(getEnv("DATA_DIR", "data"))
	cfg.ExportDir = strings.TrimSpace(getEnv("EXPORT_DIR", filepath.Join(cfg.DataDir, "exports")))

	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")); err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	if cfg.LeagueFile != "" {
		if cfg.League, err = LoadLeagueFile(cfg.LeagueFile); err != nil {
			return Config{}, err
		}
	}

	if cfg.BBRefSeason, err = getEnvAsInt("BBREF_SEASON", 2025); err != nil {
		return Config{}, fmt.Errorf("parse BBREF_SEASON: %w", err)
	}
	if cfg.BBRefSeason <= 0 {
		return Config{}, fmt.Errorf("BBREF_SEASON must be > 0")
	}
	if cfg.BBRefFallbackSeason, err = getEnvAsInt("BBREF_FALLBACK_SEASON", cfg.BBRefSeason-1); err != nil {
		return Config{}, fmt.Errorf("parse BBREF_FALLBACK_SEASON: %w", err)
	}
	if cfg.BBRefTimeout, err = parsePositiveDuration("BBREF_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.BBRefMaxRetries, err = getEnvAsInt("BBREF_MAX_RETRIES", 2); err != nil {
		return Config{}, fmt.Errorf("parse BBREF_MAX_RETRIES: %w", err)
	}
	if cfg.BBRefMaxRetries < 0 {
		return Config{}, fmt.Errorf("BBREF_MAX_RETRIES must be >= 0")
	}
	if cfg.BBRefCacheTTL, err = parsePositiveDuration("BBREF_CACHE_TTL", "30m"); err != nil {
		return Config{}, err
	}
	if cfg.BBRefCircuitEnabled, err = strconv.ParseBool(getEnv("BBREF_CIRCUIT_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse BBREF_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.BBRefCircuitFailureCount, err = getEnvAsInt("BBREF_CIRCUIT_FAILURE_COUNT", 3); err != nil {
		return Config{}, fmt.Errorf("parse BBREF_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.BBRefCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("BBREF_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.BBRefCircuitOpenTimeout, err = parsePositiveDuration("BBREF_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.BBRefCircuitHalfOpenMaxReq, err = getEnvAsInt("BBREF_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse BBREF_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.BBRefCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("BBREF_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	if cfg.RefreshWorkers, err = getEnvAsInt("REFRESH_WORKERS", 1); err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_WORKERS: %w", err)
	}
	if cfg.RefreshWorkers < 1 {
		return Config{}, fmt.Errorf("REFRESH_WORKERS must be >= 1")
	}
	if cfg.RefreshTimeout, err = parsePositiveDuration("REFRESH_TIMEOUT", "5m"); err != nil {
		return Config{}, err
	}

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return cfg, nil
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

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return d, nil
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

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
