package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	LogLevel                   logging.Level
	CORSAllowedOrigins         []string
	SwaggerEnabled             bool
	MetricsEnabled             bool
	PprofEnabled               bool
	PprofAddr                  string
	StorageDriver              string
	DBURL                      string
	DBDisablePreparedBinary    bool
	RedisAddr                  string
	RedisPassword              string
	RedisDB                    int
	RedisKeyPrefix             string
	CacheEnabled               bool
	CacheTTL                   time.Duration
	ValidationWorkers          int
	FPLSource                  string
	FPLBaseURL                 string
	FPLTimeout                 time.Duration
	FPLMaxRetries              int
	FPLCacheTTL                time.Duration
	FPLStaleTTL                time.Duration
	FPLRateLimitRPS            float64
	FPLCircuit                 resilience.CircuitBreakerConfig
	FPLWarmupEnabled           bool
	FPLWarmupSchedule          string
	LLMProvider                string
	LLMModel                   string
	LLMMaxTokens               int
	LLMTemperature             float64
	LLMTimeout                 time.Duration
	LLMMaxRetries              int
	LLMCircuit                 resilience.CircuitBreakerConfig
	OpenAIAPIKey               string
	OpenAIBaseURL              string
	AnthropicAPIKey            string
	AnthropicBaseURL           string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

const (
	FPLSourceLive   = "live"
	FPLSourceMemory = "memory"
)

const (
	LLMProviderOpenAI    = "openai"
	LLMProviderAnthropic = "anthropic"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	if readTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_READ_TIMEOUT must be > 0")
	}

	// LLM calls can take most of a minute, so the write timeout has to cover them.
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "90s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	if writeTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_WRITE_TIMEOUT must be > 0")
	}

	storageDriver, err := parseStorageDriver(getEnv("STORAGE_DRIVER", StorageMemory))
	if err != nil {
		return Config{}, err
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageDriver == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	redisAddr := strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379"))
	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if redisDB < 0 {
		return Config{}, fmt.Errorf("REDIS_DB must be >= 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	validationWorkers, err := getEnvAsInt("VALIDATION_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse VALIDATION_WORKERS: %w", err)
	}
	if validationWorkers < 1 {
		return Config{}, fmt.Errorf("VALIDATION_WORKERS must be >= 1")
	}

	fplSource, err := parseFPLSource(getEnv("FPL_SOURCE", FPLSourceLive))
	if err != nil {
		return Config{}, err
	}

	fplTimeout, err := time.ParseDuration(getEnv("FPL_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_TIMEOUT: %w", err)
	}
	if fplTimeout <= 0 {
		return Config{}, fmt.Errorf("FPL_TIMEOUT must be > 0")
	}

	fplMaxRetries, err := getEnvAsInt("FPL_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_MAX_RETRIES: %w", err)
	}
	if fplMaxRetries < 0 {
		return Config{}, fmt.Errorf("FPL_MAX_RETRIES must be >= 0")
	}

	fplCacheTTL, err := time.ParseDuration(getEnv("FPL_CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_CACHE_TTL: %w", err)
	}
	if fplCacheTTL <= 0 {
		return Config{}, fmt.Errorf("FPL_CACHE_TTL must be > 0")
	}

	fplStaleTTL, err := time.ParseDuration(getEnv("FPL_STALE_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_STALE_TTL: %w", err)
	}
	if fplStaleTTL < 0 {
		return Config{}, fmt.Errorf("FPL_STALE_TTL must be >= 0")
	}

	fplRateLimitRPS, err := strconv.ParseFloat(getEnv("FPL_RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_RATE_LIMIT_RPS: %w", err)
	}
	if fplRateLimitRPS < 0 {
		return Config{}, fmt.Errorf("FPL_RATE_LIMIT_RPS must be >= 0")
	}

	fplCircuit, err := loadCircuitBreaker("FPL")
	if err != nil {
		return Config{}, err
	}

	fplWarmupEnabled, err := strconv.ParseBool(getEnv("FPL_WARMUP_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FPL_WARMUP_ENABLED: %w", err)
	}

	llmProvider, err := parseLLMProvider(getEnv("LLM_PROVIDER", LLMProviderOpenAI))
	if err != nil {
		return Config{}, err
	}

	llmMaxTokens, err := getEnvAsInt("LLM_MAX_TOKENS", 2000)
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_MAX_TOKENS: %w", err)
	}
	if llmMaxTokens <= 0 {
		return Config{}, fmt.Errorf("LLM_MAX_TOKENS must be > 0")
	}

	llmTemperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.7"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_TEMPERATURE: %w", err)
	}
	if llmTemperature < 0 || llmTemperature > 2 {
		return Config{}, fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}

	llmTimeout, err := time.ParseDuration(getEnv("LLM_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_TIMEOUT: %w", err)
	}
	if llmTimeout <= 0 {
		return Config{}, fmt.Errorf("LLM_TIMEOUT must be > 0")
	}

	llmMaxRetries, err := getEnvAsInt("LLM_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse LLM_MAX_RETRIES: %w", err)
	}
	if llmMaxRetries < 0 {
		return Config{}, fmt.Errorf("LLM_MAX_RETRIES must be >= 0")
	}

	llmCircuit, err := loadCircuitBreaker("LLM")
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

	serviceName := getEnv("APP_SERVICE_NAME", "fpl-team-builder-api")

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                serviceName,
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:             swaggerEnabled,
		MetricsEnabled:             metricsEnabled,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  getEnv("PPROF_ADDR", ":6060"),
		StorageDriver:              storageDriver,
		DBURL:                      dbURL,
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		RedisAddr:                  redisAddr,
		RedisPassword:              getEnv("REDIS_PASSWORD", ""),
		RedisDB:                    redisDB,
		RedisKeyPrefix:             getEnv("REDIS_KEY_PREFIX", "fpl:"),
		CacheEnabled:               cacheEnabled,
		CacheTTL:                   cacheTTL,
		ValidationWorkers:          validationWorkers,
		FPLSource:                  fplSource,
		FPLBaseURL:                 getEnv("FPL_BASE_URL", "https://fantasy.premierleague.com/api"),
		FPLTimeout:                 fplTimeout,
		FPLMaxRetries:              fplMaxRetries,
		FPLCacheTTL:                fplCacheTTL,
		FPLStaleTTL:                fplStaleTTL,
		FPLRateLimitRPS:            fplRateLimitRPS,
		FPLCircuit:                 fplCircuit,
		FPLWarmupEnabled:           fplWarmupEnabled,
		FPLWarmupSchedule:          getEnv("FPL_WARMUP_SCHEDULE", "@every 5m"),
		LLMProvider:                llmProvider,
		LLMModel:                   strings.TrimSpace(getEnv("LLM_MODEL", "")),
		LLMMaxTokens:               llmMaxTokens,
		LLMTemperature:             llmTemperature,
		LLMTimeout:                 llmTimeout,
		LLMMaxRetries:              llmMaxRetries,
		LLMCircuit:                 llmCircuit,
		OpenAIAPIKey:               strings.TrimSpace(getEnv("OPENAI_API_KEY", "")),
		OpenAIBaseURL:              getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		AnthropicAPIKey:            strings.TrimSpace(getEnv("ANTHROPIC_API_KEY", "")),
		AnthropicBaseURL:           getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1"),
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}

	return cfg, nil
}

// LLMAPIKey returns the credential of the configured provider.
func (c Config) LLMAPIKey() string {
	if c.LLMProvider == LLMProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

func (c Config) LLMBaseURL() string {
	if c.LLMProvider == LLMProviderAnthropic {
		return c.AnthropicBaseURL
	}
	return c.OpenAIBaseURL
}

func loadCircuitBreaker(prefix string) (resilience.CircuitBreakerConfig, error) {
	key := func(name string) string { return prefix + "_CIRCUIT_" + name }

	enabled, err := strconv.ParseBool(getEnv(key("ENABLED"), "true"))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key("ENABLED"), err)
	}

	failureCount, err := getEnvAsInt(key("FAILURE_COUNT"), 5)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key("FAILURE_COUNT"), err)
	}
	if failureCount < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s must be >= 1", key("FAILURE_COUNT"))
	}

	openTimeout, err := time.ParseDuration(getEnv(key("OPEN_TIMEOUT"), "30s"))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key("OPEN_TIMEOUT"), err)
	}
	if openTimeout <= 0 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s must be > 0", key("OPEN_TIMEOUT"))
	}

	halfOpenMaxReq, err := getEnvAsInt(key("HALF_OPEN_MAX_REQ"), 1)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key("HALF_OPEN_MAX_REQ"), err)
	}
	if halfOpenMaxReq < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s must be >= 1", key("HALF_OPEN_MAX_REQ"))
	}

	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
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

func parseStorageDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StorageMemory, StoragePostgres, StorageRedis:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s, %s", v, StorageMemory, StoragePostgres, StorageRedis)
	}
}

func parseFPLSource(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case FPLSourceLive, FPLSourceMemory:
		return value, nil
	default:
		return "", fmt.Errorf("invalid FPL_SOURCE %q: valid values are %s, %s", v, FPLSourceLive, FPLSourceMemory)
	}
}

func parseLLMProvider(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case LLMProviderOpenAI, LLMProviderAnthropic:
		return value, nil
	default:
		return "", fmt.Errorf("invalid LLM_PROVIDER %q: valid values are %s, %s", v, LLMProviderOpenAI, LLMProviderAnthropic)
	}
}
