package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Embedding EmbeddingConfig
	Vision    VisionConfig
	Scoring   ScoringConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type EmbeddingConfig struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
	Retries  int
	Backoff  time.Duration
	Cooldown time.Duration
	CacheTTL time.Duration

	CircuitFailureThreshold int
	CircuitReset            time.Duration
}

type VisionConfig struct {
	ClipEndpoint  string
	FetchTimeout  time.Duration
	MaxImageBytes int64
	Workers       int
	FetchRPS      int
	ChromeEnabled bool
}

type ScoringConfig struct {
	ProfilePath      string
	CustomScorerURL  string
	CustomScorerTime time.Duration
}

const (
	EmbeddingNone   = "none"
	EmbeddingOllama = "ollama"
	EmbeddingGemini = "gemini"
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads .env when present; real environment variables win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing, invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Log = LogConfig{
		JSON:  optBool("LOG_JSON", cfg.App.Environment == "production"),
		Debug: optBool("LOG_DEBUG", false),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", "localhost"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     opt("DB_NAME", ""),
		DBUser:     opt("DB_USER", ""),
		DBPassword: opt("DB_PASSWORD", ""),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),

		AutoMigrate: optBool("DB_AUTO_MIGRATE", true),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD", ""),
		DB:       optInt("REDIS_DB", 0),
		TTL:      optDuration("REDIS_TTL", 10*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret:   req("JWT_SECRET"),
		Issuer:   opt("JWT_ISSUER", ""),
		Audience: opt("JWT_AUDIENCE", "authenticated"),
	}

	cfg.Embedding = EmbeddingConfig{
		Provider: strings.ToLower(opt("EMBEDDING_PROVIDER", EmbeddingNone)),
		BaseURL:  opt("EMBEDDING_BASE_URL", "http://localhost:11434"),
		Model:    opt("EMBEDDING_MODEL", "all-minilm"),
		APIKey:   opt("EMBEDDING_API_KEY", ""),
		Timeout:  optDuration("EMBEDDING_TIMEOUT", 15*time.Second),
		Retries:  optInt("EMBEDDING_RETRIES", 2),
		Backoff:  optDuration("EMBEDDING_BACKOFF", 200*time.Millisecond),
		Cooldown: optDuration("EMBEDDING_INIT_COOLDOWN", 30*time.Second),
		CacheTTL: optDuration("EMBEDDING_CACHE_TTL", 24*time.Hour),

		CircuitFailureThreshold: optInt("EMBEDDING_CIRCUIT_THRESHOLD", 5),
		CircuitReset:            optDuration("EMBEDDING_CIRCUIT_RESET", 30*time.Second),
	}
	switch cfg.Embedding.Provider {
	case EmbeddingNone, EmbeddingOllama:
	case EmbeddingGemini:
		if cfg.Embedding.APIKey == "" {
			missing = append(missing, "EMBEDDING_API_KEY")
		}
	default:
		invalid = append(invalid, "EMBEDDING_PROVIDER")
	}

	cfg.Vision = VisionConfig{
		ClipEndpoint:  opt("CLIP_ENDPOINT", ""),
		FetchTimeout:  optDuration("IMAGE_FETCH_TIMEOUT", 10*time.Second),
		MaxImageBytes: int64(optInt("IMAGE_MAX_BYTES", 10<<20)),
		Workers:       optInt("IMAGE_FETCH_WORKERS", 4),
		FetchRPS:      optInt("IMAGE_FETCH_RPS", 0),
		ChromeEnabled: optBool("FIGMA_CHROME_ENABLED", false),
	}

	cfg.Scoring = ScoringConfig{
		ProfilePath:      opt("SCORING_PROFILE_PATH", ""),
		CustomScorerURL:  opt("CUSTOM_SCORER_URL", ""),
		CustomScorerTime: optDuration("CUSTOM_SCORER_TIMEOUT", 5*time.Second),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
