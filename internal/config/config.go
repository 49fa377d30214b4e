package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Sequence     SequenceConfig
	Reminder     ReminderConfig
	Worker       WorkerConfig
	River        RiverConfig
	Stats        StatsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN selects the in-memory store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// Enabled reports whether a Postgres DSN was configured.
func (p PostgresConfig) Enabled() bool {
	return p.DSN != ""
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines bearer token parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	Issuer                string
}

// NotificationConfig controls where transition messages and reminders go.
type NotificationConfig struct {
	QueueKey         string
	ReminderQueueKey string
}

// SequenceConfig shapes ticket numbers such as SOL-2026-00042.
type SequenceConfig struct {
	Prefix  string
	Padding int
}

// ReminderConfig controls the periodic reminder job.
type ReminderConfig struct {
	Enabled  bool
	Interval time.Duration
	Horizon  time.Duration
}

// WorkerConfig sizes the goroutine pool used for fan-out.
type WorkerConfig struct {
	PoolSize int
}

// RiverConfig sizes the job queue.
type RiverConfig struct {
	MaxWorkers int
}

// StatsConfig controls the statistics cache.
type StatsConfig struct {
	CacheTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "solicitud-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			Issuer:                getEnv("AUTH_ISSUER", "solicitud-service"),
		},
		Notification: NotificationConfig{
			QueueKey:         getEnv("NOTIFY_QUEUE_KEY", "solicitudes:notifications"),
			ReminderQueueKey: getEnv("NOTIFY_REMINDER_QUEUE_KEY", "solicitudes:reminders"),
		},
		Sequence: SequenceConfig{
			Prefix:  getEnv("TICKET_SEQUENCE_PREFIX", "SOL"),
			Padding: getEnvAsInt("TICKET_SEQUENCE_PADDING", 5),
		},
		Reminder: ReminderConfig{
			Enabled:  getEnvAsBool("REMINDER_ENABLED", true),
			Interval: getEnvAsDuration("REMINDER_INTERVAL", time.Hour),
			Horizon:  getEnvAsDuration("REMINDER_HORIZON", 24*time.Hour),
		},
		Worker: WorkerConfig{
			PoolSize: getEnvAsInt("WORKER_POOL_SIZE", 8),
		},
		River: RiverConfig{
			MaxWorkers: getEnvAsInt("RIVER_MAX_WORKERS", 4),
		},
		Stats: StatsConfig{
			CacheTTL: getEnvAsDuration("STATS_CACHE_TTL", time.Minute),
		},
	}

	if cfg.Sequence.Padding < 1 {
		return nil, fmt.Errorf("invalid TICKET_SEQUENCE_PADDING: %d", cfg.Sequence.Padding)
	}
	if cfg.Reminder.Horizon <= 0 {
		return nil, fmt.Errorf("invalid REMINDER_HORIZON: %s", cfg.Reminder.Horizon)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsDuration accepts Go duration strings ("90m") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(val); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(val); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
