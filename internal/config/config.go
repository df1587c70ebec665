package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// ───── Infrastructure ─────
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	MigrateOnStart    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaConsumerGroup string

	// ───── Runtime ─────
	HTTPAddr         string
	ObsHTTPAddr      string
	ServiceName      string
	HTTPWriteTimeout time.Duration
	RequestTimeout   time.Duration

	// ───── Security ─────
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration
	BcryptCost  int

	AuthRateLimitPerMin int

	// ───── Caching ─────
	CacheTTL    time.Duration
	TrendingTTL time.Duration

	// ───── Background work ─────
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	StorySweepSchedule string

	// ───── Observability ─────
	TracingEnabled bool
	JaegerURL      string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}

	cfg := Config{
		// Infra
		DatabaseURL:       mustEnv("DATABASE_URL"),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		MigrateOnStart:    getEnvBool("MIGRATE_ON_START", true),

		RedisAddr:     mustEnv("REDIS_ADDR"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		KafkaBrokers:       getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopicPrefix:   getEnv("KAFKA_TOPIC_PREFIX", "inapp"),
		KafkaConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", ""),

		// Runtime
		HTTPAddr:    fixPort(getEnv("HTTP_PORT", "8080")),
		ObsHTTPAddr: fixPort(getEnv("METRICS_PORT", "9090")),
		ServiceName: getEnv("SERVICE_NAME", "in-app"),

		HTTPWriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 8*time.Second),

		// Security
		JWTSecret:   mustEnv("JWT_SECRET"),
		JWTIssuer:   getEnv("JWT_ISSUER", "in-app"),
		JWTAudience: getEnv("JWT_AUDIENCE", "in-app-clients"),
		JWTTTL:      getEnvDuration("JWT_TTL", 7*24*time.Hour),
		BcryptCost:  getEnvInt("BCRYPT_COST", 10),

		AuthRateLimitPerMin: getEnvInt("AUTH_RATE_LIMIT_PER_MIN", 20),

		// Caching
		CacheTTL:    getEnvDuration("CACHE_TTL", time.Hour),
		TrendingTTL: getEnvDuration("TRENDING_TTL", 30*time.Second),

		// Background work
		OutboxPollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    getEnvInt("OUTBOX_BATCH_SIZE", 50),
		StorySweepSchedule: getEnv("STORY_SWEEP_SCHEDULE", "@every 10m"),

		// Observability
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerURL:      getEnv("JAEGER_URL", "http://jaeger:14268/api/traces"),
	}

	// Handlers must give up before the server stops accepting their writes.
	if cfg.RequestTimeout >= cfg.HTTPWriteTimeout {
		log.Printf("config: REQUEST_TIMEOUT %s must be below HTTP_WRITE_TIMEOUT %s, clamping", cfg.RequestTimeout, cfg.HTTPWriteTimeout)
		cfg.RequestTimeout = cfg.HTTPWriteTimeout * 4 / 5
	}
	return cfg
}

func fixPort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env: %s", k)
	}
	return v
}

func getEnv(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}

func getEnvInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int env %s: %v", k, err)
	}
	return i
}

func getEnvBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return strings.ToLower(v) == "true"
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}

	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration env %s: %v", k, err)
	}
	return dur
}

func getEnvSlice(k string, d []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
