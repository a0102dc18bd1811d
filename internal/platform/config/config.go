package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	Environment   string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	// AdminToken guards operator endpoints such as token issuance. Empty
	// disables them.
	AdminToken string
	// Admin is the genesis admin used when no GenesisFile is given.
	Admin string
	// GenesisFile names the YAML file that seeds the reference registry,
	// coordinator and built-in modules at startup.
	GenesisFile string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Tracing     TracingConfig
	Audit       AuditConfig
}

// HTTPConfig bounds how long a client may hold a connection and how long
// in-flight requests get on shutdown.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers       string
	ClientID      string
	AuditTopic    string
	RelayInterval time.Duration
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	SampleRatio float64
}

type AuditConfig struct {
	BufferSize int
}

// IsProduction reports whether the process runs with production defaults
// (JSON logs, no dev signing key).
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; real
// environment variables win over it.
func FromEnv() Server {
	_ = godotenv.Load()

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          getEnv("ASSETGOV_ADDR", ":8080"),
		Environment:   getEnv("ASSETGOV_ENV", "development"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     getEnv("JWT_ISSUER", "assetgov"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "assetgov-api"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
		Admin:         os.Getenv("ASSETGOV_ADMIN"),
		GenesisFile:   os.Getenv("GENESIS_FILE"),
		HTTP: HTTPConfig{
			ReadHeaderTimeout: getDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       getDuration("HTTP_IDLE_TIMEOUT", time.Minute),
			ShutdownTimeout:   getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:       os.Getenv("KAFKA_BROKERS"),
			ClientID:      getEnv("KAFKA_CLIENT_ID", "assetgov"),
			AuditTopic:    getEnv("KAFKA_AUDIT_TOPIC", "assetgov.audit"),
			RelayInterval: getDuration("KAFKA_RELAY_INTERVAL", time.Second),
		},
		Tracing: TracingConfig{
			Enabled:     os.Getenv("OTEL_ENABLED") == "true",
			ServiceName: getEnv("OTEL_SERVICE_NAME", "assetgov"),
			SampleRatio: getFloat("OTEL_SAMPLE_RATIO", 1.0),
		},
		Audit: AuditConfig{
			BufferSize: getInt("AUDIT_BUFFER_SIZE", 0),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
