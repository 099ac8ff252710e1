package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      string
	APIPrefix string
	Timezone  string

	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Features  FeatureConfig
}

type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectRetries  int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig is only required by the worker and consumer binaries.
type KafkaConfig struct {
	Broker        string
	ConsumerGroup string
	PollInterval  time.Duration
}

type JWTConfig struct {
	Secret string
}

type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig selects between the bounded in-memory limiter and the
// redis fixed-window limiter. Store is "memory" or "redis".
type RateLimitConfig struct {
	Enabled        bool
	Store          string
	RequestsPerSec float64
	Burst          int
	MaxClients     int
	Window         time.Duration
	WindowLimit    int
}

// FeatureConfig is the process-wide feature flag set. It is read once at
// start-up and never mutated afterwards.
type FeatureConfig struct {
	Reports                bool
	AttendanceSelfService  bool
	StrictLeaveTransitions bool
	RejectOverlappingLeave bool
	AutoMarkOnLeave        bool
	LeaveEvents            bool
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:       v.GetString("ENV"),
		Port:      v.GetString("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
		Timezone:  v.GetString("APP_TIMEZONE"),
	}

	cfg.Server = ServerConfig{
		ReadTimeout:     v.GetDuration("HTTP_READ_TIMEOUT"),
		WriteTimeout:    v.GetDuration("HTTP_WRITE_TIMEOUT"),
		IdleTimeout:     v.GetDuration("HTTP_IDLE_TIMEOUT"),
		ShutdownTimeout: v.GetDuration("HTTP_SHUTDOWN_TIMEOUT"),
	}

	cfg.Database = DatabaseConfig{
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetString("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSLMODE"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		ConnectRetries:  v.GetInt("DB_CONNECT_RETRIES"),
	}

	cfg.Redis = RedisConfig{
		Addr:     v.GetString("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Kafka = KafkaConfig{
		Broker:        v.GetString("KAFKA_BROKER"),
		ConsumerGroup: v.GetString("KAFKA_CONSUMER_GROUP"),
		PollInterval:  v.GetDuration("OUTBOX_POLL_INTERVAL"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:        v.GetBool("RATE_LIMIT_ENABLED"),
		Store:          strings.ToLower(v.GetString("RATE_LIMIT_STORE")),
		RequestsPerSec: v.GetFloat64("RATE_LIMIT_RPS"),
		Burst:          v.GetInt("RATE_LIMIT_BURST"),
		MaxClients:     v.GetInt("RATE_LIMIT_MAX_CLIENTS"),
		Window:         v.GetDuration("RATE_LIMIT_WINDOW"),
		WindowLimit:    v.GetInt("RATE_LIMIT_WINDOW_LIMIT"),
	}

	cfg.Features = FeatureConfig{
		Reports:                v.GetBool("FEATURE_REPORTS"),
		AttendanceSelfService:  v.GetBool("FEATURE_ATTENDANCE_SELF_SERVICE"),
		StrictLeaveTransitions: v.GetBool("FEATURE_STRICT_LEAVE_TRANSITIONS"),
		RejectOverlappingLeave: v.GetBool("FEATURE_REJECT_OVERLAPPING_LEAVE"),
		AutoMarkOnLeave:        v.GetBool("FEATURE_AUTO_MARK_ON_LEAVE"),
		LeaveEvents:            v.GetBool("FEATURE_LEAVE_EVENTS"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.RateLimit.Store {
	case "memory", "redis":
	default:
		return errors.New("RATE_LIMIT_STORE must be memory or redis")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return err
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", "3000")
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("APP_TIMEZONE", "UTC")

	v.SetDefault("HTTP_READ_TIMEOUT", "5s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "10s")
	v.SetDefault("HTTP_IDLE_TIMEOUT", "60s")
	v.SetDefault("HTTP_SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timesheet")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DB_CONNECT_RETRIES", 5)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "go-timesheet-attendance")
	v.SetDefault("OUTBOX_POLL_INTERVAL", "3s")

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_STORE", "memory")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_MAX_CLIENTS", 10000)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("RATE_LIMIT_WINDOW_LIMIT", 300)

	v.SetDefault("FEATURE_REPORTS", true)
	v.SetDefault("FEATURE_ATTENDANCE_SELF_SERVICE", false)
	v.SetDefault("FEATURE_STRICT_LEAVE_TRANSITIONS", false)
	v.SetDefault("FEATURE_REJECT_OVERLAPPING_LEAVE", false)
	v.SetDefault("FEATURE_AUTO_MARK_ON_LEAVE", false)
	v.SetDefault("FEATURE_LEAVE_EVENTS", true)
}

func isMissingFile(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
