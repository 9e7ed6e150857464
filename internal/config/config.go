package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Bulk-create transaction policies. With PolicyPartial the successful subset
// of a batch commits even when other entries fail; with PolicyAtomic any
// failed entry rolls back the whole batch.
const (
	PolicyPartial = "partial"
	PolicyAtomic  = "atomic"
)

type Config struct {
	App    AppConfig
	Server ServerConfig
	DB     PostgresConfig
	Kafka  KafkaConfig
	Redis  RedisConfig
	Jobs   JobsConfig
	Sinks  SinkConfig
	Bulk   BulkConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Host string
	Port int
}

type PostgresConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConns      int
	MigrationsDir string
}

type KafkaConfig struct {
	Brokers         []string
	OrderEventTopic string
	ConsumerGroup   string
}

// RedisConfig points at the store used for report run status.
// An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JobsConfig struct {
	ReportInterval    time.Duration
	HeartbeatInterval time.Duration
	ReminderInterval  time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	APIBaseURL        string
}

// SinkConfig holds the append-only log destinations the periodic jobs write to.
type SinkConfig struct {
	ReportLog       string
	SummaryLog      string
	HeartbeatLog    string
	ReminderLog     string
	NotificationLog string
}

type BulkConfig struct {
	Policy string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "crm_backend"),
			Env:  getEnv("APP_ENV", "local"),
		},
		Server: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnvAsInt("HTTP_PORT", 8040),
		},
		DB: PostgresConfig{
			Host:          getEnv("POSTGRES_HOST", "localhost"),
			Port:          getEnvAsInt("POSTGRES_PORT", 5432),
			User:          getEnv("POSTGRES_USER", "postgres"),
			Password:      getEnv("POSTGRES_PASSWORD", ""),
			DBName:        getEnv("POSTGRES_DB", "crm"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MaxConns:      getEnvAsInt("DB_MAX_CONNS", 10),
			MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "migrations"),
		},
		Kafka: KafkaConfig{
			Brokers:         splitAndTrim(getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")),
			OrderEventTopic: getEnv("KAFKA_ORDER_EVENT_TOPIC", "crm_order_created"),
			ConsumerGroup:   getEnv("KAFKA_CONSUMER_GROUP", "crm-backend"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Jobs: JobsConfig{
			ReportInterval:    getEnvAsDuration("JOB_REPORT_INTERVAL", 5*time.Minute),
			HeartbeatInterval: getEnvAsDuration("JOB_HEARTBEAT_INTERVAL", 5*time.Minute),
			ReminderInterval:  getEnvAsDuration("JOB_REMINDER_INTERVAL", 12*time.Hour),
			MaxRetries:        getEnvAsInt("JOB_MAX_RETRIES", 3),
			RetryDelay:        getEnvAsDuration("JOB_RETRY_DELAY", time.Minute),
			APIBaseURL:        getEnv("JOB_API_BASE_URL", "http://localhost:8040"),
		},
		Sinks: SinkConfig{
			ReportLog:       getEnv("SINK_REPORT_LOG", "/tmp/crm_report_log.txt"),
			SummaryLog:      getEnv("SINK_SUMMARY_LOG", "/tmp/crm_report_concise_log.txt"),
			HeartbeatLog:    getEnv("SINK_HEARTBEAT_LOG", "/tmp/crm_heartbeat_log.txt"),
			ReminderLog:     getEnv("SINK_REMINDER_LOG", "/tmp/order_reminders_log.txt"),
			NotificationLog: getEnv("SINK_NOTIFICATION_LOG", "/tmp/order_notifications_log.txt"),
		},
		Bulk: BulkConfig{
			Policy: getEnv("BULK_CREATE_POLICY", PolicyPartial),
		},
	}

	return cfg, cfg.validate()
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

/* ================= helpers ================= */

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("HTTP_PORT is invalid")
	}
	if c.DB.Host == "" || c.DB.User == "" || c.DB.DBName == "" {
		return fmt.Errorf("database config is incomplete")
	}
	if c.Bulk.Policy != PolicyPartial && c.Bulk.Policy != PolicyAtomic {
		return fmt.Errorf("BULK_CREATE_POLICY must be %q or %q", PolicyPartial, PolicyAtomic)
	}
	if c.Jobs.MaxRetries < 0 {
		return fmt.Errorf("JOB_MAX_RETRIES is invalid")
	}
	// Kafka and Redis are optional; jobs and API run without them.
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if val := strings.TrimSpace(p); val != "" {
			out = append(out, val)
		}
	}
	return out
}
