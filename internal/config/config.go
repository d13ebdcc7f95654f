package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig возвращается, когда файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LockerDriverLocal = "local"
	LockerDriverRedis = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Storage       StorageConfig       `toml:"storage"`
	Database      DatabaseConfig      `toml:"database"`
	Locker        LockerConfig        `toml:"locker"`
	Scheduling    SchedulingConfig    `toml:"scheduling"`
	Notifications NotificationsConfig `toml:"notifications"`
	Worker        WorkerConfig        `toml:"worker"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
	Env   string `toml:"env"` // production | development
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type StorageConfig struct {
	Driver string `toml:"driver"` // postgres | memory
}

type DatabaseConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	User              string `toml:"user"`
	Password          string `toml:"password"`
	DBName            string `toml:"dbname"`
	SSLMode           string `toml:"sslmode"`
	MaxOpenConns      int    `toml:"max_open_conns"`
	MaxIdleConns      int    `toml:"max_idle_conns"`
	ConnMaxLifetime   int    `toml:"conn_max_lifetime"` // секунды
	MigrationsOnStart bool   `toml:"migrations_on_start"`
}

// DSN строка подключения lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LockerConfig struct {
	Driver         string `toml:"driver"` // local | redis
	RedisURL       string `toml:"redis_url"`
	TTL            int    `toml:"ttl_ms"`
	AcquireTimeout int    `toml:"acquire_timeout_ms"`
	RetryInterval  int    `toml:"retry_interval_ms"`
}

// SchedulingConfig ограничения и значения по умолчанию для слотов
type SchedulingConfig struct {
	DefaultTimezone        string `toml:"default_timezone"`
	DefaultSlotDuration    int    `toml:"default_slot_duration"`
	DefaultBreakDuration   int    `toml:"default_break_duration"`
	MinSlotDuration        int    `toml:"min_slot_duration"`
	MaxSlotDuration        int    `toml:"max_slot_duration"`
	MinBreakDuration       int    `toml:"min_break_duration"`
	MaxBreakDuration       int    `toml:"max_break_duration"`
	MaxAppointmentsPerSlot int    `toml:"max_appointments_per_slot"`
	MaxRecurrenceDays      int    `toml:"max_recurrence_days"`
	AllowHardDelete        bool   `toml:"allow_hard_delete"`
}

type NotificationsConfig struct {
	Enabled    bool   `toml:"enabled"`
	WebhookURL string `toml:"webhook_url"`
	Timeout    int    `toml:"timeout"` // секунды
	QueueSize  int    `toml:"queue_size"`
}

type WorkerConfig struct {
	ExpiryEnabled  bool `toml:"expiry_enabled"`
	ExpiryInterval int  `toml:"expiry_interval"` // секунды
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{
			Level: "info",
			Env:   "development",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "availability-service",
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "availability",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Locker: LockerConfig{
			Driver:         LockerDriverLocal,
			TTL:            5000,
			AcquireTimeout: 3000,
			RetryInterval:  50,
		},
		Scheduling: SchedulingConfig{
			DefaultTimezone:        "UTC",
			DefaultSlotDuration:    30,
			DefaultBreakDuration:   15,
			MinSlotDuration:        15,
			MaxSlotDuration:        60,
			MinBreakDuration:       5,
			MaxBreakDuration:       30,
			MaxAppointmentsPerSlot: 10,
			MaxRecurrenceDays:      90,
			AllowHardDelete:        true,
		},
		Notifications: NotificationsConfig{
			Timeout:   5,
			QueueSize: 100,
		},
		Worker: WorkerConfig{
			ExpiryEnabled:  true,
			ExpiryInterval: 300,
		},
	}
}

// Load читает конфигурацию: значения по умолчанию, затем TOML файл,
// затем .env и переменные окружения. Пустой path - только окружение.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
		}
	}

	// .env не обязателен
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Locker.RedisURL = v
		c.Locker.Driver = LockerDriverRedis
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logs.Level = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("storage.driver %q is not supported", c.Storage.Driver))
	}

	switch c.Locker.Driver {
	case LockerDriverLocal:
	case LockerDriverRedis:
		if c.Locker.RedisURL == "" {
			problems = append(problems, "locker.redis_url is required for redis locker")
		}
	default:
		problems = append(problems, fmt.Sprintf("locker.driver %q is not supported", c.Locker.Driver))
	}

	s := c.Scheduling
	if s.MinSlotDuration <= 0 || s.MinSlotDuration > s.MaxSlotDuration {
		problems = append(problems, "scheduling slot duration bounds are inconsistent")
	}
	if s.MinBreakDuration < 0 || s.MinBreakDuration > s.MaxBreakDuration {
		problems = append(problems, "scheduling break duration bounds are inconsistent")
	}
	if s.MaxAppointmentsPerSlot <= 0 {
		problems = append(problems, "scheduling.max_appointments_per_slot must be positive")
	}
	if s.MaxRecurrenceDays <= 0 {
		problems = append(problems, "scheduling.max_recurrence_days must be positive")
	}

	if c.Worker.ExpiryEnabled && c.Worker.ExpiryInterval <= 0 {
		problems = append(problems, "worker.expiry_interval must be positive")
	}

	if c.Notifications.Enabled && c.Notifications.WebhookURL == "" {
		problems = append(problems, "notifications.webhook_url is required when notifications are enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
