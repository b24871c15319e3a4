package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Booking        BookingConfig        `toml:"booking"`
	Reminder       ReminderConfig       `toml:"reminder"`
	StaffService   IntegrationConfig    `toml:"staff_service"`
	PatientService IntegrationConfig    `toml:"patient_service"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // seconds
	WriteTimeout    int `toml:"write_timeout"`    // seconds
	IdleTimeout     int `toml:"idle_timeout"`     // seconds
	ShutdownTimeout int `toml:"shutdown_timeout"` // seconds
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN собирает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// BookingConfig параметры политики планирования (domain.BookingPolicy)
type BookingConfig struct {
	// Окно по умолчанию для дней без явного расписания врача.
	// Пустые значения = без окна по умолчанию.
	DefaultOpenTime  string `toml:"default_open_time"`  // "09:00"
	DefaultCloseTime string `toml:"default_close_time"` // "17:00"

	SlotGranularityMinutes int `toml:"slot_granularity_minutes"`
	MaxAdvanceDays         int `toml:"max_advance_days"` // 0 = unlimited
}

type ReminderConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
}

type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

// Load читает и валидирует конфигурацию из TOML-файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Booking.SlotGranularityMinutes == 0 {
		cfg.Booking.SlotGranularityMinutes = domain.DefaultSlotGranularityMinutes
	}
	if cfg.Reminder.IntervalSeconds == 0 {
		cfg.Reminder.IntervalSeconds = 300
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if cfg.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if (cfg.Booking.DefaultOpenTime == "") != (cfg.Booking.DefaultCloseTime == "") {
		return fmt.Errorf("config: booking.default_open_time and booking.default_close_time must be set together")
	}
	if cfg.Booking.DefaultOpenTime != "" {
		if _, err := types.NewTimeStringFromString(cfg.Booking.DefaultOpenTime); err != nil {
			return fmt.Errorf("config: booking.default_open_time: %w", err)
		}
		if _, err := types.NewTimeStringFromString(cfg.Booking.DefaultCloseTime); err != nil {
			return fmt.Errorf("config: booking.default_close_time: %w", err)
		}
		if cfg.Booking.DefaultOpenTime >= cfg.Booking.DefaultCloseTime {
			return fmt.Errorf("config: booking default window must have open < close")
		}
	}
	if cfg.Booking.MaxAdvanceDays < 0 {
		return fmt.Errorf("config: booking.max_advance_days must not be negative")
	}
	if cfg.Booking.SlotGranularityMinutes < 1 {
		return fmt.Errorf("config: booking.slot_granularity_minutes must be positive")
	}
	return nil
}

// Policy собирает domain.BookingPolicy из конфигурации
func (c *Config) Policy() domain.BookingPolicy {
	policy := domain.BookingPolicy{
		SlotGranularityMinutes: c.Booking.SlotGranularityMinutes,
		MaxAdvanceDays:         c.Booking.MaxAdvanceDays,
	}
	if c.Booking.DefaultOpenTime != "" {
		policy.DefaultWindow = &domain.WorkingWindow{
			OpenTime:  types.TimeString(c.Booking.DefaultOpenTime),
			CloseTime: types.TimeString(c.Booking.DefaultCloseTime),
		}
	}
	return policy
}
