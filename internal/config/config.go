// Package config загрузка конфигурации сервиса из config.toml
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Booking    BookingConfig    `toml:"booking"`
	Reminders  RemindersConfig  `toml:"reminders"`
	NotifyGate NotifyGateConfig `toml:"notifygate"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	LockTimeout     string `toml:"lock_timeout"`      // например "3s"
}

// DSN строка подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig параметры движка бронирования
type BookingConfig struct {
	MaxPosts    int    `toml:"max_posts"`    // количество постов (боксов)
	Timezone    string `toml:"timezone"`     // например "Europe/Moscow"
	HorizonDays int    `toml:"horizon_days"` // горизонт подбора доступных дней
}

// Location возвращает *time.Location для настроенного часового пояса
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Timezone)
}

// RemindersConfig параметры свипа напоминаний
type RemindersConfig struct {
	Enabled          bool `toml:"enabled"`
	IntervalMinutes  int  `toml:"interval_minutes"`
	ToleranceMinutes int  `toml:"tolerance_minutes"`
}

// NotifyGateConfig настройки шлюза доставки сообщений
type NotifyGateConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Booking.MaxPosts <= 0 {
		return fmt.Errorf("config: booking.max_posts must be positive")
	}
	if c.Reminders.IntervalMinutes < 0 || c.Reminders.ToleranceMinutes < 0 {
		return fmt.Errorf("config: reminder interval and tolerance must be non-negative")
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("config: invalid booking.timezone: %w", err)
	}
	return nil
}
