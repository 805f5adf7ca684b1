package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Obis     ObisConfig
	Telegram TelegramConfig
	Crypto   CryptoConfig
	Monitor  MonitorConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// ObisConfig holds the university portal client settings
type ObisConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// TelegramConfig holds the Telegram bot settings
type TelegramConfig struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// CryptoConfig holds the credential encryption settings
type CryptoConfig struct {
	Secret string
}

// MonitorConfig holds the monitoring cycle settings
type MonitorConfig struct {
	AttendanceInterval time.Duration
	GradeInterval      time.Duration
	SendDelay          time.Duration
	RunOnStart         bool
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with YOKLAMA_ prefix (e.g., YOKLAMA_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("YOKLAMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
		},
		Obis: ObisConfig{
			BaseURL:   v.GetString("obis.base_url"),
			UserAgent: v.GetString("obis.user_agent"),
			Timeout:   v.GetDuration("obis.timeout"),
		},
		Telegram: TelegramConfig{
			Token:   v.GetString("telegram.token"),
			BaseURL: v.GetString("telegram.base_url"),
			Timeout: v.GetDuration("telegram.timeout"),
		},
		Crypto: CryptoConfig{
			Secret: v.GetString("crypto.secret"),
		},
		Monitor: MonitorConfig{
			AttendanceInterval: v.GetDuration("monitor.attendance_interval"),
			GradeInterval:      v.GetDuration("monitor.grade_interval"),
			SendDelay:          v.GetDuration("monitor.send_delay"),
			RunOnStart:         v.GetBool("monitor.run_on_start"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "yoklama-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "yoklama"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Obis.BaseURL == "" {
		cfg.Obis.BaseURL = "https://obistest.manas.edu.kg"
	}
	if cfg.Obis.UserAgent == "" {
		cfg.Obis.UserAgent = "Yoklama parser"
	}
	if cfg.Obis.Timeout == 0 {
		cfg.Obis.Timeout = 30 * time.Second
	}
	if cfg.Telegram.BaseURL == "" {
		cfg.Telegram.BaseURL = "https://api.telegram.org"
	}
	if cfg.Telegram.Timeout == 0 {
		cfg.Telegram.Timeout = 30 * time.Second
	}
	if cfg.Monitor.AttendanceInterval == 0 {
		cfg.Monitor.AttendanceInterval = 5 * time.Minute
	}
	if cfg.Monitor.GradeInterval == 0 {
		cfg.Monitor.GradeInterval = 30 * time.Minute
	}
	if cfg.Monitor.SendDelay == 0 {
		cfg.Monitor.SendDelay = 500 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Monitor.AttendanceInterval <= 0 {
		return fmt.Errorf("monitor.attendance_interval must be positive")
	}
	if c.Monitor.GradeInterval <= 0 {
		return fmt.Errorf("monitor.grade_interval must be positive")
	}
	if c.Monitor.SendDelay < 0 {
		return fmt.Errorf("monitor.send_delay cannot be negative")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Telegram.Token == "" {
			return fmt.Errorf("telegram.token is required in production")
		}
		if c.Crypto.Secret == "" {
			return fmt.Errorf("crypto.secret is required in production")
		}
		if len(c.Crypto.Secret) < 32 {
			return fmt.Errorf("crypto.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
