package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Sheets   SheetsConfig
	Kafka    KafkaConfig
	Ledger   LedgerConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
}

// StorageConfig selects where the ledger table lives
type StorageConfig struct {
	Driver   string        // memory, postgres, sheets
	CacheTTL time.Duration // zero disables the read cache
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
	ConnMaxLifetime time.Duration
}

// DSN renders a lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// SheetsConfig points at the spreadsheet holding the ledger
type SheetsConfig struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string
}

// KafkaConfig holds event publishing settings; no brokers disables publishing
type KafkaConfig struct {
	Brokers     []string
	Topic       string
	Compression string // none, gzip, snappy, lz4, zstd
}

// LedgerConfig holds business settings
type LedgerConfig struct {
	IDStrategy      string // uuid, timestamp
	FixedMonthlyFee decimal.Decimal
}

var validDrivers = map[string]bool{"memory": true, "postgres": true, "sheets": true}

var validCompressions = map[string]bool{"none": true, "gzip": true, "snappy": true, "lz4": true, "zstd": true}

// Load loads configuration from the environment and an optional config file
// Priority (highest to lowest):
// 1. Environment variables with LEDGER_ prefix (e.g., LEDGER_STORAGE_DRIVER)
// 2. .env file in the working directory
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	// A missing .env is fine; existing environment variables win.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fee := decimal.NewFromInt(3000)
	if s := v.GetString("ledger.fixed_monthly_fee"); s != "" {
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid ledger.fixed_monthly_fee %q: %w", s, err)
		}
		fee = parsed
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			CORSAllowOrigins: splitList(v.GetStringSlice("http.cors_allow_origins")),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(v.GetString("storage.driver")),
			CacheTTL: v.GetDuration("storage.cache_ttl"),
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
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   v.GetString("sheets.spreadsheet_id"),
			Range:           v.GetString("sheets.range"),
			CredentialsFile: v.GetString("sheets.credentials_file"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(v.GetStringSlice("kafka.brokers")),
			Topic:       v.GetString("kafka.topic"),
			Compression: strings.ToLower(v.GetString("kafka.compression")),
		},
		Ledger: LedgerConfig{
			IDStrategy:      v.GetString("ledger.id_strategy"),
			FixedMonthlyFee: fee,
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
		cfg.App.Name = "commission-ledger"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
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
		cfg.Database.DBName = "commissions"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Sheets.Range == "" {
		cfg.Sheets.Range = "A:I"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "commission_sales"
	}
	if cfg.Kafka.Compression == "" {
		cfg.Kafka.Compression = "none"
	}
	if cfg.Ledger.IDStrategy == "" {
		cfg.Ledger.IDStrategy = "uuid"
	}
}

func (c *Config) validate() error {
	if !validDrivers[c.Storage.Driver] {
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "sheets" && c.Sheets.SpreadsheetID == "" {
		return errors.New("sheets.spreadsheet_id is required for the sheets driver")
	}
	if c.Storage.CacheTTL < 0 {
		return errors.New("storage.cache_ttl must not be negative")
	}
	if !validCompressions[c.Kafka.Compression] {
		return fmt.Errorf("unsupported kafka compression %q", c.Kafka.Compression)
	}
	if c.Ledger.IDStrategy != "uuid" && c.Ledger.IDStrategy != "timestamp" {
		return fmt.Errorf("unsupported ledger id strategy %q", c.Ledger.IDStrategy)
	}
	if c.Ledger.FixedMonthlyFee.IsNegative() {
		return errors.New("ledger.fixed_monthly_fee must not be negative")
	}
	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// splitList accepts both TOML arrays and comma separated env values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
