package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Documents  DocumentsConfig  `mapstructure:"documents"`
	Reports    ReportsConfig    `mapstructure:"reports"`
	Commission CommissionConfig `mapstructure:"commission"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// DocumentsConfig holds PDF generation configuration
type DocumentsConfig struct {
	OutputDir      string `mapstructure:"output_dir"`
	CompanyName    string `mapstructure:"company_name"`
	CompanyPhone   string `mapstructure:"company_phone"`
	CompanyAddress string `mapstructure:"company_address"`
}

// ReportsConfig holds commission report configuration
type ReportsConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// CommissionConfig holds payout configuration
type CommissionConfig struct {
	DefaultRatePercent float64 `mapstructure:"default_rate_percent"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/roofcrm.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Document defaults
	viper.SetDefault("documents.output_dir", "generated_documents")

	// Report defaults
	viper.SetDefault("reports.output_dir", "generated_reports")

	// Commission defaults
	viper.SetDefault("commission.default_rate_percent", 10.0)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("documents.company_name", "COMPANY_NAME")
	viper.BindEnv("documents.company_phone", "COMPANY_PHONE")
	viper.BindEnv("documents.company_address", "COMPANY_ADDRESS")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Documents.CompanyName == "" {
		return fmt.Errorf("documents.company_name is required")
	}
	if c.Commission.DefaultRatePercent < 0 || c.Commission.DefaultRatePercent > 100 {
		return fmt.Errorf("commission.default_rate_percent must be between 0 and 100")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number")
	}
	return nil
}
