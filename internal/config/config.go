// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"bolao-pool/internal/lottery"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Lottery    LotteryConfig    `mapstructure:"lottery"`
	Commission CommissionConfig `mapstructure:"commission"`
	Purchase   PurchaseConfig   `mapstructure:"purchase"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	AdminToken string `mapstructure:"admin_token"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// LotteryConfig holds the number-pool shape and ticket pricing.
type LotteryConfig struct {
	TicketLength int   `mapstructure:"ticket_length"`
	DrawLength   int   `mapstructure:"draw_length"`
	MinValue     int   `mapstructure:"min_value"`
	MaxValue     int   `mapstructure:"max_value"`
	MaxRepeats   int   `mapstructure:"max_repeats"`
	TicketPrice  int64 `mapstructure:"ticket_price"`
	PublicTopN   int   `mapstructure:"public_top_n"`
}

// CommissionConfig holds the percentages applied at cycle close.
type CommissionConfig struct {
	SellerPercent           int `mapstructure:"seller_percent"`
	OwnerPercent            int `mapstructure:"owner_percent"`
	ClientSalesOwnerPercent int `mapstructure:"client_sales_owner_percent"`
}

// PurchaseConfig holds the ledger transaction retry policy.
type PurchaseConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	LockTimeout  time.Duration `mapstructure:"lock_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Rules converts the lottery section into the engine's rule set.
func (l *LotteryConfig) Rules() lottery.Rules {
	return lottery.Rules{
		TicketLength: l.TicketLength,
		DrawLength:   l.DrawLength,
		MinValue:     l.MinValue,
		MaxValue:     l.MaxValue,
		MaxRepeats:   l.MaxRepeats,
	}
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. SERVER_PORT, DATABASE_HOST, LOTTERY_TICKET_PRICE.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "bolao")
	v.SetDefault("database.name", "bolao")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("lottery.ticket_length", 10)
	v.SetDefault("lottery.draw_length", 5)
	v.SetDefault("lottery.min_value", 1)
	v.SetDefault("lottery.max_value", 25)
	v.SetDefault("lottery.max_repeats", 4)
	v.SetDefault("lottery.ticket_price", 2)
	v.SetDefault("lottery.public_top_n", 5)

	v.SetDefault("commission.seller_percent", 10)
	v.SetDefault("commission.owner_percent", 5)
	v.SetDefault("commission.client_sales_owner_percent", 10)

	v.SetDefault("purchase.max_attempts", 3)
	v.SetDefault("purchase.retry_backoff", "25ms")
	v.SetDefault("purchase.lock_timeout", "5s")
}
