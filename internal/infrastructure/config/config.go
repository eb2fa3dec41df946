package config

import (
	"strings"
	"time"

	"wallet-profiler/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	NATS     NATSConfig     `mapstructure:"nats"`
}

// AppConfig represents application-specific configuration
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	HTTPPort           int           `mapstructure:"http_port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
}

// AnalysisConfig carries the tunable thresholds of the scoring pipeline.
// Whale thresholds are chain-specific because unit economics differ.
type AnalysisConfig struct {
	WhaleThresholdEth     float64 `mapstructure:"whale_threshold_eth"`
	WhaleThresholdSol     float64 `mapstructure:"whale_threshold_sol"`
	DustThresholdLamports uint64  `mapstructure:"dust_threshold_lamports"`
}

// WhaleThreshold returns the native-unit balance above which a wallet counts
// as a whale on the given chain.
func (c *AnalysisConfig) WhaleThreshold(chain entity.Chain) decimal.Decimal {
	if chain == entity.ChainSolana {
		return decimal.NewFromFloat(c.WhaleThresholdSol)
	}
	return decimal.NewFromFloat(c.WhaleThresholdEth)
}

// NATSConfig represents NATS configuration
type NATSConfig struct {
	URL                string        `mapstructure:"url"`
	StreamName         string        `mapstructure:"stream_name"`
	AnalyzeSubject     string        `mapstructure:"analyze_subject"`
	ReportSubject      string        `mapstructure:"report_subject"`
	ConsumerGroup      string        `mapstructure:"consumer_group"`
	ConnectTimeout     time.Duration `mapstructure:"connect_timeout"`
	ReconnectAttempts  int           `mapstructure:"reconnect_attempts"`
	ReconnectDelay     time.Duration `mapstructure:"reconnect_delay"`
	MaxPendingRequests int           `mapstructure:"max_pending_requests"`
	WorkerPoolSize     int           `mapstructure:"worker_pool_size"`
	Enabled            bool          `mapstructure:"enabled"`
}

// Load loads configuration from environment variables and files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/wallet-profiler")

	// Environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Default values
	setDefaults()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.log_level", "info")

	// Server defaults
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.cors_allowed_origins", []string{"*"})

	// Analysis defaults
	viper.SetDefault("analysis.whale_threshold_eth", 100.0)
	viper.SetDefault("analysis.whale_threshold_sol", 1000.0)
	// 0.001 SOL; native transfers below this are spam/airdrop noise
	viper.SetDefault("analysis.dust_threshold_lamports", 1000000)

	// NATS defaults
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.stream_name", "WALLET_ANALYSIS")
	viper.SetDefault("nats.analyze_subject", "wallets.analyze")
	viper.SetDefault("nats.report_subject", "wallets.reports")
	viper.SetDefault("nats.consumer_group", "wallet-profiler")
	viper.SetDefault("nats.connect_timeout", "10s")
	viper.SetDefault("nats.reconnect_attempts", 5)
	viper.SetDefault("nats.reconnect_delay", "2s")
	viper.SetDefault("nats.max_pending_requests", 1024)
	viper.SetDefault("nats.worker_pool_size", 4)
	viper.SetDefault("nats.enabled", false)

	// Bind env for NATS URL
	viper.BindEnv("nats.url", "NATS_URL")
}
