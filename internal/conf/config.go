package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds the application configuration.
type AppConfig struct {
	Mode               string `mapstructure:"mode"`
	Port               int    `mapstructure:"port"`
	Name               string `mapstructure:"name"`
	Version            string `mapstructure:"version"`
	TimeZone           string `mapstructure:"time_zone"`
	*LogConfig         `mapstructure:"log"`
	*MongodbConfig     `mapstructure:"mongodb"`
	*WorkerConfig      `mapstructure:"worker"`
	*RabbitMQConfig    `mapstructure:"rabbitmq"`
	*JwtConfig         `mapstructure:"jwt"`
	*RedisConfig       `mapstructure:"redis"`
	*RateLimiterConfig `mapstructure:"rate_limiter"`
}

// JwtConfig holds the JWT configuration.
type JwtConfig struct {
	Algorithm      string `mapstructure:"algorithm"`
	Secret         string `mapstructure:"secret"`
	PrivateKeyFile string `mapstructure:"private_key_file"`
	PublicKeyFile  string `mapstructure:"public_key_file"`
}

// MongodbConfig holds the MongoDB configuration.
type MongodbConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

// LogConfig holds the logger configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// WorkerConfig holds all background worker configurations.
type WorkerConfig struct {
	Outbox         OutboxWorkerConfig   `mapstructure:"outbox"`
	BalanceAuditor BalanceAuditorConfig `mapstructure:"balance_auditor"`
}

// BalanceAuditorConfig holds the configuration for the balance drift
// detection worker.
type BalanceAuditorConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	BatchSize       int `mapstructure:"batch_size"`
}

// OutboxWorkerConfig holds the configuration for the outbox polling worker.
type OutboxWorkerConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
	BatchSize       int `mapstructure:"batch_size"`
}

// RabbitMQConfig holds the RabbitMQ configuration. The order topics are the
// queues the consumer binds; the ledger event topic is where outbox messages
// are published.
type RabbitMQConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	OrderCreatedTopic      string `mapstructure:"order_created_topic"`
	OrderItemsChangedTopic string `mapstructure:"order_items_changed_topic"`
	OrderDeletedTopic      string `mapstructure:"order_deleted_topic"`
	LedgerEventTopic       string `mapstructure:"ledger_event_topic"`
}

// RedisConfig holds the Redis client configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimiterPolicy defines the limit and interval for a policy.
type RateLimiterPolicy struct {
	Interval string `mapstructure:"interval"` // e.g., "1s", "1m", "1h"
	Limit    int    `mapstructure:"limit"`
}

// RateLimiterConfig holds all rate limiting policies.
type RateLimiterConfig struct {
	Default  RateLimiterPolicy            `mapstructure:"default"`
	Policies map[string]RateLimiterPolicy `mapstructure:"policies"`
}

// NewConfig loads the application configuration from a file. A .env file is
// loaded first when present so local overrides win through AutomaticEnv.
func NewConfig(confFile string) (*AppConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(confFile)

	// `mongodb.host` becomes MONGODB_HOST in the environment.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	loc, err := time.LoadLocation(conf.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	time.Local = loc

	return &conf, nil
}
