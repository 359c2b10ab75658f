package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Connectors ConnectorsConfig `mapstructure:"connectors"`
	Mirror     MirrorConfig     `mapstructure:"mirror"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type WebhookConfig struct {
	// Secret is the Svix signing secret ("whsec_..."). Verification is
	// refused entirely when it is empty.
	Secret string `mapstructure:"secret"`
	// Tolerance bounds how far a message timestamp may drift from the
	// server clock. Zero disables the check.
	Tolerance    time.Duration `mapstructure:"tolerance"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

type ConnectorsConfig struct {
	// Enabled lists the connectors to mount. Each enabled connector gets
	// its own ingestion route.
	Enabled []string `mapstructure:"enabled"`

	Postgres   PostgresConfig   `mapstructure:"postgres"`
	MySQL      MySQLConfig      `mapstructure:"mysql"`
	SQLite     SQLiteConfig     `mapstructure:"sqlite"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Warehouse  WarehouseConfig  `mapstructure:"warehouse"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type OpenSearchConfig struct {
	URL           string `mapstructure:"url"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
}

type RedisConfig struct {
	URL       string `mapstructure:"url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type WarehouseConfig struct {
	URL    string `mapstructure:"url"`
	Schema string `mapstructure:"schema"`
}

type MirrorConfig struct {
	// Backend selects the mirror publisher: "nats", "kafka", or "" to
	// disable mirroring.
	Backend string      `mapstructure:"backend"`
	NATS    NATSConfig  `mapstructure:"nats"`
	Kafka   KafkaConfig `mapstructure:"kafka"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8096)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("webhook.tolerance", "0s")
	v.SetDefault("webhook.max_body_bytes", 1048576)
	v.SetDefault("connectors.enabled", []string{"sqlite"})
	v.SetDefault("connectors.sqlite.path", "resend-sink.db")
	v.SetDefault("connectors.opensearch.url", "https://localhost:9200")
	v.SetDefault("connectors.opensearch.username", "admin")
	v.SetDefault("connectors.opensearch.tls_skip_verify", true)
	v.SetDefault("connectors.redis.url", "redis://localhost:6379/0")
	v.SetDefault("connectors.redis.key_prefix", "resend")
	v.SetDefault("connectors.warehouse.schema", "analytics")
	v.SetDefault("mirror.backend", "")
	v.SetDefault("mirror.nats.url", "nats://localhost:4222")
	v.SetDefault("mirror.nats.subject", "resend.events")
	v.SetDefault("mirror.kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("mirror.kafka.topic", "resend-events")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/resend-sink")
	}

	// Environment variables override
	v.SetEnvPrefix("SINK")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
