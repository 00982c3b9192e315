package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	pstrings "domainnav/pkg/platform/strings"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr         string        `yaml:"addr"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
	DatabaseURL  string        `yaml:"database_url"`
	ListCacheTTL time.Duration `yaml:"list_cache_ttl"`
	// Perspectives seeds the view's perspective list after "Default".
	Perspectives []string    `yaml:"perspectives"`
	Redis        RedisConfig `yaml:"redis"`
	Kafka        KafkaConfig `yaml:"kafka"`
}

// RedisConfig configures the shared Redis client. An empty URL disables the
// list cache and cross-instance change notifications.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// KafkaConfig configures the outbound domain event sink. No brokers means
// events stay in-process.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// DefaultPerspectives are the lenses offered next to "Default" out of the box.
var DefaultPerspectives = []string{"Efficiency", "Reliability", "Ease of Use"}

// Default returns a Config usable for local development with in-memory storage.
func Default() Config {
	return Config{
		Addr:         ":8080",
		LogLevel:     "info",
		LogFormat:    "text",
		ListCacheTTL: 30 * time.Second,
		Perspectives: append([]string(nil), DefaultPerspectives...),
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{Topic: "domainnav.domain-events"},
	}
}

// Load layers configuration: defaults, then the optional YAML file, then
// environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Perspectives = pstrings.DedupeAndTrim(cfg.Perspectives)
	return cfg, cfg.Validate()
}

// FromEnv builds a Config from defaults and environment variables only.
func FromEnv() (Config, error) {
	return Load("")
}

// Validate checks values that would otherwise fail late at runtime.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.ListCacheTTL < 0 {
		return fmt.Errorf("list_cache_ttl cannot be negative")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when brokers are set")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DOMAINNAV_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DOMAINNAV_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DOMAINNAV_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("DOMAINNAV_LIST_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse DOMAINNAV_LIST_CACHE_TTL: %w", err)
		}
		cfg.ListCacheTTL = ttl
	}
	if v := os.Getenv("DOMAINNAV_PERSPECTIVES"); v != "" {
		cfg.Perspectives = pstrings.SplitList(v)
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("REDIS_POOL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse REDIS_POOL_SIZE: %w", err)
		}
		cfg.Redis.PoolSize = n
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = pstrings.SplitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	return nil
}
