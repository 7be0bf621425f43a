// Package config loads service configuration from defaults, an optional file and MSME_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"msme-risk/logger"
)

type Config struct {
	ServiceName string          `mapstructure:"service_name"`
	Environment string          `mapstructure:"environment"`
	HTTP        HTTPConfig      `mapstructure:"http"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Kafka       KafkaConfig     `mapstructure:"kafka"`
	AI          AIConfig        `mapstructure:"ai"`
	Logger      logger.Config   `mapstructure:"logger"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
}

type HTTPConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"` // seconds
	IdleTimeout     int    `mapstructure:"idle_timeout"`  // seconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb"`
}

type RateLimitConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Capacity int  `mapstructure:"capacity"`
	Refill   int  `mapstructure:"refill"` // seconds
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds, 0 keeps keys forever
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// AIConfig points at an OpenAI-compatible chat-completions endpoint.
// Explanations use the rule-based narrative while APIKey is empty.
type AIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APIURL    string `mapstructure:"api_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	Timeout   int    `mapstructure:"timeout"` // seconds
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("MSME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ai.api_key", "MSME_AI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, errors.New("service_name is required"))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port))
	}
	if c.HTTP.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("http.max_upload_mb must be positive, got %d", c.HTTP.MaxUploadMB))
	}
	if c.RateLimit.Enabled && (c.RateLimit.Capacity <= 0 || c.RateLimit.Refill <= 0) {
		errs = append(errs, errors.New("rate_limit.capacity and rate_limit.refill must be positive"))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		errs = append(errs, errors.New("kafka.brokers and kafka.topic are required when kafka is enabled"))
	}
	if c.AI.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("ai.timeout must be positive, got %d", c.AI.Timeout))
	}
	return errors.Join(errs...)
}

func (c HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c HTTPConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (c HTTPConfig) ReadTimeoutDuration() time.Duration {
	return seconds(c.ReadTimeout)
}

func (c HTTPConfig) WriteTimeoutDuration() time.Duration {
	return seconds(c.WriteTimeout)
}

func (c HTTPConfig) IdleTimeoutDuration() time.Duration {
	return seconds(c.IdleTimeout)
}

func (c HTTPConfig) ShutdownTimeoutDuration() time.Duration {
	return seconds(c.ShutdownTimeout)
}

func (c RateLimitConfig) RefillDuration() time.Duration {
	return seconds(c.Refill)
}

func (c RedisConfig) TTLDuration() time.Duration {
	return seconds(c.TTL)
}

func (c AIConfig) TimeoutDuration() time.Duration {
	return seconds(c.Timeout)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "msme-risk")
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15)
	v.SetDefault("http.write_timeout", 15)
	v.SetDefault("http.idle_timeout", 60)
	v.SetDefault("http.shutdown_timeout", 10)
	v.SetDefault("http.max_upload_mb", 32)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.capacity", 5)
	v.SetDefault("rate_limit.refill", 60)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 3600)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "msme.risk.events")

	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.api_url", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 300)
	v.SetDefault("ai.timeout", 30)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/msme-risk.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
