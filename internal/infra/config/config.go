package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	JWT       JWTSettings       `mapstructure:"jwt"`
	Mail      MailSettings      `mapstructure:"mail"`
	S3        S3Settings        `mapstructure:"s3"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Origin is the public web application URL embedded in emailed links and
	// allowed for CORS.
	Origin string `mapstructure:"origin"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// RedisSettings configures the Redis connection used for endpoint throttling.
type RedisSettings struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	DB         int    `mapstructure:"db"`
	Password   string `mapstructure:"password"`
	TLSEnabled bool   `mapstructure:"tls_enabled"`
}

// KafkaSettings configures the Kafka producer. An empty broker list switches
// the service to the logging stub publisher.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
	Async       bool     `mapstructure:"async"`
}

// JWTSettings configures dual-secret HS256 signing. Access and refresh tokens
// use distinct secrets so one cannot be replayed as the other.
type JWTSettings struct {
	AccessSecret    string        `mapstructure:"access_secret"`
	RefreshSecret   string        `mapstructure:"refresh_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// MailSettings configures the transactional email provider.
type MailSettings struct {
	APIKey string `mapstructure:"api_key"`
	Sender string `mapstructure:"sender"`
	// DevRecipient overrides the destination outside production so test
	// registrations never email real addresses.
	DevRecipient string `mapstructure:"dev_recipient"`
}

// S3Settings configures object storage for listing photos.
type S3Settings struct {
	Region     string        `mapstructure:"region"`
	Bucket     string        `mapstructure:"bucket"`
	Endpoint   string        `mapstructure:"endpoint"`
	AccessKey  string        `mapstructure:"access_key"`
	SecretKey  string        `mapstructure:"secret_key"`
	PresignTTL time.Duration `mapstructure:"presign_ttl"`
}

type TelemetrySettings struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
	Enabled      bool    `mapstructure:"enabled"`
}

// RateLimitSettings configures sliding-window throttling per endpoint.
type RateLimitSettings struct {
	WindowDuration           time.Duration `mapstructure:"window_duration"`
	LoginMaxAttempts         int           `mapstructure:"login_max_attempts"`
	PasswordResetMaxAttempts int           `mapstructure:"password_reset_max_attempts"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("ESTATE")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.origin",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.async",
		"jwt.access_secret",
		"jwt.refresh_secret",
		"jwt.access_token_ttl",
		"jwt.refresh_token_ttl",
		"mail.api_key",
		"mail.sender",
		"mail.dev_recipient",
		"s3.region",
		"s3.bucket",
		"s3.endpoint",
		"s3.access_key",
		"s3.secret_key",
		"s3.presign_ttl",
		"telemetry.otlp_endpoint",
		"telemetry.service_name",
		"telemetry.sampling_rate",
		"telemetry.enabled",
		"rate_limit.window_duration",
		"rate_limit.login_max_attempts",
		"rate_limit.password_reset_max_attempts",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *AppConfig) error {
	if cfg.App.Env != "development" {
		if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
			return fmt.Errorf("jwt secrets are required outside development")
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "real-estate-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 4004)
	v.SetDefault("app.origin", "http://localhost:3000")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "estate")
	v.SetDefault("postgres.password", "estate_password")
	v.SetDefault("postgres.database", "estate")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "estate")
	v.SetDefault("kafka.async", true)

	v.SetDefault("jwt.access_secret", "dev-access-secret")
	v.SetDefault("jwt.refresh_secret", "dev-refresh-secret")
	v.SetDefault("jwt.access_token_ttl", "15m")
	v.SetDefault("jwt.refresh_token_ttl", "720h")

	v.SetDefault("mail.api_key", "")
	v.SetDefault("mail.sender", "onboarding@resend.dev")
	v.SetDefault("mail.dev_recipient", "delivered@resend.dev")

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "estate-photos")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.presign_ttl", "15m")

	v.SetDefault("telemetry.otlp_endpoint", "localhost:4318")
	v.SetDefault("telemetry.service_name", "real-estate-api")
	v.SetDefault("telemetry.sampling_rate", 1.0)
	v.SetDefault("telemetry.enabled", false)

	v.SetDefault("rate_limit.window_duration", "1m")
	v.SetDefault("rate_limit.login_max_attempts", 10)
	v.SetDefault("rate_limit.password_reset_max_attempts", 5)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "ESTATE_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
