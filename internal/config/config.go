package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// AllowOrigins feeds the CORS middleware. Empty means allow all.
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type LogCfg struct {
	Level string `mapstructure:"level"`
}

type DatabaseCfg struct {
	DSN         string `mapstructure:"dsn"`
	MaxOpen     int    `mapstructure:"maxOpen"`
	MaxIdle     int    `mapstructure:"maxIdle"`
	AutoMigrate bool   `mapstructure:"autoMigrate"`
	EnableTLS   bool   `mapstructure:"enableTLS"`
}

type RedisCfg struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"poolSize"`
	EnableTLS bool   `mapstructure:"enableTLS"`
}

type RabbitMQCfg struct {
	URL          string `mapstructure:"url"`
	EnableTLS    bool   `mapstructure:"enableTLS"`
	ExchangeName string `mapstructure:"exchangeName"`
}

type S3Cfg struct {
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	AccessKey     string `mapstructure:"accessKey"`
	SecretKey     string `mapstructure:"secretKey"`
	Bucket        string `mapstructure:"bucket"`
	UsePathStyle  bool   `mapstructure:"usePathStyle"`
	PublicBaseURL string `mapstructure:"publicBaseURL"`
}

type TelemetryCfg struct {
	Enabled      bool    `mapstructure:"enabled"`
	OtlpEndpoint string  `mapstructure:"otlpEndpoint"`
	SampleRatio  float64 `mapstructure:"sampleRatio"`
}

type SupabaseCfg struct {
	// ProjectRef is the <ref> part of https://<ref>.supabase.co
	ProjectRef string `mapstructure:"projectRef"`
	AuthURL    string `mapstructure:"authURL"`
	AnonKey    string `mapstructure:"anonKey"`
	// JWTSecret enables local HS256 verification before falling back to the auth API.
	JWTSecret string `mapstructure:"jwtSecret"`
	// UserCacheSec caches verified users in redis. 0 disables caching.
	UserCacheSec int `mapstructure:"userCacheSec"`
}

type GeneratorCfg struct {
	// Provider is one of anthropic, openai, gemini.
	Provider        string `mapstructure:"provider"`
	Model           string `mapstructure:"model"`
	AnthropicAPIKey string `mapstructure:"anthropicApiKey"`
	OpenAIAPIKey    string `mapstructure:"openaiApiKey"`
	OpenAIBaseURL   string `mapstructure:"openaiBaseURL"`
	GeminiAPIKey    string `mapstructure:"geminiApiKey"`
	MaxOutputTokens int    `mapstructure:"maxOutputTokens"`
	// MaxPromptTokens rejects project descriptions that would blow the context window.
	MaxPromptTokens int `mapstructure:"maxPromptTokens"`
	TimeoutSec      int `mapstructure:"timeoutSec"`
}

type DeployCfg struct {
	VercelToken  string `mapstructure:"vercelToken"`
	VercelTeamID string `mapstructure:"vercelTeamId"`
	GithubToken  string `mapstructure:"githubToken"`
	GithubOwner  string `mapstructure:"githubOwner"`
}

type ShareCfg struct {
	TokenPrefix  string `mapstructure:"tokenPrefix"`
	SecretPepper string `mapstructure:"secretPepper"`
	// EnableArgon2Verification verifies the PHC hash after the HMAC lookup.
	EnableArgon2Verification bool `mapstructure:"enableArgon2Verification"`
}

type DemoCfg struct {
	// Enabled serves unauthenticated requests from the in-memory demo backend.
	Enabled bool `mapstructure:"enabled"`
	// StepIntervalMs is the tick of the simulated progress stream.
	StepIntervalMs int `mapstructure:"stepIntervalMs"`
	StepIncrement  int `mapstructure:"stepIncrement"`
}

type RateLimitCfg struct {
	GeneratePerWindow int `mapstructure:"generatePerWindow"`
	WindowSec         int `mapstructure:"windowSec"`
}

type Config struct {
	App       AppCfg       `mapstructure:"app"`
	Log       LogCfg       `mapstructure:"log"`
	Database  DatabaseCfg  `mapstructure:"database"`
	Redis     RedisCfg     `mapstructure:"redis"`
	RabbitMQ  RabbitMQCfg  `mapstructure:"rabbitmq"`
	S3        S3Cfg        `mapstructure:"s3"`
	Telemetry TelemetryCfg `mapstructure:"telemetry"`
	Supabase  SupabaseCfg  `mapstructure:"supabase"`
	Generator GeneratorCfg `mapstructure:"generator"`
	Deploy    DeployCfg    `mapstructure:"deploy"`
	Share     ShareCfg     `mapstructure:"share"`
	Demo      DemoCfg      `mapstructure:"demo"`
	RateLimit RateLimitCfg `mapstructure:"ratelimit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "saas-factory-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8029)

	v.SetDefault("log.level", "info")

	v.SetDefault("database.maxOpen", 20)
	v.SetDefault("database.maxIdle", 10)
	v.SetDefault("database.autoMigrate", true)

	v.SetDefault("redis.poolSize", 10)

	v.SetDefault("rabbitmq.exchangeName", "saas_factory.lifecycle")

	v.SetDefault("s3.region", "auto")

	v.SetDefault("telemetry.sampleRatio", 1.0)

	v.SetDefault("supabase.userCacheSec", 60)

	v.SetDefault("generator.provider", "anthropic")
	v.SetDefault("generator.maxOutputTokens", 16000)
	v.SetDefault("generator.maxPromptTokens", 8000)
	v.SetDefault("generator.timeoutSec", 180)

	v.SetDefault("share.tokenPrefix", "shr_")

	v.SetDefault("demo.stepIntervalMs", 400)
	v.SetDefault("demo.stepIncrement", 20)

	v.SetDefault("ratelimit.generatePerWindow", 10)
	v.SetDefault("ratelimit.windowSec", 3600)
}

// Load reads config.yaml (optional) and SF_* environment variables.
func Load() (*Config, error) {
	// .env is a convenience for local runs
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("SF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvs makes keys without a default visible to Unmarshal when only set via env.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"app.allowOrigins",
		"database.dsn", "database.enableTLS",
		"redis.addr", "redis.password", "redis.db", "redis.enableTLS",
		"rabbitmq.url", "rabbitmq.enableTLS",
		"s3.endpoint", "s3.accessKey", "s3.secretKey", "s3.bucket", "s3.usePathStyle", "s3.publicBaseURL",
		"telemetry.enabled", "telemetry.otlpEndpoint",
		"supabase.projectRef", "supabase.authURL", "supabase.anonKey", "supabase.jwtSecret",
		"generator.model", "generator.anthropicApiKey", "generator.openaiApiKey", "generator.openaiBaseURL", "generator.geminiApiKey",
		"deploy.vercelToken", "deploy.vercelTeamId", "deploy.githubToken", "deploy.githubOwner",
		"share.secretPepper", "share.enableArgon2Verification",
		"demo.enabled",
	} {
		_ = v.BindEnv(key)
	}
}

func (c *Config) Validate() error {
	if c.App.Port <= 0 {
		return errors.New("app.port must be positive")
	}
	if c.Database.DSN == "" && !c.Demo.Enabled {
		return errors.New("database.dsn is required unless demo.enabled is set")
	}
	if c.Database.DSN != "" && c.Share.SecretPepper == "" {
		return errors.New("share.secretPepper is required when a database is configured")
	}
	switch c.Generator.Provider {
	case "anthropic", "openai", "gemini":
	default:
		return fmt.Errorf("unknown generator.provider %q", c.Generator.Provider)
	}
	if c.Generator.TimeoutSec <= 0 {
		return errors.New("generator.timeoutSec must be positive")
	}
	return nil
}

// LiveEnabled reports whether a real database backs authenticated requests.
func (c *Config) LiveEnabled() bool { return c.Database.DSN != "" }

// AuthEnabled reports whether Supabase credentials are present.
func (c *Config) AuthEnabled() bool {
	return (c.Supabase.ProjectRef != "" || c.Supabase.AuthURL != "") && c.Supabase.AnonKey != ""
}

func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Generator.TimeoutSec) * time.Second
}

func (c *Config) DemoStepInterval() time.Duration {
	if c.Demo.StepIntervalMs <= 0 {
		return 400 * time.Millisecond
	}
	return time.Duration(c.Demo.StepIntervalMs) * time.Millisecond
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}
