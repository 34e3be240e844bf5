package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration, read from
// configs/config.yaml with environment-variable overrides.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Data         DataConfig         `mapstructure:"data"`
	Browser      BrowserConfig      `mapstructure:"browser"`
	Mapper       MapperConfig       `mapstructure:"mapper"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Session      SessionConfig      `mapstructure:"session"`
	Server       ServerConfig       `mapstructure:"server"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type DataConfig struct {
	ProfilesPath  string `mapstructure:"profiles_path"`
	ProvidersPath string `mapstructure:"providers_path"`
}

type BrowserConfig struct {
	Headless      bool   `mapstructure:"headless"`
	SlowMotionMs  int    `mapstructure:"slow_motion_ms"`
	TimeoutSec    int    `mapstructure:"timeout_seconds"`
	NoSandbox     bool   `mapstructure:"no_sandbox"`
	ScreenshotDir string `mapstructure:"screenshot_dir"`
}

// MapperConfig selects the field mapper: "rules" (default, offline) or
// "llm" (OpenRouter-compatible endpoint, needs OPENROUTER_API_KEY).
type MapperConfig struct {
	Kind    string `mapstructure:"kind"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OrchestratorConfig struct {
	CallTimeoutSec int `mapstructure:"call_timeout_seconds"`
}

func (c OrchestratorConfig) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSec) * time.Second
}

// SessionConfig selects the session store backend: "memory" or "redis".
type SessionConfig struct {
	Backend    string      `mapstructure:"backend"`
	TTLMinutes int         `mapstructure:"ttl_minutes"`
	Redis      RedisConfig `mapstructure:"redis"`
}

func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Defaults alone are a workable configuration.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "booking-assistant")
	v.SetDefault("app.environment", "development")

	v.SetDefault("data.profiles_path", "configs/profiles.json")
	v.SetDefault("data.providers_path", "configs/providers.json")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.slow_motion_ms", 100)
	v.SetDefault("browser.timeout_seconds", 10)
	v.SetDefault("browser.no_sandbox", false)
	v.SetDefault("browser.screenshot_dir", "log")

	v.SetDefault("mapper.kind", "rules")
	v.SetDefault("mapper.model", "openai/gpt-4o-mini")
	v.SetDefault("mapper.base_url", "https://openrouter.ai/api/v1")

	v.SetDefault("orchestrator.call_timeout_seconds", 30)

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl_minutes", 30)
	v.SetDefault("session.redis.address", "localhost:6379")
	v.SetDefault("session.redis.db", 0)

	v.SetDefault("server.address", ":8080")

	v.SetDefault("logging.level", "info")
}

func validate(cfg *Config) error {
	switch cfg.Mapper.Kind {
	case "rules", "llm":
	default:
		return fmt.Errorf("unknown mapper kind %q", cfg.Mapper.Kind)
	}

	switch cfg.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}

	if cfg.Session.TTLMinutes <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}
