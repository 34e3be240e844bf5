package di

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"booking-assistant/internal/application/port/input"
	"booking-assistant/internal/application/port/output"
	"booking-assistant/internal/infrastructure/browser/rod"
	"booking-assistant/internal/infrastructure/config"
	"booking-assistant/internal/infrastructure/directory"
	"booking-assistant/internal/infrastructure/logger"
	llmmapper "booking-assistant/internal/infrastructure/mapper/llm"
	rulesmapper "booking-assistant/internal/infrastructure/mapper/rules"
	"booking-assistant/internal/infrastructure/profile"
	"booking-assistant/internal/session"
	"booking-assistant/internal/usecase/orchestrator"
)

// Container wires the collaborators into the orchestrator. Construction
// is the only place services are resolved; nothing is looked up at call
// time.
type Container struct {
	Logger    output.LoggerPort
	Processor input.MessageProcessor
	Sessions  session.Store

	browser *rod.Adapter
	redis   *goredis.Client
}

// Options carries the few settings that come from the environment rather
// than the config file.
type Options struct {
	OpenRouterAPIKey string
}

func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	log, err := logger.NewZapAdapter(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	profiles, err := profile.NewFileStore(cfg.Data.ProfilesPath, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create profile store: %w", err)
	}

	providers, err := directory.LoadProviders(cfg.Data.ProvidersPath)
	if err != nil {
		log.Warn("Providers file unavailable, using built-in demo directory",
			"path", cfg.Data.ProvidersPath, "error", err)
		providers = directory.DefaultProviders()
	}
	providerDir := directory.NewStaticDirectory(providers, log)

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.Browser.Headless
	browserCfg.SlowMotion = time.Duration(cfg.Browser.SlowMotionMs) * time.Millisecond
	browserCfg.Timeout = time.Duration(cfg.Browser.TimeoutSec) * time.Second
	browserCfg.NoSandbox = cfg.Browser.NoSandbox
	browserCfg.ScreenshotDir = cfg.Browser.ScreenshotDir

	browser, err := rod.NewAdapter(ctx, browserCfg, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	var mapper output.FieldMapperPort
	switch cfg.Mapper.Kind {
	case "llm":
		llmCfg := llmmapper.DefaultConfig(opts.OpenRouterAPIKey, cfg.Mapper.Model)
		if cfg.Mapper.BaseURL != "" {
			llmCfg.BaseURL = cfg.Mapper.BaseURL
		}
		mapper = llmmapper.NewMapper(llmCfg, log)
	default:
		mapper = rulesmapper.New(log)
	}

	uc := orchestrator.New(profiles, providerDir, browser, mapper, browser, log).
		WithCallTimeout(cfg.Orchestrator.CallTimeout())

	c := &Container{
		Logger:    log,
		Processor: uc,
		browser:   browser,
	}

	switch cfg.Session.Backend {
	case "redis":
		c.redis = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Session.Redis.Address,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		})
		if err := c.redis.Ping(ctx).Err(); err != nil {
			c.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		c.Sessions = session.NewRedisStore(c.redis, cfg.Session.TTL())
	default:
		c.Sessions = session.NewMemoryStore(cfg.Session.TTL())
	}

	return c, nil
}

func (c *Container) Close() {
	if c.browser != nil {
		c.browser.Close()
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
