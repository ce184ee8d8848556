package di

import (
	"context"
	"errors"
	"fmt"

	"galaxy-recommender/internal/adapter/tool"
	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/application/service"
	"galaxy-recommender/internal/domain/entity"
	"galaxy-recommender/internal/infrastructure/catalog/galaxy"
	"galaxy-recommender/internal/infrastructure/config"
	"galaxy-recommender/internal/infrastructure/events/natsbus"
	"galaxy-recommender/internal/infrastructure/llm/langchain"
	"galaxy-recommender/internal/infrastructure/llm/openrouter"
	"galaxy-recommender/internal/infrastructure/logger"
	"galaxy-recommender/internal/infrastructure/prompts"
	storemem "galaxy-recommender/internal/infrastructure/store/memory"
	"galaxy-recommender/internal/infrastructure/store/redisstore"
	"galaxy-recommender/internal/infrastructure/telemetry"
	vectormem "galaxy-recommender/internal/infrastructure/vector/memory"
	"galaxy-recommender/internal/infrastructure/vector/upstash"
	"galaxy-recommender/internal/usecase/chat"
	"galaxy-recommender/internal/usecase/ingest"
	"galaxy-recommender/internal/usecase/search"
)

type Container struct {
	Config *config.Config
	Logger output.LoggerPort
	Index  output.VectorIndex

	// Chat side.
	LLM    output.LLMPort
	Store  output.ConversationStore
	Tools  output.ToolRegistry
	Chat   *chat.UseCase
	Events output.EventPublisher

	// Ingestion side.
	Catalog output.CatalogSource
	Ingest  *ingest.UseCase

	closers []func(context.Context) error
}

// NewChatContainer wires everything a chat front end (shell or HTTP API)
// needs.
func NewChatContainer(ctx context.Context, cfg *config.Config, logName string) (*Container, error) {
	if err := cfg.ValidateChat(); err != nil {
		return nil, err
	}

	c, err := newBase(ctx, cfg, logName)
	if err != nil {
		return nil, err
	}

	if err := c.initStore(ctx); err != nil {
		c.Close(ctx)
		return nil, err
	}
	if err := c.initLLM(); err != nil {
		c.Close(ctx)
		return nil, err
	}

	tools := service.NewToolRegistry()
	tools.Register(
		tool.NewToolSearchTool(search.New(c.Index, c.Logger), c.Logger),
		entity.ToolSearchAliasPlural,
		entity.ToolSearchAliasLegacy,
	)
	c.Tools = tools

	systemPrompt, err := prompts.GenerateSystemPrompt(prompts.SystemPromptTemplate, tools)
	if err != nil {
		c.Close(ctx)
		return nil, fmt.Errorf("failed to render system prompt: %w", err)
	}

	c.Chat = chat.New(c.LLM, c.Store, tools, c.Logger, systemPrompt, chat.Config{
		MaxToolRounds: cfg.Chat.MaxToolRounds,
		Temperature:   cfg.LLM.Temperature,
	})

	c.initEvents()
	return c, nil
}

// NewIngestContainer wires the catalog client and the ingestion use case.
func NewIngestContainer(ctx context.Context, cfg *config.Config, logName string) (*Container, error) {
	if err := cfg.ValidateIngest(); err != nil {
		return nil, err
	}

	c, err := newBase(ctx, cfg, logName)
	if err != nil {
		return nil, err
	}

	c.Catalog = galaxy.NewClient(galaxy.Config{
		URL:     cfg.Galaxy.URL,
		APIKey:  cfg.Galaxy.APIKey,
		Timeout: cfg.Galaxy.Timeout,
		Logger:  c.Logger,
	})
	c.Ingest = ingest.New(c.Catalog, c.Index, c.Logger)
	return c, nil
}

// EventHandler returns the external observer for turn events, or nil.
func (c *Container) EventHandler() entity.EventHandler {
	if p, ok := c.Events.(*natsbus.Publisher); ok {
		return p.Handler()
	}
	return nil
}

// Close releases resources in reverse order of acquisition. The logger is
// closed last.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func newBase(ctx context.Context, cfg *config.Config, logName string) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Name:  logName,
		Level: cfg.Log.Level,
		Dir:   cfg.Log.Dir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := &Container{Config: cfg, Logger: log}
	c.onClose(func(context.Context) error { return log.Close() })

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry, log)
	if err != nil {
		c.Close(ctx)
		return nil, err
	}
	c.onClose(shutdown)

	switch cfg.Index.Backend {
	case config.IndexUpstash:
		c.Index = upstash.NewWithLogger(cfg.Index.URL, cfg.Index.Token, cfg.Index.Timeout, log)
	case config.IndexMemory:
		c.Index = vectormem.New()
	default:
		c.Close(ctx)
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}

	log.Info("Container initialized", "index", cfg.Index.Backend)
	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.Store.Backend {
	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, c.Config.Store.RedisURL)
		if err != nil {
			return err
		}
		c.onClose(func(context.Context) error { return client.Close() })
		c.Store = redisstore.New(client, c.Config.Store.Key)
	case config.StoreMemory:
		c.Store = storemem.New()
	default:
		return fmt.Errorf("unknown store backend %q", c.Config.Store.Backend)
	}
	c.Logger.Info("Conversation store ready", "backend", c.Config.Store.Backend, "key", c.Config.Store.Key)
	return nil
}

func (c *Container) initLLM() error {
	llmCfg := c.Config.LLM
	switch llmCfg.Provider {
	case config.ProviderOpenRouter, "":
		orCfg := openrouter.DefaultConfig(llmCfg.APIKey, llmCfg.Model)
		if llmCfg.BaseURL != "" {
			orCfg.BaseURL = llmCfg.BaseURL
		}
		orCfg.Logger = c.Logger
		c.LLM = openrouter.NewOpenRouterAdapter(orCfg)
	case config.ProviderLangchain:
		llm, err := langchain.New(langchain.Config{
			APIKey:  llmCfg.APIKey,
			Model:   llmCfg.Model,
			BaseURL: llmCfg.BaseURL,
			Logger:  c.Logger,
		})
		if err != nil {
			return err
		}
		c.LLM = llm
	default:
		return fmt.Errorf("unknown llm provider %q", llmCfg.Provider)
	}
	c.Logger.Info("LLM ready", "provider", llmCfg.Provider, "model", llmCfg.Model)
	return nil
}

// initEvents connects the optional NATS publisher. Event delivery is best
// effort, so a connection failure only disables it.
func (c *Container) initEvents() {
	if c.Config.Events.NATSURL == "" {
		return
	}
	pub, err := natsbus.Connect(c.Config.Events.NATSURL, c.Config.Events.SubjectPrefix, c.Logger)
	if err != nil {
		c.Logger.Warn("Event publishing disabled", "error", err)
		return
	}
	c.Events = pub
	c.onClose(func(context.Context) error { return pub.Close() })
}

func (c *Container) onClose(fn func(context.Context) error) {
	c.closers = append(c.closers, fn)
}
