package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"galaxy-recommender/internal/application/port/output"

	"gopkg.in/yaml.v3"
)

var ErrMissingConfig = errors.New("missing configuration")

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"

	IndexUpstash = "upstash"
	IndexMemory  = "memory"

	ProviderOpenRouter = "openrouter"
	ProviderLangchain  = "langchain"
)

// Config holds every runtime setting. Secrets are only ever read from the
// environment; the optional YAML file carries non-secret overrides.
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Store     StoreConfig     `yaml:"store"`
	Index     IndexConfig     `yaml:"index"`
	Galaxy    GalaxyConfig    `yaml:"galaxy"`
	Chat      ChatConfig      `yaml:"chat"`
	Log       LogConfig       `yaml:"log"`
	Events    EventsConfig    `yaml:"events"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
	APIKey      string  `yaml:"-"`
}

type StoreConfig struct {
	Backend  string `yaml:"backend"`
	Key      string `yaml:"key"`
	RedisURL string `yaml:"-"`
}

type IndexConfig struct {
	Backend string        `yaml:"backend"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	Token   string        `yaml:"-"`
}

type GalaxyConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	APIKey  string        `yaml:"-"`
}

type ChatConfig struct {
	// MaxToolRounds <= 0 disables the limit.
	MaxToolRounds int `yaml:"max_tool_rounds"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type EventsConfig struct {
	NATSURL       string `yaml:"nats_url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
	AccessLog   bool     `yaml:"access_log"`
}

func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: ProviderOpenRouter,
			Model:    "gpt-4o-mini",
			BaseURL:  "https://openrouter.ai/api/v1",
		},
		Store: StoreConfig{
			Backend: StoreRedis,
			Key:     "galaxy:messages",
		},
		Index: IndexConfig{
			Backend: IndexUpstash,
			Timeout: 30 * time.Second,
		},
		Galaxy: GalaxyConfig{
			URL:     "https://usegalaxy.org",
			Timeout: 2 * time.Minute,
		},
		Chat: ChatConfig{MaxToolRounds: 8},
		Log: LogConfig{
			Level: "info",
			Dir:   "log",
		},
		Events:    EventsConfig{SubjectPrefix: "galaxy.chat.events"},
		Telemetry: TelemetryConfig{ServiceName: "galaxy-recommender"},
		Server:    ServerConfig{Addr: ":8080", AccessLog: true},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (if any), then the environment.
func Load(src output.ConfigPort, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg, src)
	return cfg, nil
}

func applyEnv(cfg *Config, src output.ConfigPort) {
	str := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := src.Get(key); v != "" {
				*dst = v
				return
			}
		}
	}

	cfg.LLM.Provider = src.GetWithDefault("LLM_PROVIDER", cfg.LLM.Provider)
	str(&cfg.LLM.Model, "OPENAI_MODEL", "OPENROUTER_MODEL_NAME")
	str(&cfg.LLM.BaseURL, "OPEN_ROUTER_API", "OPENROUTER_BASE_URL")
	str(&cfg.LLM.APIKey, "OPEN_ROUTER_API_KEY", "OPENROUTER_API_KEY")
	cfg.LLM.Temperature = float32(src.GetFloat("LLM_TEMPERATURE", float64(cfg.LLM.Temperature)))

	cfg.Store.Backend = src.GetWithDefault("STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.Key = src.GetWithDefault("CONVERSATION_KEY", cfg.Store.Key)
	cfg.Store.RedisURL = src.GetWithDefault("REDIS_URL", cfg.Store.RedisURL)

	cfg.Index.Backend = src.GetWithDefault("INDEX_BACKEND", cfg.Index.Backend)
	cfg.Index.URL = src.GetWithDefault("UPSTASH_VECTOR_REST_URL", cfg.Index.URL)
	cfg.Index.Token = src.GetWithDefault("UPSTASH_VECTOR_REST_TOKEN", cfg.Index.Token)
	cfg.Index.Timeout = src.GetDuration("UPSTASH_TIMEOUT", cfg.Index.Timeout)

	cfg.Galaxy.URL = src.GetWithDefault("GALAXY_URL", cfg.Galaxy.URL)
	cfg.Galaxy.APIKey = src.GetWithDefault("GALAXY_API_KEY", cfg.Galaxy.APIKey)
	cfg.Galaxy.Timeout = src.GetDuration("GALAXY_TIMEOUT", cfg.Galaxy.Timeout)

	cfg.Chat.MaxToolRounds = src.GetInt("CHAT_MAX_TOOL_ROUNDS", cfg.Chat.MaxToolRounds)

	cfg.Log.Level = src.GetWithDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Dir = src.GetWithDefault("LOG_DIR", cfg.Log.Dir)

	cfg.Events.NATSURL = src.GetWithDefault("NATS_URL", cfg.Events.NATSURL)
	cfg.Events.SubjectPrefix = src.GetWithDefault("NATS_SUBJECT_PREFIX", cfg.Events.SubjectPrefix)

	cfg.Telemetry.OTLPEndpoint = src.GetWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
	cfg.Telemetry.ServiceName = src.GetWithDefault("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)

	cfg.Server.Addr = src.GetWithDefault("HTTP_ADDR", cfg.Server.Addr)
	cfg.Server.AccessLog = src.GetBool("HTTP_ACCESS_LOG", cfg.Server.AccessLog)
	if v := src.Get("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateChat reports settings the chat loop cannot run without.
func (c *Config) ValidateChat() error {
	var missing []string
	if c.LLM.APIKey == "" {
		missing = append(missing, "OPEN_ROUTER_API_KEY")
	}
	missing = append(missing, c.storeMissing()...)
	missing = append(missing, c.indexMissing()...)
	return missingErr(missing)
}

// ValidateIngest reports settings catalog ingestion cannot run without.
func (c *Config) ValidateIngest() error {
	var missing []string
	if c.Galaxy.URL == "" {
		missing = append(missing, "GALAXY_URL")
	}
	missing = append(missing, c.indexMissing()...)
	return missingErr(missing)
}

func (c *Config) storeMissing() []string {
	if c.Store.Backend == StoreRedis && c.Store.RedisURL == "" {
		return []string{"REDIS_URL"}
	}
	return nil
}

func (c *Config) indexMissing() []string {
	if c.Index.Backend != IndexUpstash {
		return nil
	}
	var missing []string
	if c.Index.URL == "" {
		missing = append(missing, "UPSTASH_VECTOR_REST_URL")
	}
	if c.Index.Token == "" {
		missing = append(missing, "UPSTASH_VECTOR_REST_TOKEN")
	}
	return missing
}

func missingErr(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(keys, ", "))
}
