package di

import (
	"context"
	"testing"

	"galaxy-recommender/internal/domain/entity"
	"galaxy-recommender/internal/infrastructure/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Log.Dir = ""
	cfg.Log.Level = "error"
	cfg.LLM.APIKey = "sk-test"
	cfg.Store.Backend = config.StoreMemory
	cfg.Index.Backend = config.IndexMemory
	return cfg
}

func TestNewChatContainer_MemoryBackends(t *testing.T) {
	ctx := context.Background()
	c, err := NewChatContainer(ctx, memoryConfig(), "test")
	require.NoError(t, err)
	defer c.Close(ctx)

	assert.NotNil(t, c.Chat)
	assert.NotNil(t, c.LLM)
	assert.Nil(t, c.Events)
	assert.Nil(t, c.EventHandler())

	for _, name := range []entity.ToolName{entity.ToolSearch, entity.ToolSearchAliasPlural, entity.ToolSearchAliasLegacy} {
		_, ok := c.Tools.Get(name)
		assert.True(t, ok, name)
	}
}

func TestNewChatContainer_RedisAndLangchain(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := memoryConfig()
	cfg.Store.Backend = config.StoreRedis
	cfg.Store.RedisURL = "redis://" + mr.Addr()
	cfg.LLM.Provider = config.ProviderLangchain

	ctx := context.Background()
	c, err := NewChatContainer(ctx, cfg, "test")
	require.NoError(t, err)

	history, err := c.Chat.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NoError(t, c.Close(ctx))
}

func TestNewChatContainer_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := memoryConfig()
	cfg.LLM.APIKey = ""
	_, err := NewChatContainer(ctx, cfg, "test")
	assert.ErrorIs(t, err, config.ErrMissingConfig)

	cfg = memoryConfig()
	cfg.LLM.Provider = "unknown"
	_, err = NewChatContainer(ctx, cfg, "test")
	assert.ErrorContains(t, err, "unknown llm provider")

	cfg = memoryConfig()
	cfg.Index.Backend = "faiss"
	_, err = NewChatContainer(ctx, cfg, "test")
	assert.ErrorContains(t, err, "unknown index backend")
}

func TestNewIngestContainer(t *testing.T) {
	ctx := context.Background()
	c, err := NewIngestContainer(ctx, memoryConfig(), "test")
	require.NoError(t, err)
	defer c.Close(ctx)

	assert.NotNil(t, c.Ingest)
	assert.NotNil(t, c.Catalog)
	assert.Nil(t, c.Chat)
}
