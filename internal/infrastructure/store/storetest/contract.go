// Package storetest holds the behaviour every ConversationStore must share.
package storetest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Run(t *testing.T, newStore func(t *testing.T) output.ConversationStore) {
	t.Run("empty", func(t *testing.T) {
		msgs, err := newStore(t).GetAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("appended message is last and carries no internal fields", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.Add(ctx, entity.NewUserMessage("first")))
		require.NoError(t, store.Add(ctx, entity.NewUserMessage("align reads")))

		msgs, err := store.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, msgs, 2)

		last := msgs[len(msgs)-1]
		assert.Equal(t, "align reads", last.Content)
		assert.Equal(t, entity.RoleUser, last.Role)
		assert.NotEmpty(t, last.ID)
		assert.False(t, last.CreatedAt.IsZero())

		data, err := json.Marshal(last)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.NotContains(t, doc, "_id")
		assert.NotContains(t, doc, "created_at")
		assert.Contains(t, doc, "createdAt")
	})

	t.Run("insert many keeps order", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		batch := []entity.Message{
			entity.NewUserMessage("one"),
			{Role: entity.RoleAssistant, Content: "two"},
			entity.NewToolMessage(entity.ToolResult{Name: entity.ToolSearch, Content: "three", CallID: "c1"}),
		}
		require.NoError(t, store.Add(ctx, batch...))
		require.NoError(t, store.Add(ctx, entity.NewUserMessage("four")))

		msgs, err := store.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, msgs, 4)
		for i, want := range []string{"one", "two", "three", "four"} {
			assert.Equal(t, want, msgs[i].Content)
		}
		assert.Equal(t, "c1", msgs[2].ToolCallID)
	})

	t.Run("keeps caller supplied id and timestamp", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, store.Add(ctx, entity.Message{ID: "fixed", Role: entity.RoleUser, Content: "x", CreatedAt: created}))

		msgs, err := store.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "fixed", msgs[0].ID)
		assert.True(t, created.Equal(msgs[0].CreatedAt))
	})

	t.Run("tool calls survive round trip", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		requested := []entity.ToolCall{
			entity.NewToolCall(0, "call_a", "tool_search", `{"query":"align reads"}`),
			entity.NewToolCall(1, "call_b", "tool_search", map[string]any{"q": "trim adapters", "k": "3"}),
		}
		require.NoError(t, store.Add(ctx, entity.Message{Role: entity.RoleAssistant, ToolCalls: requested, Refusal: "", Reasoning: "thinking"}))

		msgs, err := store.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Len(t, msgs[0].ToolCalls, 2)
		assert.Equal(t, "thinking", msgs[0].Reasoning)

		for i, tc := range msgs[0].ToolCalls {
			want := requested[i].Request()
			got := tc.Request()
			assert.Equal(t, want.Name, got.Name)
			assert.Equal(t, want.Args, got.Args)
			assert.Equal(t, requested[i].ID, tc.ID)
		}
	})
}
