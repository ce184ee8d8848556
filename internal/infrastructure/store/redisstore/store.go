package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ output.ConversationStore = (*Store)(nil)

const (
	docField       = "doc"
	createdAtField = "created_at"
)

// Store persists the conversation as a Redis stream. Stream entry IDs are the
// internal sortable timestamps; XRANGE returns entries in insertion order.
type Store struct {
	client redis.UniversalClient
	key    string
	now    func() time.Time
}

func New(client redis.UniversalClient, key string) *Store {
	return &Store{client: client, key: key, now: time.Now}
}

// Connect opens a client for redisURL and verifies it with PING.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Add appends messages atomically in a MULTI/EXEC block.
func (s *Store) Add(ctx context.Context, messages ...entity.Message) error {
	if len(messages) == 0 {
		return nil
	}

	now := s.now().UTC()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range messages {
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			if m.CreatedAt.IsZero() {
				m.CreatedAt = now
			}

			data, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("marshal message %s: %w", m.ID, err)
			}

			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: s.key,
				Values: map[string]interface{}{
					docField:       string(data),
					createdAtField: m.CreatedAt.UnixNano(),
				},
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append messages to %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) GetAll(ctx context.Context) ([]entity.Message, error) {
	entries, err := s.client.XRange(ctx, s.key, "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("read messages from %s: %w", s.key, err)
	}

	out := make([]entity.Message, 0, len(entries))
	for _, e := range entries {
		raw, ok := e.Values[docField].(string)
		if !ok {
			return nil, fmt.Errorf("stream entry %s has no %q field", e.ID, docField)
		}

		var m entity.Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode stream entry %s: %w", e.ID, err)
		}
		out = append(out, m)
	}
	return out, nil
}
