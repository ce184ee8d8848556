package memory

import (
	"context"
	"sync"
	"time"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"

	"github.com/google/uuid"
)

var _ output.ConversationStore = (*Store)(nil)

type record struct {
	seq     uint64
	message entity.Message
}

// Store keeps the conversation in process memory. The sequence number plays
// the role of the internal sortable timestamp and is never returned.
type Store struct {
	mu      sync.RWMutex
	seq     uint64
	records []record
	now     func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

func (s *Store) Add(ctx context.Context, messages ...entity.Message) error {
	if len(messages) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	for _, m := range messages {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		m.ToolCalls = append([]entity.ToolCall(nil), m.ToolCalls...)
		s.seq++
		s.records = append(s.records, record{seq: s.seq, message: m})
	}
	return nil
}

func (s *Store) GetAll(ctx context.Context) ([]entity.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Message, 0, len(s.records))
	for _, r := range s.records {
		m := r.message
		m.ToolCalls = append([]entity.ToolCall(nil), m.ToolCalls...)
		out = append(out, m)
	}
	return out, nil
}
