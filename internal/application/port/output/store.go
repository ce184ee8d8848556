package output

import (
	"context"

	"galaxy-recommender/internal/domain/entity"
)

// ConversationStore is append-only. Add assigns ID and CreatedAt when they
// are missing; GetAll returns every message oldest first.
type ConversationStore interface {
	Add(ctx context.Context, messages ...entity.Message) error
	GetAll(ctx context.Context) ([]entity.Message, error)
}
