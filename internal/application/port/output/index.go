package output

import (
	"context"

	"galaxy-recommender/internal/domain/entity"
)

type VectorIndex interface {
	Upsert(ctx context.Context, records ...entity.VectorRecord) error
	Query(ctx context.Context, req QueryRequest) ([]entity.SearchHit, error)
}

type QueryRequest struct {
	Data            string
	TopK            int
	IncludeMetadata bool
	IncludeData     bool
}
