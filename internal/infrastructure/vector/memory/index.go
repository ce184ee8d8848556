package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
)

var _ output.VectorIndex = (*Index)(nil)

// Index is an in-process stand-in for the hosted vector index. It ranks by
// token overlap between the query and each record's data text, which is
// enough for local runs and tests.
type Index struct {
	mu      sync.RWMutex
	records map[string]entity.VectorRecord
}

func New() *Index {
	return &Index{records: make(map[string]entity.VectorRecord)}
}

func (ix *Index) Upsert(_ context.Context, records ...entity.VectorRecord) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, r := range records {
		meta := make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			meta[k] = v
		}
		r.Metadata = meta
		ix.records[r.ID] = r
	}
	return nil
}

func (ix *Index) Query(_ context.Context, req output.QueryRequest) ([]entity.SearchHit, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	query := tokenize(req.Data)

	type scored struct {
		rec   entity.VectorRecord
		score float64
	}
	candidates := make([]scored, 0, len(ix.records))
	for _, r := range ix.records {
		candidates = append(candidates, scored{rec: r, score: overlap(query, tokenize(r.Data))})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].rec.ID < candidates[j].rec.ID
	})

	if req.TopK >= 0 && len(candidates) > req.TopK {
		candidates = candidates[:req.TopK]
	}

	hits := make([]entity.SearchHit, 0, len(candidates))
	for _, c := range candidates {
		hit := entity.SearchHit{ID: c.rec.ID, Score: c.score}
		if req.IncludeMetadata {
			meta := make(map[string]any, len(c.rec.Metadata))
			for k, v := range c.rec.Metadata {
				meta[k] = v
			}
			hit.Metadata = meta
		}
		if req.IncludeData {
			hit.Data = c.rec.Data
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Len reports the number of stored records.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.records)
}

// Snapshot returns a copy of every record keyed by ID.
func (ix *Index) Snapshot() map[string]entity.VectorRecord {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make(map[string]entity.VectorRecord, len(ix.records))
	for id, r := range ix.records {
		out[id] = r
	}
	return out
}

func tokenize(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

// overlap is |q ∩ d| / |q|.
func overlap(query, doc map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	n := 0
	for tok := range query {
		if _, ok := doc[tok]; ok {
			n++
		}
	}
	return float64(n) / float64(len(query))
}
