package upstash

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
	"galaxy-recommender/internal/infrastructure/httpclient"

	vector "github.com/upstash/vector-go"
)

var _ output.VectorIndex = (*Client)(nil)

// Client adapts the Upstash Vector SDK to the index port. The index embeds
// the raw "data" text server-side, so no embedding model is involved here.
type Client struct {
	index *vector.Index
}

type Option func(*vector.Options)

func WithHTTPClient(c *http.Client) Option {
	return func(o *vector.Options) { o.Client = c }
}

func New(baseURL, token string, opts ...Option) *Client {
	o := vector.Options{
		Url:    strings.TrimRight(baseURL, "/"),
		Token:  token,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{index: vector.NewIndexWith(o)}
}

// NewWithLogger is the constructor used by the container. Requests go
// through the logging transport with the bearer token redacted.
func NewWithLogger(baseURL, token string, timeout time.Duration, logger output.LoggerPort) *Client {
	return New(baseURL, token, WithHTTPClient(httpclient.New(timeout, logger)))
}

// Upsert inserts or replaces records keyed by ID.
func (c *Client) Upsert(ctx context.Context, records ...entity.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	items := make([]vector.UpsertData, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("upsert: record without id")
		}
		items = append(items, vector.UpsertData{Id: r.ID, Data: r.Data, Metadata: r.Metadata})
	}

	if err := c.index.UpsertDataMany(items); err != nil {
		return fmt.Errorf("upsert %d record(s): %w", len(records), err)
	}
	return nil
}

func (c *Client) Query(ctx context.Context, req output.QueryRequest) ([]entity.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores, err := c.index.QueryData(vector.QueryData{
		Data:            req.Data,
		TopK:            req.TopK,
		IncludeMetadata: req.IncludeMetadata,
		IncludeData:     req.IncludeData,
	})
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	hits := make([]entity.SearchHit, 0, len(scores))
	for _, s := range scores {
		hit := entity.SearchHit{ID: s.Id, Score: float64(s.Score), Data: s.Data}
		if s.Metadata != nil {
			hit.Metadata = s.Metadata
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
