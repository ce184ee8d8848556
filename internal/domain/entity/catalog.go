package entity

import "fmt"

// CatalogEntry is one tool as listed by the upstream catalog.
type CatalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Owner       string `json:"owner"`
}

// EmbeddingText is the text the index derives the similarity embedding from.
func (e CatalogEntry) EmbeddingText() string {
	return fmt.Sprintf("%s. %s", e.Name, e.Description)
}

func (e CatalogEntry) Metadata() map[string]any {
	return map[string]any{
		"id":          e.ID,
		"name":        e.Name,
		"description": e.Description,
		"version":     e.Version,
		"owner":       e.Owner,
	}
}

// VectorRecord is an upsert unit for the tool catalog index.
type VectorRecord struct {
	ID       string
	Data     string
	Metadata map[string]any
}

func NewVectorRecord(e CatalogEntry) VectorRecord {
	return VectorRecord{
		ID:       e.ID,
		Data:     e.EmbeddingText(),
		Metadata: e.Metadata(),
	}
}

// SearchHit is one nearest-neighbour result. Metadata is whatever shape the
// index client produced and must be normalized before use.
type SearchHit struct {
	ID       string
	Score    float64
	Metadata any
	Data     string
}

type ToolSummary struct {
	Name        string
	Description string
	Version     string
	Owner       string
}
