package galaxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
	"galaxy-recommender/internal/infrastructure/httpclient"
)

var _ output.CatalogSource = (*Client)(nil)

// Client lists tools from a Galaxy server's /api/tools endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  output.LoggerPort
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	Logger  output.LoggerPort
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpclient.New(timeout, cfg.Logger, "x-api-key"),
		logger:  cfg.Logger,
	}
}

type toolShedRepository struct {
	Owner string `json:"owner"`
}

type tool struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Version            string              `json:"version"`
	Owner              string              `json:"owner"`
	ToolShedRepository *toolShedRepository `json:"tool_shed_repository"`
}

func (t tool) entry() entity.CatalogEntry {
	owner := t.Owner
	if owner == "" && t.ToolShedRepository != nil {
		owner = t.ToolShedRepository.Owner
	}
	return entity.CatalogEntry{
		ID:          t.ID,
		Name:        CleanText(t.Name),
		Description: CleanText(t.Description),
		Version:     t.Version,
		Owner:       owner,
	}
}

// ListTools fetches the flat (not panel-grouped) tool list.
func (c *Client) ListTools(ctx context.Context) ([]entity.CatalogEntry, error) {
	endpoint := c.baseURL + "/api/tools?" + url.Values{"in_panel": {"false"}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch galaxy tools: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("galaxy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tools []tool
	if err := json.NewDecoder(resp.Body).Decode(&tools); err != nil {
		return nil, fmt.Errorf("decode galaxy tools: %w", err)
	}

	entries := make([]entity.CatalogEntry, 0, len(tools))
	for _, t := range tools {
		entries = append(entries, t.entry())
	}

	if c.logger != nil {
		c.logger.Info("Fetched Galaxy tools", "count", len(entries), "url", c.baseURL)
	}
	return entries, nil
}
