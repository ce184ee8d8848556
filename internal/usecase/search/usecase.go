package search

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
)

const DefaultTopK = 5

type UseCase struct {
	index  output.VectorIndex
	logger output.LoggerPort
}

func New(index output.VectorIndex, logger output.LoggerPort) *UseCase {
	return &UseCase{index: index, logger: logger}
}

// Search returns up to topK tool summaries ranked by the index.
func (uc *UseCase) Search(ctx context.Context, query string, topK int) ([]entity.ToolSummary, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	hits, err := uc.index.Query(ctx, output.QueryRequest{
		Data:            query,
		TopK:            topK,
		IncludeMetadata: true,
		IncludeData:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("tool index query failed: %w", err)
	}

	summaries := make([]entity.ToolSummary, 0, len(hits))
	for _, hit := range hits {
		meta := MetadataMap(hit.Metadata)
		summaries = append(summaries, entity.ToolSummary{
			Name:        stringField(meta, "name"),
			Description: hit.Data,
			Version:     stringField(meta, "version"),
			Owner:       stringField(meta, "owner"),
		})
	}

	uc.logger.Debug("Tool search completed", "query", query, "topK", topK, "hits", len(summaries))
	return summaries, nil
}

// Render is the literal-style dump handed back to the model, e.g.
// [{'name': 'bwa', 'description': 'bwa. map', 'version': '1', 'owner': 'devteam'}].
// It is not JSON; readers must tolerate that.
func Render(summaries []entity.ToolSummary) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, s := range summaries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "{'name': %s, 'description': %s, 'version': %s, 'owner': %s}",
			quoteLiteral(s.Name), quoteLiteral(s.Description), quoteLiteral(s.Version), quoteLiteral(s.Owner))
	}
	b.WriteByte(']')
	return b.String()
}

// quoteLiteral single-quotes s, switching to double quotes when s holds a
// single quote but no double quote.
func quoteLiteral(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.WriteRune(q)
	for _, r := range s {
		switch {
		case r == '\\' || r == q:
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)
	return b.String()
}

// MetadataMap normalizes index metadata of any supported shape into a plain
// map. Unrecognized shapes give an empty map.
func MetadataMap(v any) map[string]any {
	switch m := v.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return m
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	case json.RawMessage:
		return decodeObject(m)
	case []byte:
		return decodeObject(m)
	case string:
		return decodeObject([]byte(m))
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return map[string]any{}
	}

	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return map[string]any{}
	}
	return decodeObject(data)
}

func decodeObject(data []byte) map[string]any {
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
