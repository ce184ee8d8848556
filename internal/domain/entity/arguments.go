package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// SerializeArguments renders tool-call arguments as the text stored in
// FunctionCall.Arguments.
func SerializeArguments(args any) string {
	switch v := args.(type) {
	case nil:
		return "{}"
	case string:
		if strings.TrimSpace(v) == "" {
			return "{}"
		}
		return v
	case []byte:
		return string(v)
	case json.RawMessage:
		return string(v)
	}

	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprint(args)
	}
	return string(data)
}

// ParseArguments turns raw tool-call arguments into a mapping. Text that is
// not a JSON object becomes a single free-text query instead of an error.
func ParseArguments(raw any) map[string]any {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out
	case []byte:
		return parseArgumentText(string(v))
	case json.RawMessage:
		return parseArgumentText(string(v))
	case string:
		return parseArgumentText(v)
	}
	return map[string]any{}
}

func parseArgumentText(text string) map[string]any {
	if strings.TrimSpace(text) == "" {
		return map[string]any{}
	}

	var decoded any
	if err := json.Unmarshal(jsonc.ToJSON([]byte(text)), &decoded); err != nil {
		return map[string]any{"query": text}
	}

	switch v := decoded.(type) {
	case map[string]any:
		return v
	case string:
		return map[string]any{"query": v}
	}
	return map[string]any{"query": text}
}

// String returns the first non-empty value among keys, formatted as text.
func (r ToolCallRequest) String(keys ...string) string {
	for _, key := range keys {
		v, ok := r.Args[key]
		if !ok || isEmptyArg(v) {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// Int returns the first non-empty value among keys coerced to a positive
// integer. Non-numeric and non-positive values yield def.
func (r ToolCallRequest) Int(def int, keys ...string) int {
	for _, key := range keys {
		v, ok := r.Args[key]
		if !ok || isEmptyArg(v) {
			continue
		}
		n, ok := coerceInt(v)
		if !ok || n <= 0 {
			return def
		}
		return n
	}
	return def
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		return int(n), !math.IsNaN(float64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		return 0, false
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// isEmptyArg mirrors "falsy" argument values: nil, "", 0 and false fall
// through to the next key or the default.
func isEmptyArg(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case int:
		return x == 0
	}
	return false
}
