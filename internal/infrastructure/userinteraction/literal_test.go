package userinteraction

import (
	"encoding/json"
	"testing"

	"galaxy-recommender/internal/domain/entity"
	"galaxy-recommender/internal/usecase/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatToolData_ReformatsSearchOutput(t *testing.T) {
	summaries := []entity.ToolSummary{
		{Name: "bwa", Description: "bwa. map reads", Version: "0.7", Owner: "devteam"},
		{Name: "cutadapt", Description: `it's "fast"` + "\n", Version: "4.4", Owner: `lp\sons`},
	}

	got, isJSON := formatToolData(search.Render(summaries))
	require.True(t, isJSON, got)

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, []map[string]string{
		{"name": "bwa", "description": "bwa. map reads", "version": "0.7", "owner": "devteam"},
		{"name": "cutadapt", "description": "it's \"fast\"\n", "version": "4.4", "owner": `lp\sons`},
	}, decoded)
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"scalars", `[1, -2.5, True, False, None]`, `[1,-2.5,true,false,null]`},
		{"tuple and nesting", `{'a': (1, 'x'), "b": {'c': []}}`, `{"a":[1,"x"],"b":{"c":[]}}`},
		{"keeps key order", `{'z': 1, 'a': 2}`, `{"z":1,"a":2}`},
		{"trailing comma", `['a', 'b',]`, `["a","b"]`},
		{"escapes", `'\x41é\'\\'`, `"Aé'\\"`},
		{"numeric key", `{1: 'one'}`, `{"1":"one"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parseLiteral(tt.in)
			require.NoError(t, err)
			data, err := json.Marshal(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestParseLiteral_Rejects(t *testing.T) {
	for _, in := range []string{"", "[1, 2", "{'a' 1}", "'open", "[Name:bwa]", "1 2", "hello"} {
		_, err := parseLiteral(in)
		assert.Error(t, err, in)
	}
}
