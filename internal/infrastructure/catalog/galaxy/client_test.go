package galaxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListTools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tools", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("in_panel"))
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"toolshed.g2.bx.psu.edu/repos/devteam/bwa/bwa_mem/0.7.17","name":"Map with BWA-MEM","description":"- map medium and long reads","version":"0.7.17","tool_shed_repository":{"owner":"devteam","name":"bwa"}},
			{"id":"upload1","name":"Upload File","description":"from your computer &amp; the web","version":"1.1.7","owner":"core"},
			{"id":"cat1","name":"Concatenate","version":"1.0.0"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(Config{URL: srv.URL + "/", APIKey: "key"})
	tools, err := c.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 3)

	assert.Equal(t, "devteam", tools[0].Owner)
	assert.Equal(t, "Map with BWA-MEM", tools[0].Name)
	assert.Equal(t, "from your computer & the web", tools[1].Description)
	assert.Equal(t, "core", tools[1].Owner)
	assert.Empty(t, tools[2].Owner)
	assert.Empty(t, tools[2].Description)
}

func TestClient_ListToolsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err_msg":"Provided API key is not valid."}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(Config{URL: srv.URL}).ListTools(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_ListToolsBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{URL: srv.URL}).ListTools(context.Background())
	assert.Error(t, err)
}
