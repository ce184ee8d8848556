package upstash

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
	"galaxy-recommender/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClient_Upsert(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(data, &gotBody))
		w.Write([]byte(`{"result":"Success"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "tok")
	rec := entity.NewVectorRecord(entity.CatalogEntry{ID: "bwa", Name: "BWA", Description: "map reads", Version: "1", Owner: "devteam"})

	require.NoError(t, c.Upsert(context.Background(), rec))

	assert.True(t, strings.HasPrefix(gotPath, "/upsert-data"), gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	require.Len(t, gotBody, 1)
	assert.Equal(t, "bwa", gotBody[0]["id"])
	assert.Equal(t, "BWA. map reads", gotBody[0]["data"])
	assert.Equal(t, "devteam", gotBody[0]["metadata"].(map[string]any)["owner"])
}

func TestClient_UpsertRejectsMissingID(t *testing.T) {
	c := New("http://unused", "tok")
	err := c.Upsert(context.Background(), entity.VectorRecord{Data: "x"})
	assert.Error(t, err)
}

func TestClient_Query(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/query-data"), r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"result":[
			{"id":"bwa","score":0.91,"metadata":{"name":"BWA","version":"0.7.17","owner":"devteam"},"data":"BWA. map reads"},
			{"id":"bare","score":0.5}
		]}`))
	}))
	defer srv.Close()

	hits, err := New(srv.URL, "tok").Query(context.Background(), output.QueryRequest{
		Data: "align reads", TopK: 3, IncludeMetadata: true, IncludeData: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "align reads", got["data"])
	assert.Equal(t, float64(3), got["topK"])
	assert.Equal(t, true, got["includeMetadata"])
	assert.Equal(t, true, got["includeData"])

	require.Len(t, hits, 2)
	assert.Equal(t, "bwa", hits[0].ID)
	assert.InDelta(t, 0.91, hits[0].Score, 1e-6)
	assert.Equal(t, "BWA. map reads", hits[0].Data)
	assert.Equal(t, map[string]any{"name": "BWA", "version": "0.7.17", "owner": "devteam"}, hits[0].Metadata)
	assert.Nil(t, hits[1].Metadata)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized: Invalid auth token","status":401}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "bad").Query(context.Background(), output.QueryRequest{Data: "x", TopK: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid auth token")
}

func TestClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New("http://unused", "tok").Query(ctx, output.QueryRequest{Data: "x", TopK: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewWithLogger_RedactsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[]}`))
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	c := NewWithLogger(srv.URL, "secret-token", time.Second, logger.NewFromZap(zap.New(core)))

	_, err := c.Query(context.Background(), output.QueryRequest{Data: "x", TopK: 1})
	require.NoError(t, err)

	requests := logs.FilterMessage("HTTP Request").All()
	require.NotEmpty(t, requests)
	headers := requests[0].ContextMap()["headers"].(map[string]string)
	assert.Equal(t, "***", headers["Authorization"])
}
