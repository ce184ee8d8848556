package httpclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"galaxy-recommender/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingTransport_RedactsAndPreservesBody(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		received = string(data)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	client := New(time.Second, logger.NewFromZap(zap.New(core)), "x-api-key")

	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{"q":1}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("x-api-key", "secret2")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, `{"q":1}`, received)
	require.Equal(t, 2, logs.Len())

	headers, ok := logs.All()[0].ContextMap()["headers"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "***", headers["Authorization"])
	assert.Equal(t, "***", headers["X-Api-Key"])
	assert.Equal(t, int64(http.StatusAccepted), logs.All()[1].ContextMap()["statusCode"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
