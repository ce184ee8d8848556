package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"galaxy-recommender/internal/application/port/output"
)

const maxLoggedBody = 2048

// LoggingTransport logs every outbound request and its outcome at DEBUG.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger output.LoggerPort
	// RedactHeaders are replaced with "***" in logs.
	RedactHeaders []string
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Logger == nil {
		return base.RoundTrip(req)
	}

	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, _ = io.ReadAll(req.Body)
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	headers := make(map[string]string, len(req.Header))
	for k := range req.Header {
		headers[k] = req.Header.Get(k)
	}
	for _, h := range t.RedactHeaders {
		if _, ok := headers[http.CanonicalHeaderKey(h)]; ok {
			headers[http.CanonicalHeaderKey(h)] = "***"
		}
	}

	t.Logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"headers", headers,
		"body", truncate(string(bodyBytes), maxLoggedBody),
	)

	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		t.Logger.Debug("HTTP Request failed", "url", req.URL.String(), "error", err, "durationMs", time.Since(start).Milliseconds())
		return resp, err
	}

	t.Logger.Debug("HTTP Response",
		"status", resp.Status,
		"statusCode", resp.StatusCode,
		"durationMs", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// New returns a client with timeout whose transport logs through logger.
func New(timeout time.Duration, logger output.LoggerPort, redact ...string) *http.Client {
	redact = append([]string{"Authorization"}, redact...)
	return &http.Client{
		Timeout: timeout,
		Transport: &LoggingTransport{
			Base:          http.DefaultTransport,
			Logger:        logger,
			RedactHeaders: redact,
		},
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
