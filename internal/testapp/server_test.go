// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package testapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatClient struct {
	generateErr error
	probeErr    error
	generated   []string
}

func (c *stubChatClient) Generate(ctx context.Context, query string, maxTokens int64) (*Reply, error) {
	c.generated = append(c.generated, query)
	if c.generateErr != nil {
		return nil, c.generateErr
	}
	return &Reply{
		Content:  "stub answer",
		Provider: "azure_openai",
		Model:    "gpt-4o",
		Usage:    Usage{PromptTokens: 12, CompletionTokens: 34, TotalTokens: 46},
	}, nil
}

func (c *stubChatClient) Probe(ctx context.Context) error {
	return c.probeErr
}

func newTestServer(chat ChatClient) *Server {
	return NewServer(":0", chat, zerolog.Nop())
}

func do(t *testing.T, s *Server, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHomeServesEmbeddedPage(t *testing.T) {
	s := newTestServer(&stubChatClient{})

	rec := do(t, s, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "James Hardie")
}

func TestHealthHealthy(t *testing.T) {
	s := newTestServer(&stubChatClient{})

	rec := do(t, s, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, true, payload["model_available"])
}

func TestHealthDegradedWhenProbeFails(t *testing.T) {
	s := newTestServer(&stubChatClient{probeErr: fmt.Errorf("endpoint unreachable")})

	rec := do(t, s, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "degraded", payload["status"])
	assert.Equal(t, false, payload["model_available"])
}

func TestQueryRequiresBody(t *testing.T) {
	s := newTestServer(&stubChatClient{})

	rec := do(t, s, http.MethodPost, "/api/query", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/query", `{"query": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty query", decodeBody(t, rec)["error"])
}

func TestQueryForwardsToModel(t *testing.T) {
	chat := &stubChatClient{}
	s := newTestServer(chat)

	rec := do(t, s, http.MethodPost, "/api/query", `{"query": "What nails should I use near the coast?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "stub answer", payload["content"])
	assert.Equal(t, "azure_openai", payload["provider"])

	usage, ok := payload["usage"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(46), usage["total_tokens"])

	require.Len(t, chat.generated, 1)
	assert.Contains(t, chat.generated[0], "coast")
}

func TestQueryAnswersFromKnowledgeBaseWithoutModelCall(t *testing.T) {
	chat := &stubChatClient{}
	s := newTestServer(chat)

	rec := do(t, s, http.MethodPost, "/api/query", `{"query": "Tell me about HardieTrim boards"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "knowledge_base", payload["provider"])
	assert.Empty(t, chat.generated, "knowledge-base answers must not reach the model")
}

func TestQueryModelErrorIsReported(t *testing.T) {
	s := newTestServer(&stubChatClient{generateErr: fmt.Errorf("rate limited")})

	rec := do(t, s, http.MethodPost, "/api/query", `{"query": "something the knowledge base cannot answer"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "rate limited")
}

func TestRegressionSweepAllPass(t *testing.T) {
	chat := &stubChatClient{}
	s := newTestServer(chat)

	rec := do(t, s, http.MethodPost, "/api/test", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, float64(len(regressionQueries)), payload["total"])
	assert.Equal(t, float64(len(regressionQueries)), payload["passed"])
	assert.Equal(t, float64(0), payload["failed"])
}

func TestRegressionSweepRecordsFailures(t *testing.T) {
	// Knowledge-base queries still pass; only model-forwarded ones fail.
	chat := &stubChatClient{generateErr: fmt.Errorf("deployment gone")}
	s := newTestServer(chat)

	rec := do(t, s, http.MethodPost, "/api/test", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	failed := payload["failed"].(float64)
	assert.Greater(t, failed, float64(0))

	results := payload["results"].([]any)
	require.Len(t, results, len(regressionQueries))
	first := results[0].(map[string]any)
	assert.Equal(t, "passed", first["status"])
}

func TestMetricsCountsRequestsAndErrors(t *testing.T) {
	s := newTestServer(&stubChatClient{generateErr: fmt.Errorf("boom")})

	do(t, s, http.MethodPost, "/api/query", `{"query": "Tell me about HardieTrim boards"}`)
	do(t, s, http.MethodPost, "/api/query", `{"query": "unanswerable"}`)

	rec := do(t, s, http.MethodGet, "/api/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, float64(2), payload["requests_processed"])
	assert.Equal(t, float64(1), payload["error_count"])
	assert.Equal(t, 0.5, payload["error_rate"])
	assert.GreaterOrEqual(t, payload["uptime_seconds"].(float64), 0.0)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(&stubChatClient{})

	rec := do(t, s, http.MethodGet, "/api/query", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
