package submissionaudit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"records-search/internal/common/errors"
	"records-search/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupElasticsearch(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return client
}

func TestElasticsearchRecorder_Record(t *testing.T) {
	var gotPath string
	var gotDoc map[string]interface{}

	client := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotDoc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	rec := NewElasticsearchRecorder(client, "search-submissions", logger.NewTestLogger(t))
	err := rec.Record(context.Background(), Outcome{
		SessionID:  "abc",
		Attempt:    2,
		Mode:       "batch",
		TermCount:  3,
		Status:     "failed",
		ErrorCode:  "ENGINE_UNREACHABLE",
		DurationMs: 40,
		Timestamp:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "/search-submissions/_doc/abc-2", gotPath)
	assert.Equal(t, "batch", gotDoc["mode"])
	assert.Equal(t, float64(3), gotDoc["termCount"])
	assert.Equal(t, []interface{}{}, gotDoc["jurisdictions"])
	assert.Equal(t, "ENGINE_UNREACHABLE", gotDoc["errorCode"])
	assert.Equal(t, "2024-01-02T03:04:05Z", gotDoc["@timestamp"])
	assert.NotContains(t, gotDoc, "terms")
}

func TestElasticsearchRecorder_ErrorResponse(t *testing.T) {
	client := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"index read-only"}`))
	})

	err := NewElasticsearchRecorder(client, "search-submissions", logger.NewNoOpLogger()).
		Record(context.Background(), Outcome{SessionID: "abc", Attempt: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAuditWriteFailed)
	assert.Contains(t, err.Error(), "index read-only")
}

func TestNopRecorder(t *testing.T) {
	assert.NoError(t, NopRecorder{}.Record(context.Background(), Outcome{}))
}
