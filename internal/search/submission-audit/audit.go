// Package submissionaudit writes one Elasticsearch document per finished
// submission attempt. Documents hold counts and ids only, never search terms.
package submissionaudit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"records-search/internal/common/errors"
	"records-search/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
)

// Outcome describes one submission attempt.
type Outcome struct {
	SessionID     string    `json:"sessionId"`
	Attempt       int       `json:"attempt"`
	Mode          string    `json:"mode"`
	TermCount     int       `json:"termCount"`
	Jurisdictions []int     `json:"jurisdictions"`
	Status        string    `json:"status"`
	ErrorCode     string    `json:"errorCode,omitempty"`
	DurationMs    int64     `json:"durationMs"`
	Timestamp     time.Time `json:"@timestamp"`
}

// DocumentID is unique per session attempt so replays overwrite, not duplicate.
func (o Outcome) DocumentID() string {
	return fmt.Sprintf("%s-%d", o.SessionID, o.Attempt)
}

// Recorder persists submission outcomes.
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// ElasticsearchRecorder indexes outcomes into a single index.
type ElasticsearchRecorder struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticsearchRecorder(client *elasticsearch.Client, index string, log logger.Logger) *ElasticsearchRecorder {
	return &ElasticsearchRecorder{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "submission-audit", "index": index}),
	}
}

func (r *ElasticsearchRecorder) Record(ctx context.Context, outcome Outcome) error {
	if outcome.Timestamp.IsZero() {
		outcome.Timestamp = time.Now().UTC()
	}
	if outcome.Jurisdictions == nil {
		outcome.Jurisdictions = []int{}
	}

	body, err := json.Marshal(outcome)
	if err != nil {
		return errors.NewAuditWriteFailedError(r.index, err)
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(body),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithDocumentID(outcome.DocumentID()),
	)
	if err != nil {
		return errors.NewAuditWriteFailedError(r.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return errors.NewAuditWriteFailedError(r.index, fmt.Errorf("%s: %s", res.Status(), bytes.TrimSpace(detail)))
	}

	r.logger.Debug("Recorded submission outcome", map[string]interface{}{
		"documentId": outcome.DocumentID(),
		"status":     outcome.Status,
	})
	return nil
}

// NopRecorder discards outcomes; used when auditing is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Outcome) error { return nil }
