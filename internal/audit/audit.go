// Package audit records generation events in Elasticsearch for later search
// and reporting. Indexing is fire-and-forget: an unavailable audit index must
// never fail or slow down a generation request.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"proposal-service/internal/common/database"
	"proposal-service/internal/common/logger"
)

const (
	indexName      = "proposal-generation-events"
	indexTimeout   = 5 * time.Second
	EventGenerated = "proposal.document.generated"
	EventFailed    = "proposal.document.failed"
	EventSent      = "proposal.document.sent"
)

// Event is one audit record.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ProposalID string    `json:"proposal_id"`
	Theme      string    `json:"theme,omitempty"`
	Filename   string    `json:"filename,omitempty"`
	ErrorCode  string    `json:"error_code,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Trail indexes audit events. A nil Trail or a Trail without a client is a
// no-op, so callers never need to guard their Record calls.
type Trail struct {
	es     *database.ElasticsearchClient
	logger logger.Logger
}

func NewTrail(es *database.ElasticsearchClient, log logger.Logger) *Trail {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Trail{es: es, logger: log}
}

// Record indexes one event asynchronously. The caller's context is not used:
// the request finishing must not cancel the audit write.
func (t *Trail) Record(event Event) {
	if t == nil || t.es == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	go t.index(event)
}

func (t *Trail) index(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	res, err := t.es.Client.Index(
		indexName,
		bytes.NewReader(body),
		t.es.Client.Index.WithDocumentID(event.ID),
		t.es.Client.Index.WithContext(ctx),
	)
	if err != nil {
		t.logger.Warn("Audit event indexing failed", map[string]interface{}{
			"event_type":  event.Type,
			"proposal_id": event.ProposalID,
			"error":       err.Error(),
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		t.logger.Warn("Audit event rejected by index", map[string]interface{}{
			"event_type":  event.Type,
			"proposal_id": event.ProposalID,
			"status":      res.Status(),
		})
	}
}
