package audit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposal-service/internal/common/database"
	"proposal-service/internal/common/logger"
)

func newTestTrail(t *testing.T, handler http.HandlerFunc) *Trail {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	return NewTrail(&database.ElasticsearchClient{Client: client}, logger.NewTestLogger(t))
}

func TestRecordIndexesEvent(t *testing.T) {
	indexed := make(chan Event, 1)
	trail := newTestTrail(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/"+indexName+"/"))
		body, _ := io.ReadAll(r.Body)
		var event Event
		require.NoError(t, json.Unmarshal(body, &event))
		indexed <- event
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"created"}`))
	})

	trail.Record(Event{
		Type:       EventGenerated,
		ProposalID: "prop_1",
		Theme:      "modern",
		Filename:   "proposal-acme-AB12CD34.html",
	})

	select {
	case event := <-indexed:
		assert.Equal(t, EventGenerated, event.Type)
		assert.Equal(t, "prop_1", event.ProposalID)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event was never indexed")
	}
}

func TestRecordSwallowsIndexErrors(t *testing.T) {
	done := make(chan struct{}, 1)
	trail := newTestTrail(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		http.Error(w, `{"error":"index unavailable"}`, http.StatusServiceUnavailable)
		done <- struct{}{}
	})

	assert.NotPanics(t, func() {
		trail.Record(Event{Type: EventFailed, ProposalID: "prop_1"})
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("index request never arrived")
	}
}

func TestRecordWithoutClientIsNoOp(t *testing.T) {
	trail := NewTrail(nil, logger.NewNoOpLogger())
	assert.NotPanics(t, func() {
		trail.Record(Event{Type: EventGenerated, ProposalID: "prop_1"})
	})

	var nilTrail *Trail
	assert.NotPanics(t, func() {
		nilTrail.Record(Event{Type: EventGenerated})
	})
}
