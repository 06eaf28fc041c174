package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learn2earn/backend/internal/events"
	"github.com/learn2earn/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestForwarder_PostsEvent(t *testing.T) {
	var got events.Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	fwd := &forwarder{url: srv.URL, client: srv.Client(), log: zap.NewNop()}
	fwd.forward(context.Background(), events.TransactionEvent(models.Transaction{
		ID:   "tx-1",
		From: models.SystemAddress,
		To:   "0xabc",
		Type: models.TxTypeReward,
	}))

	assert.Equal(t, events.EventTransactionAppended, got.Type)
	assert.Equal(t, "tx-1", got.Payload["id"])
	assert.True(t, got.Touches("0xabc"))
}

func TestForwarder_ToleratesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	url := srv.URL
	srv.Close()

	fwd := &forwarder{url: url, client: http.DefaultClient, log: zap.NewNop()}
	assert.NotPanics(t, func() {
		fwd.forward(context.Background(), events.Event{Type: "x"})
	})
}
