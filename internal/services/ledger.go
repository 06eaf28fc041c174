package services

import (
	"context"

	"github.com/learn2earn/backend/internal/events"
	"github.com/learn2earn/backend/internal/metrics"
	"github.com/learn2earn/backend/internal/models"
	"go.uber.org/zap"
)

// LedgerHooks runs after a transaction is appended and persisted: it counts
// the transaction and publishes it. Publish failures are logged only.
type LedgerHooks struct {
	publisher events.Publisher
	metrics   metrics.Recorder
	log       *zap.Logger
}

func NewLedgerHooks(publisher events.Publisher, rec metrics.Recorder, log *zap.Logger) *LedgerHooks {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &LedgerHooks{publisher: publisher, metrics: rec, log: log}
}

func (h *LedgerHooks) announce(ctx context.Context, txs ...models.Transaction) {
	for _, tx := range txs {
		h.metrics.RecordTransaction(tx.Type, tx.Amount)
		if h.publisher == nil {
			continue
		}
		if err := h.publisher.Publish(ctx, events.StreamLedger, events.TransactionEvent(tx)); err != nil {
			h.log.Warn("failed to publish ledger event",
				zap.String("tx_id", tx.ID),
				zap.String("type", tx.Type),
				zap.Error(err),
			)
		}
	}
}
