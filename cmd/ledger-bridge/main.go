package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/learn2earn/backend/internal/config"
	"github.com/learn2earn/backend/internal/db"
	"github.com/learn2earn/backend/internal/events"
	"go.uber.org/zap"
)

// Ledger Bridge: subscribes to the ledger event stream in redis and POSTs
// every event to LEDGER_WEBHOOK_URL.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if cfg.RedisURL == "" {
		log.Fatal("REDIS_URL is required")
	}
	if cfg.LedgerWebhookURL == "" {
		log.Fatal("LEDGER_WEBHOOK_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)
	fwd := &forwarder{
		url:    cfg.LedgerWebhookURL,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log,
	}

	if err := subscriber.Subscribe(ctx, events.StreamLedger, func(event events.Event) {
		fwd.forward(ctx, event)
	}); err != nil {
		log.Fatal("failed to subscribe", zap.String("stream", events.StreamLedger), zap.Error(err))
	}

	log.Info("ledger-bridge started", zap.String("stream", events.StreamLedger))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down ledger-bridge")
	cancel()
}

type forwarder struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

// forward delivers one event. Failures are logged and the event is dropped.
func (f *forwarder) forward(ctx context.Context, event events.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		f.log.Warn("failed to encode event", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		f.log.Warn("failed to build webhook request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Warn("failed to forward ledger event", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.log.Warn("webhook returned non-2xx", zap.Int("status", resp.StatusCode))
		return
	}
	f.log.Debug("ledger event forwarded", zap.Any("tx_id", event.Payload["id"]))
}
