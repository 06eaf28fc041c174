package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/learn2earn/backend/internal/config"
	"github.com/learn2earn/backend/internal/db"
	"github.com/learn2earn/backend/internal/models"
	"github.com/learn2earn/backend/internal/repositories"
	"github.com/learn2earn/backend/internal/services"
	"go.uber.org/zap"
)

// Ledger Audit: reads the persisted snapshot without touching it and checks
// that balances, tokens and resume values agree with the ledger. With
// AUDIT_INTERVAL_MINUTES=0 it runs once and exits 1 when issues are found.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, closeBackend, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open snapshot backend", zap.Error(err))
	}
	defer closeBackend()

	if cfg.AuditInterval == 0 {
		report, err := runAudit(ctx, backend, log)
		if err != nil {
			log.Fatal("audit failed", zap.Error(err))
		}
		_ = json.NewEncoder(os.Stdout).Encode(report)
		if !report.OK() {
			log.Sync()
			os.Exit(1)
		}
		return
	}

	log.Info("ledger audit started", zap.Duration("interval", cfg.AuditInterval))

	// Initial run
	_, _ = runAudit(ctx, backend, log)

	ticker := time.NewTicker(cfg.AuditInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			_, _ = runAudit(ctx, backend, log)
		case <-sigCh:
			log.Info("shutting down ledger audit")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (repositories.SnapshotBackend, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresBackend(pool, cfg.StoreSnapshotKey), pool.Close, nil
	default:
		return repositories.NewFileBackend(cfg.DBFile), func() {}, nil
	}
}

func runAudit(ctx context.Context, backend repositories.SnapshotBackend, log *zap.Logger) (*models.LedgerAudit, error) {
	snapshot, err := backend.Load(ctx)
	if err != nil {
		log.Error("failed to load snapshot", zap.String("backend", backend.Name()), zap.Error(err))
		return nil, err
	}
	snapshot.Normalize()

	report := services.AuditLedger(snapshot)
	fields := []zap.Field{
		zap.String("backend", backend.Name()),
		zap.Int("users", report.Users),
		zap.Int("transactions", report.Transactions),
		zap.Int64("minted", report.Minted),
		zap.Int64("total_balance", report.TotalBalance),
		zap.Int("issues", len(report.Issues)),
	}
	if report.OK() {
		log.Info("ledger audit passed", fields...)
	} else {
		log.Warn("ledger audit found issues", fields...)
		for _, is := range report.Issues {
			log.Warn("ledger issue",
				zap.String("kind", is.Kind),
				zap.String("subject", is.Subject),
				zap.String("detail", is.Detail),
			)
		}
	}
	return report, nil
}
