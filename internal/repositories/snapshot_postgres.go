package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learn2earn/backend/internal/models"
)

// PostgresBackend keeps the document as one JSONB row in store_snapshots.
type PostgresBackend struct {
	pool *pgxpool.Pool
	key  string
}

func NewPostgresBackend(pool *pgxpool.Pool, key string) *PostgresBackend {
	return &PostgresBackend{pool: pool, key: key}
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Load(ctx context.Context) (*models.Database, error) {
	var raw []byte
	err := b.pool.QueryRow(ctx, `
		SELECT document FROM store_snapshots WHERE key = $1
	`, b.key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}

	db := models.NewDatabase()
	if err := json.Unmarshal(raw, db); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return db, nil
}

func (b *PostgresBackend) Save(ctx context.Context, db *models.Database) error {
	data, err := json.Marshal(db)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = b.pool.Exec(ctx, `
		INSERT INTO store_snapshots (key, document, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = now()
	`, b.key, string(data))
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}
