package repositories

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/learn2earn/backend/internal/models"
)

// MemoryBackend keeps the encoded document in memory. Nothing survives the
// process; it backs tests and STORE_BACKEND=memory.
type MemoryBackend struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	saveErr error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Load(_ context.Context) (*models.Database, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return nil, ErrNoSnapshot
	}
	db := models.NewDatabase()
	if err := json.Unmarshal(b.data, db); err != nil {
		return nil, err
	}
	return db, nil
}

func (b *MemoryBackend) Save(_ context.Context, db *models.Database) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.saves++
	if b.saveErr != nil {
		return b.saveErr
	}
	data, err := json.Marshal(db)
	if err != nil {
		return err
	}
	b.data = data
	return nil
}

// SetSaveErr makes every following Save fail with err (nil restores).
func (b *MemoryBackend) SetSaveErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saveErr = err
}

// Saves counts Save calls, failed ones included.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

// SetRaw replaces the stored bytes, e.g. with a corrupt document.
func (b *MemoryBackend) SetRaw(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = data
}
