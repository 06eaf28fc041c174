package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/learn2earn/backend/internal/models"
	"go.uber.org/zap"
)

// ErrNoSnapshot is returned by a backend that has never been written to.
var ErrNoSnapshot = errors.New("no snapshot stored")

// SnapshotBackend durably keeps the whole store document.
type SnapshotBackend interface {
	Name() string
	Load(ctx context.Context) (*models.Database, error)
	Save(ctx context.Context, db *models.Database) error
}

// PersistRecorder observes snapshot writes. err is nil on success.
type PersistRecorder interface {
	RecordPersist(backend string, err error)
}

// Store owns the in-memory document. Every View and Update runs under one lock,
// and an Update holds it through the snapshot write, so operations are applied
// one at a time in arrival order.
type Store struct {
	mu       sync.Mutex
	db       *models.Database
	backend  SnapshotBackend
	recorder PersistRecorder
	clock    func() time.Time
	log      *zap.Logger
}

// Open loads the document from backend. Any load failure falls back to an
// empty document; it is logged, never returned.
func Open(ctx context.Context, backend SnapshotBackend, recorder PersistRecorder, log *zap.Logger) *Store {
	db, err := backend.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		log.Info("no stored snapshot, starting empty", zap.String("backend", backend.Name()))
		db = models.NewDatabase()
	case err != nil:
		log.Warn("could not load snapshot, starting empty",
			zap.String("backend", backend.Name()),
			zap.Error(err),
		)
		db = models.NewDatabase()
	default:
		db.Normalize()
		log.Info("snapshot loaded",
			zap.String("backend", backend.Name()),
			zap.Int("users", len(db.Users)),
			zap.Int("transactions", len(db.Transactions)),
		)
	}

	return &Store{
		db:       db,
		backend:  backend,
		recorder: recorder,
		clock:    time.Now,
		log:      log,
	}
}

// SetClock replaces the time source used for ledger timestamps.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// View runs fn against the document without persisting. fn must not mutate.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{db: s.db, now: s.clock})
}

// Update runs fn and, if it succeeds, persists the document best-effort.
// fn must finish all validation before it mutates anything: a returned error
// does not roll back changes already applied.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(&Tx{db: s.db, now: s.clock}); err != nil {
		return err
	}
	s.persistLocked(ctx)
	return nil
}

// Flush writes the document and reports the error, unlike Update.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// Snapshot returns a deep copy of the document.
func (s *Store) Snapshot() (*models.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.db)
	if err != nil {
		return nil, err
	}
	out := models.NewDatabase()
	if err := json.Unmarshal(data, out); err != nil {
		return nil, err
	}
	out.Normalize()
	return out, nil
}

func (s *Store) persistLocked(ctx context.Context) {
	if err := s.saveLocked(ctx); err != nil {
		s.log.Warn("persist failed", zap.String("backend", s.backend.Name()), zap.Error(err))
	}
}

func (s *Store) saveLocked(ctx context.Context) error {
	err := s.backend.Save(ctx, s.db)
	if s.recorder != nil {
		s.recorder.RecordPersist(s.backend.Name(), err)
	}
	return err
}
