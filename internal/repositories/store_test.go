package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/learn2earn/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type persistCall struct {
	backend string
	err     error
}

type fakeRecorder struct{ calls []persistCall }

func (f *fakeRecorder) RecordPersist(backend string, err error) {
	f.calls = append(f.calls, persistCall{backend, err})
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	err := s.Update(context.Background(), func(tx *Tx) error {
		tx.CreateUser(&models.User{Email: "a@b.com", Password: "pw", DisplayName: "a", WalletAddress: "0x1"})
		w := tx.CreateWallet("0x1")
		w.Balance = 5
		w.Tokens = append(w.Tokens, models.EarnedToken{CourseID: "c1", TokenValue: 30})
		w.RecomputeResumeValue()
		tx.CreateSession("token-1", "a@b.com")
		tx.SeedCourses([]models.Course{{ID: "c1", Title: "JavaScript Basics", Type: models.CourseTypeVideo}})
		tx.AppendTransaction(models.Transaction{From: models.SystemAddress, To: "0x1", Type: models.TxTypeRegister})
		return nil
	})
	require.NoError(t, err)
}

func TestStore_RoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	log := zap.NewNop()

	s := Open(context.Background(), NewFileBackend(path), nil, log)
	seed(t, s)
	want, err := s.Snapshot()
	require.NoError(t, err)

	reopened := Open(context.Background(), NewFileBackend(path), nil, log)
	got, err := reopened.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	var email string
	require.NoError(t, reopened.View(func(tx *Tx) error {
		email, _ = tx.SessionEmail("token-1")
		return nil
	}))
	assert.Equal(t, "a@b.com", email)
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	s := Open(context.Background(), NewFileBackend(filepath.Join(t.TempDir(), "none.json")), nil, zap.NewNop())

	db, err := s.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, db.Users)
	assert.Empty(t, db.Courses)
	assert.NotNil(t, db.Transactions)
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := Open(context.Background(), NewFileBackend(path), nil, zap.NewNop())
	db, err := s.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, db.Users)
}

func TestStore_PartialDocumentIsNormalized(t *testing.T) {
	b := NewMemoryBackend()
	b.SetRaw([]byte(`{"users":{"a@b.com":{"email":"a@b.com","walletAddress":"0x1"}},"wallets":{"0x1":{"walletAddress":"0x1"}}}`))

	s := Open(context.Background(), b, nil, zap.NewNop())
	require.NoError(t, s.View(func(tx *Tx) error {
		w, ok := tx.GetWallet("0x1")
		require.True(t, ok)
		assert.NotNil(t, w.Tokens)
		assert.Empty(t, tx.Courses())
		assert.Empty(t, tx.TransactionsFor("0x1"))
		return nil
	}))

	// Sessions map was missing; creating one must not panic.
	require.NoError(t, s.Update(context.Background(), func(tx *Tx) error {
		tx.CreateSession("t", "a@b.com")
		return nil
	}))
}

func TestStore_NullEntriesAreDropped(t *testing.T) {
	b := NewMemoryBackend()
	b.SetRaw([]byte(`{"users":{"a@b.com":null,"c@d.com":{"email":"c@d.com","walletAddress":"0x2"}},"wallets":{"0xabc":null,"0x2":{"walletAddress":"0x2"}}}`))

	var s *Store
	require.NotPanics(t, func() { s = Open(context.Background(), b, nil, zap.NewNop()) })
	require.NoError(t, s.View(func(tx *Tx) error {
		_, ok := tx.GetUser("a@b.com")
		assert.False(t, ok)
		_, ok = tx.GetWallet("0xabc")
		assert.False(t, ok)

		u, ok := tx.GetUser("c@d.com")
		require.True(t, ok)
		assert.Equal(t, "0x2", u.WalletAddress)
		w, ok := tx.GetWallet("0x2")
		require.True(t, ok)
		assert.NotNil(t, w.Tokens)
		return nil
	}))
}

func TestStore_FailedUpdateDoesNotPersist(t *testing.T) {
	b := NewMemoryBackend()
	s := Open(context.Background(), b, nil, zap.NewNop())

	boom := errors.New("boom")
	err := s.Update(context.Background(), func(tx *Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, b.Saves())
}

func TestStore_PersistFailureIsSwallowed(t *testing.T) {
	b := NewMemoryBackend()
	rec := &fakeRecorder{}
	s := Open(context.Background(), b, rec, zap.NewNop())
	b.SetSaveErr(errors.New("disk full"))

	err := s.Update(context.Background(), func(tx *Tx) error {
		tx.CreateSession("t", "a@b.com")
		return nil
	})
	require.NoError(t, err)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "memory", rec.calls[0].backend)
	assert.Error(t, rec.calls[0].err)

	// The in-memory change stands and Flush reports the error.
	require.NoError(t, s.View(func(tx *Tx) error {
		assert.True(t, tx.HasSession("t"))
		return nil
	}))
	assert.Error(t, s.Flush(context.Background()))

	b.SetSaveErr(nil)
	assert.NoError(t, s.Flush(context.Background()))
}

func TestAppendTransaction_ClampsTimestamps(t *testing.T) {
	s := Open(context.Background(), NewMemoryBackend(), nil, zap.NewNop())

	base := time.UnixMilli(1_700_000_000_000)
	times := []time.Time{base, base.Add(-time.Hour), base.Add(time.Second)}
	i := 0
	s.SetClock(func() time.Time { return times[i] })

	var got []models.Transaction
	for i = range times {
		require.NoError(t, s.Update(context.Background(), func(tx *Tx) error {
			got = append(got, tx.AppendTransaction(models.Transaction{Type: models.TxTypeTransfer}))
			return nil
		}))
	}

	require.Len(t, got, 3)
	assert.Equal(t, base.UnixMilli(), got[0].Timestamp)
	assert.Equal(t, base.UnixMilli(), got[1].Timestamp, "clock went backwards")
	assert.Equal(t, base.Add(time.Second).UnixMilli(), got[2].Timestamp)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestSeedCourses_OnlyWhenEmpty(t *testing.T) {
	s := Open(context.Background(), NewMemoryBackend(), nil, zap.NewNop())

	require.NoError(t, s.Update(context.Background(), func(tx *Tx) error {
		assert.True(t, tx.SeedCourses([]models.Course{{ID: "c1"}}))
		assert.False(t, tx.SeedCourses([]models.Course{{ID: "c2"}, {ID: "c3"}}))
		return nil
	}))

	require.NoError(t, s.View(func(tx *Tx) error {
		assert.Len(t, tx.Courses(), 1)
		_, ok := tx.GetCourse("c2")
		assert.False(t, ok)
		return nil
	}))
}

func TestSessionEmail_IgnoresUnknownUser(t *testing.T) {
	s := Open(context.Background(), NewMemoryBackend(), nil, zap.NewNop())
	require.NoError(t, s.Update(context.Background(), func(tx *Tx) error {
		tx.CreateSession("orphan", "ghost@b.com")
		return nil
	}))

	require.NoError(t, s.View(func(tx *Tx) error {
		_, ok := tx.SessionEmail("orphan")
		assert.False(t, ok)
		return nil
	}))
}
