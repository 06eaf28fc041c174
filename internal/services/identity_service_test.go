package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/learn2earn/backend/internal/events"
	"github.com/learn2earn/backend/internal/models"
	"github.com/learn2earn/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	backend  *repositories.MemoryBackend
	store    *repositories.Store
	bus      *events.LocalBus
	identity *IdentityService
	wallets  *WalletService
	courses  *CourseService
	resumes  *ResumeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	backend := repositories.NewMemoryBackend()
	store := repositories.Open(context.Background(), backend, nil, log)
	bus := events.NewLocalBus()
	hooks := NewLedgerHooks(bus, nil, log)
	certifier := newTestCertifier()

	env := &testEnv{
		backend:  backend,
		store:    store,
		bus:      bus,
		identity: NewIdentityService(store, hooks, nil, log),
		wallets:  NewWalletService(store, hooks, certifier, 2, log),
		courses:  NewCourseService(store, hooks, certifier, log),
		resumes:  NewResumeService(store, log),
	}
	require.NoError(t, env.courses.Bootstrap(context.Background(), DefaultCatalog()))
	return env
}

func (e *testEnv) register(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := e.identity.Register(context.Background(), email, "pw123", "")
	require.NoError(t, err)
	return res
}

func (e *testEnv) snapshot(t *testing.T) *models.Database {
	t.Helper()
	db, err := e.store.Snapshot()
	require.NoError(t, err)
	return db
}

func TestRegister_CreatesUserWalletAndMarker(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.identity.Register(context.Background(), "a@b.com", "pw123", "")
	require.NoError(t, err)
	assert.Equal(t, "a", res.DisplayName)
	assert.Regexp(t, `^0x[0-9a-f]{40}$`, res.WalletAddress)
	assert.NotEmpty(t, res.Token)

	db := env.snapshot(t)
	require.Contains(t, db.Users, "a@b.com")
	assert.Equal(t, res.WalletAddress, db.Users["a@b.com"].WalletAddress)
	assert.Equal(t, "a@b.com", db.Sessions[res.Token])

	w := db.Wallets[res.WalletAddress]
	require.NotNil(t, w)
	assert.Equal(t, int64(0), w.Balance)
	assert.Empty(t, w.Tokens)

	require.Len(t, db.Transactions, 1)
	tx := db.Transactions[0]
	assert.Equal(t, models.TxTypeRegister, tx.Type)
	assert.Equal(t, models.SystemAddress, tx.From)
	assert.Equal(t, res.WalletAddress, tx.To)
	assert.Equal(t, int64(0), tx.Amount)
	assert.NotEmpty(t, tx.ID)
}

func TestRegister_KeepsDisplayName(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.identity.Register(context.Background(), "a@b.com", "pw123", "  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", res.DisplayName)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name     string
		email    string
		password string
		msg      string
	}{
		{"missing email", "", "pw", "email & password required"},
		{"missing password", "a@b.com", "", "email & password required"},
		{"no at sign", "ab.com", "pw", "invalid email format"},
		{"no dot", "a@bcom", "pw", "invalid email format"},
		{"whitespace", "a b@c.com", "pw", "invalid email format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.identity.Register(context.Background(), tc.email, tc.password, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, tc.msg, err.Error())
		})
	}

	assert.Empty(t, env.snapshot(t).Users)
	assert.Empty(t, env.snapshot(t).Transactions)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@b.com")

	_, err := env.identity.Register(context.Background(), "a@b.com", "other", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "user exists, please login", err.Error())

	db := env.snapshot(t)
	assert.Len(t, db.Users, 1)
	assert.Len(t, db.Wallets, 1)
	assert.Len(t, db.Transactions, 1)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register(t, "a@b.com")
	sessionsBefore := len(env.snapshot(t).Sessions)

	_, err := env.identity.Login(context.Background(), "a@b.com", "wrongpw")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "invalid credentials", err.Error())
	assert.Len(t, env.snapshot(t).Sessions, sessionsBefore)

	_, err = env.identity.Login(context.Background(), "nobody@b.com", "pw123")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = env.identity.Login(context.Background(), "a@b.com", "")
	assert.True(t, errors.Is(err, ErrValidation))

	res, err := env.identity.Login(context.Background(), "a@b.com", "pw123")
	require.NoError(t, err)
	assert.NotEqual(t, reg.Token, res.Token)
	assert.Equal(t, reg.WalletAddress, res.WalletAddress)

	// Both tokens resolve.
	for _, tok := range []string{reg.Token, res.Token} {
		email, err := env.identity.Authenticate(tok)
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", email)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@b.com")

	for _, tok := range []string{"", "bogus", "token-deadbeef"} {
		_, err := env.identity.Authenticate(tok)
		assert.True(t, errors.Is(err, ErrUnauthorized), tok)
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register(t, "a@b.com")

	p, err := env.identity.Me("a@b.com")
	require.NoError(t, err)
	assert.Equal(t, models.Profile{Email: "a@b.com", DisplayName: "a", WalletAddress: reg.WalletAddress}, *p)

	_, err = env.identity.Me("x@y.com")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegister_PersistFailureIsSwallowed(t *testing.T) {
	env := newTestEnv(t)
	env.backend.SetSaveErr(errors.New("disk full"))

	res, err := env.identity.Register(context.Background(), "a@b.com", "pw123", "")
	require.NoError(t, err)

	email, err := env.identity.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)
}

func TestRegister_PublishesLedgerEvent(t *testing.T) {
	env := newTestEnv(t)

	got := make(chan events.Event, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, env.bus.Subscribe(ctx, events.StreamLedger, func(e events.Event) { got <- e }))

	res := env.register(t, "a@b.com")

	select {
	case e := <-got:
		assert.Equal(t, events.EventTransactionAppended, e.Type)
		assert.True(t, e.Touches(res.WalletAddress))
		assert.Equal(t, models.TxTypeRegister, e.Payload["type"])
	case <-time.After(time.Second):
		t.Fatal("no ledger event")
	}
}

func TestLogin_NullUserInSnapshot(t *testing.T) {
	backend := repositories.NewMemoryBackend()
	backend.SetRaw([]byte(`{"users":{"a@b.com":null},"wallets":{}}`))
	store := repositories.Open(context.Background(), backend, nil, zap.NewNop())
	identity := NewIdentityService(store, NewLedgerHooks(events.NewLocalBus(), nil, zap.NewNop()), nil, zap.NewNop())

	var err error
	require.NotPanics(t, func() { _, err = identity.Login(context.Background(), "a@b.com", "pw123") })
	assert.True(t, errors.Is(err, ErrUnauthorized))
}
