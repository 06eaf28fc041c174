package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/learn2earn/backend/internal/auth"
	"github.com/learn2earn/backend/internal/metrics"
	"github.com/learn2earn/backend/internal/models"
	"github.com/learn2earn/backend/internal/repositories"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var errCredentialCollision = errors.New("generated credential already in use")

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token         string `json:"token"`
	DisplayName   string `json:"displayName"`
	WalletAddress string `json:"walletAddress"`
}

// IdentityService registers users, logs them in and resolves session tokens.
// Passwords are kept and compared in clear text and sessions never expire.
type IdentityService struct {
	store   *repositories.Store
	hooks   *LedgerHooks
	metrics metrics.Recorder
	log     *zap.Logger
}

func NewIdentityService(store *repositories.Store, hooks *LedgerHooks, rec metrics.Recorder, log *zap.Logger) *IdentityService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &IdentityService{store: store, hooks: hooks, metrics: rec, log: log}
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return validationError("email & password required")
	}
	if !emailPattern.MatchString(email) {
		return validationError("invalid email format")
	}
	return nil
}

// Register creates the user, its wallet and a first session, and records a
// zero-amount register transaction.
func (s *IdentityService) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	address, err := auth.NewWalletAddress()
	if err != nil {
		return nil, err
	}
	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, err
	}

	var tx models.Transaction
	err = s.store.Update(ctx, func(t *repositories.Tx) error {
		if _, exists := t.GetUser(email); exists {
			return conflictError("user exists, please login")
		}
		if t.WalletExists(address) || t.HasSession(token) {
			return errCredentialCollision
		}

		t.CreateUser(&models.User{
			Email:         email,
			Password:      password,
			DisplayName:   name,
			WalletAddress: address,
		})
		t.CreateWallet(address)
		t.CreateSession(token, email)
		tx = t.AppendTransaction(models.Transaction{
			From:   models.SystemAddress,
			To:     address,
			Amount: 0,
			Type:   models.TxTypeRegister,
			Memo:   fmt.Sprintf("account created for %s", email),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRegistration()
	s.hooks.announce(ctx, tx)
	s.log.Info("user registered", zap.String("email", email), zap.String("wallet", address))

	return &AuthResult{Token: token, DisplayName: name, WalletAddress: address}, nil
}

// Login issues a new session token. Earlier tokens of the user stay valid.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		return nil, err
	}

	var result *AuthResult
	err = s.store.Update(ctx, func(t *repositories.Tx) error {
		user, ok := t.GetUser(email)
		if !ok || subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
			return unauthorizedError("invalid credentials")
		}
		if t.HasSession(token) {
			return errCredentialCollision
		}

		t.CreateSession(token, email)
		result = &AuthResult{Token: token, DisplayName: user.DisplayName, WalletAddress: user.WalletAddress}
		return nil
	})
	s.metrics.RecordLogin(err == nil)
	if err != nil {
		return nil, err
	}

	s.log.Debug("user logged in", zap.String("email", email))
	return result, nil
}

// Authenticate resolves a session token to the owner's email.
func (s *IdentityService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", unauthorizedError("unauthorized")
	}

	var email string
	err := s.store.View(func(t *repositories.Tx) error {
		e, ok := t.SessionEmail(token)
		if !ok {
			return unauthorizedError("unauthorized")
		}
		email = e
		return nil
	})
	return email, err
}

func (s *IdentityService) Me(email string) (*models.Profile, error) {
	var p models.Profile
	err := s.store.View(func(t *repositories.Tx) error {
		u, ok := t.GetUser(email)
		if !ok {
			return notFoundError("user not found")
		}
		p = u.Profile()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
