package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/learn2earn/backend/internal/auth"
	"github.com/learn2earn/backend/internal/models"
	"github.com/learn2earn/backend/internal/repositories"
	"go.uber.org/zap"
)

const maxMemoLength = 140

type WalletService struct {
	store        *repositories.Store
	hooks        *LedgerHooks
	certifier    *auth.Certifier
	verifyPayout int64
	log          *zap.Logger
}

func NewWalletService(
	store *repositories.Store,
	hooks *LedgerHooks,
	certifier *auth.Certifier,
	verifyPayout int64,
	log *zap.Logger,
) *WalletService {
	return &WalletService{
		store:        store,
		hooks:        hooks,
		certifier:    certifier,
		verifyPayout: verifyPayout,
		log:          log,
	}
}

// ownWallet resolves the wallet of a logged-in user.
func ownWallet(t *repositories.Tx, email string) (*models.User, *models.Wallet, error) {
	user, ok := t.GetUser(email)
	if !ok {
		return nil, nil, notFoundError("user not found")
	}
	w, ok := t.GetWallet(user.WalletAddress)
	if !ok {
		return nil, nil, notFoundError("wallet not found")
	}
	return user, w, nil
}

func (s *WalletService) GetWallet(email string) (*models.Wallet, error) {
	var out *models.Wallet
	err := s.store.View(func(t *repositories.Tx) error {
		_, w, err := ownWallet(t, email)
		if err != nil {
			return err
		}
		out = w.Clone()
		return nil
	})
	return out, err
}

// ListTransactions returns the ledger entries touching the user's wallet, oldest first.
func (s *WalletService) ListTransactions(email string) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.store.View(func(t *repositories.Tx) error {
		user, ok := t.GetUser(email)
		if !ok {
			return notFoundError("user not found")
		}
		out = t.TransactionsFor(user.WalletAddress)
		return nil
	})
	return out, err
}

type TransferResult struct {
	Transaction models.Transaction `json:"transaction"`
	Balance     int64              `json:"balance"`
}

// Transfer moves amount from the user's wallet to toAddress.
func (s *WalletService) Transfer(ctx context.Context, email, toAddress string, amount int64, memo string) (*TransferResult, error) {
	toAddress = strings.TrimSpace(toAddress)
	memo = strings.TrimSpace(memo)
	if toAddress == "" {
		return nil, validationError("toAddress required")
	}
	if !auth.IsWalletAddress(toAddress) {
		return nil, validationError("invalid wallet address")
	}
	if amount <= 0 {
		return nil, validationError("amount must be a positive integer")
	}
	if utf8.RuneCountInString(memo) > maxMemoLength {
		return nil, validationError(fmt.Sprintf("memo must be at most %d characters", maxMemoLength))
	}

	var res TransferResult
	err := s.store.Update(ctx, func(t *repositories.Tx) error {
		_, from, err := ownWallet(t, email)
		if err != nil {
			return err
		}
		if from.WalletAddress == toAddress {
			return validationError("cannot transfer to your own wallet")
		}
		to, ok := t.GetWallet(toAddress)
		if !ok {
			return notFoundError("recipient wallet not found")
		}
		if from.Balance < amount {
			return validationError("insufficient balance")
		}

		if memo == "" {
			memo = fmt.Sprintf("transfer from %s", email)
		}
		from.Balance -= amount
		to.Balance += amount
		res.Transaction = t.AppendTransaction(models.Transaction{
			From:   from.WalletAddress,
			To:     to.WalletAddress,
			Amount: amount,
			Type:   models.TxTypeTransfer,
			Memo:   memo,
		})
		res.Balance = from.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hooks.announce(ctx, res.Transaction)
	s.log.Info("transfer",
		zap.String("from", res.Transaction.From),
		zap.String("to", res.Transaction.To),
		zap.Int64("amount", amount),
	)
	return &res, nil
}

// creditReward mints the course token into w and pays the course reward from
// SYSTEM. The caller must have checked that w does not hold the token yet.
func creditReward(t *repositories.Tx, w *models.Wallet, email string, course *models.Course) models.Transaction {
	w.Tokens = append(w.Tokens, models.EarnedToken{
		CourseID:   course.ID,
		Title:      course.Title,
		Platform:   course.Platform,
		TokenValue: course.TokenValue,
		EarnedAt:   t.Now(),
	})
	w.RecomputeResumeValue()
	w.Balance += course.RewardAmount

	return t.AppendTransaction(models.Transaction{
		From:   models.SystemAddress,
		To:     w.WalletAddress,
		Amount: course.RewardAmount,
		Type:   models.TxTypeReward,
		Memo:   fmt.Sprintf("reward for completing %s (%s) by %s", course.Title, course.ID, email),
	})
}

type VerifyResult struct {
	Certificate *auth.CertificateClaims `json:"certificate"`
	Transaction models.Transaction      `json:"transaction"`
}

func verifyMemo(courseID, address, verifier string) string {
	return fmt.Sprintf("certificate %s of %s verified by %s", courseID, address, verifier)
}

// Verify checks a certificate on behalf of verifierEmail and pays the
// verification payout to the certified wallet. A verifier can verify a given
// certificate once and cannot verify their own.
func (s *WalletService) Verify(ctx context.Context, verifierEmail, certificate string) (*VerifyResult, error) {
	certificate = strings.TrimSpace(certificate)
	if certificate == "" {
		return nil, validationError("certificate required")
	}
	claims, err := s.certifier.Parse(certificate)
	if err != nil {
		s.log.Debug("certificate rejected", zap.Error(err))
		return nil, validationError("invalid certificate")
	}

	var res VerifyResult
	err = s.store.Update(ctx, func(t *repositories.Tx) error {
		verifier, ok := t.GetUser(verifierEmail)
		if !ok {
			return notFoundError("user not found")
		}
		if verifier.WalletAddress == claims.WalletAddress {
			return validationError("cannot verify your own certificate")
		}
		holder, ok := t.GetWallet(claims.WalletAddress)
		if !ok {
			return validationError("certified wallet no longer exists")
		}
		if !holder.HasToken(claims.CourseID) {
			return validationError("certified wallet does not hold this course token")
		}

		memo := verifyMemo(claims.CourseID, claims.WalletAddress, verifierEmail)
		for _, tx := range t.TransactionsFor(holder.WalletAddress) {
			if tx.Type == models.TxTypeVerify && tx.Memo == memo {
				return conflictError("certificate already verified by you")
			}
		}

		holder.Balance += s.verifyPayout
		res.Transaction = t.AppendTransaction(models.Transaction{
			From:   models.SystemAddress,
			To:     holder.WalletAddress,
			Amount: s.verifyPayout,
			Type:   models.TxTypeVerify,
			Memo:   memo,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Certificate = claims
	s.hooks.announce(ctx, res.Transaction)
	s.log.Info("certificate verified",
		zap.String("course_id", claims.CourseID),
		zap.String("wallet", claims.WalletAddress),
		zap.String("verifier", verifierEmail),
	)
	return &res, nil
}
