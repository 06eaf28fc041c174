package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learn2earn/backend/internal/http/dto"
	"github.com/learn2earn/backend/internal/middleware"
	"github.com/learn2earn/backend/internal/services"
	"go.uber.org/zap"
)

type WalletHandler struct {
	walletService *services.WalletService
	log           *zap.Logger
}

func NewWalletHandler(walletService *services.WalletService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{walletService: walletService, log: log}
}

// GET /api/wallet
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	w, err := h.walletService.GetWallet(middleware.GetEmail(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(w)
}

// ListTransactions returns the caller's ledger entries, oldest first.
// GET /api/transactions
func (h *WalletHandler) ListTransactions(c *fiber.Ctx) error {
	txs, err := h.walletService.ListTransactions(middleware.GetEmail(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(txs)
}

// POST /api/transfer
func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	var req dto.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res, err := h.walletService.Transfer(c.UserContext(), middleware.GetEmail(c), req.ToAddress, req.Amount, req.Memo)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.TransferResponse{OK: true, Transaction: res.Transaction, Balance: res.Balance})
}

// Verify checks another user's certificate and pays them the verification reward.
// POST /api/verify
func (h *WalletHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res, err := h.walletService.Verify(c.UserContext(), middleware.GetEmail(c), req.Certificate)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.VerifyResponse{OK: true, Certificate: res.Certificate, Transaction: res.Transaction})
}
