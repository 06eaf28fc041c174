package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learn2earn/backend/internal/http/dto"
	"github.com/learn2earn/backend/internal/services"
	"go.uber.org/zap"
)

type AuthHandler struct {
	identity *services.IdentityService
	log      *zap.Logger
}

func NewAuthHandler(identity *services.IdentityService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, log: log}
}

// Register creates an account and logs it in.
// POST /api/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res, err := h.identity.Register(c.UserContext(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.AuthResponse{Token: res.Token, DisplayName: res.DisplayName, WalletAddress: res.WalletAddress})
}

// Login issues a new session token.
// POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res, err := h.identity.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.AuthResponse{Token: res.Token, DisplayName: res.DisplayName, WalletAddress: res.WalletAddress})
}
