package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learn2earn/backend/internal/middleware"
	"github.com/learn2earn/backend/internal/services"
	"go.uber.org/zap"
)

type UserHandler struct {
	identity *services.IdentityService
	log      *zap.Logger
}

func NewUserHandler(identity *services.IdentityService, log *zap.Logger) *UserHandler {
	return &UserHandler{identity: identity, log: log}
}

// GET /api/me
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	profile, err := h.identity.Me(middleware.GetEmail(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(profile)
}
