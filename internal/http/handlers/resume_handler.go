package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learn2earn/backend/internal/http/dto"
	"github.com/learn2earn/backend/internal/middleware"
	"github.com/learn2earn/backend/internal/services"
	"go.uber.org/zap"
)

type ResumeHandler struct {
	resumeService *services.ResumeService
	log           *zap.Logger
}

func NewResumeHandler(resumeService *services.ResumeService, log *zap.Logger) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService, log: log}
}

// POST /api/resume/evaluate
func (h *ResumeHandler) Evaluate(c *fiber.Ctx) error {
	var req dto.EvaluateResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res, err := h.resumeService.Evaluate(middleware.GetEmail(c), req.Resume)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res)
}
