package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/learn2earn/backend/internal/http/dto"
	"github.com/learn2earn/backend/internal/middleware"
	"github.com/learn2earn/backend/internal/services"
	"go.uber.org/zap"
)

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, services.ErrValidation), errors.Is(kind, services.ErrConflict):
		return fiber.StatusBadRequest
	case errors.Is(kind, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(kind, services.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError renders a service error as {"error": ...}. Anything that is not a
// domain error is logged and hidden behind a generic 500.
func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var quizErr *services.IncorrectAnswersError
	if errors.As(err, &quizErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.QuizErrorResponse{
			Error:   quizErr.Error(),
			Correct: quizErr.Correct,
			Total:   quizErr.Total,
		})
	}

	var domainErr *services.Error
	if errors.As(err, &domainErr) {
		if status := statusFor(domainErr.Kind); status != fiber.StatusInternalServerError {
			return c.Status(status).JSON(dto.ErrorResponse{Error: domainErr.Message})
		}
	}

	reqID, _ := c.Locals(middleware.CtxRequestID).(string)
	log.Error("request failed",
		zap.String("request_id", reqID),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:     "internal server error",
		RequestID: reqID,
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
}
