package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learn2earn/backend/internal/http/dto"
	"github.com/learn2earn/backend/internal/middleware"
	"github.com/learn2earn/backend/internal/services"
	"go.uber.org/zap"
)

type CourseHandler struct {
	courseService *services.CourseService
	log           *zap.Logger
}

func NewCourseHandler(courseService *services.CourseService, log *zap.Logger) *CourseHandler {
	return &CourseHandler{courseService: courseService, log: log}
}

// GET /api/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.courseService.List()
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(courses)
}

// GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	course, err := h.courseService.Get(c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(course)
}

// CompleteCourse claims the course reward. The body is optional for video courses.
// POST /api/courses/:id/complete
func (h *CourseHandler) CompleteCourse(c *fiber.Ctx) error {
	var req dto.CompleteCourseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}

	res, err := h.courseService.Complete(c.UserContext(), middleware.GetEmail(c), c.Params("id"), req.Answers)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.CompleteCourseResponse{OK: true, Transaction: res.Transaction, Wallet: res.Wallet})
}

// GET /api/recommendations
func (h *CourseHandler) Recommendations(c *fiber.Ctx) error {
	courses, err := h.courseService.Recommendations(middleware.GetEmail(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(courses)
}

// GET /api/certificates/:courseId
func (h *CourseHandler) Certificate(c *fiber.Ctx) error {
	res, err := h.courseService.Certificate(middleware.GetEmail(c), c.Params("courseId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.CertificateResponse{Certificate: res.Certificate, Claims: res.Claims})
}
