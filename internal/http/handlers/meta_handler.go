package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learn2earn/backend/internal/http/dto"
	"github.com/learn2earn/backend/internal/models"
	"github.com/learn2earn/backend/internal/services"
	"go.uber.org/zap"
)

type MetaHandler struct {
	courseService *services.CourseService
	log           *zap.Logger
}

func NewMetaHandler(courseService *services.CourseService, log *zap.Logger) *MetaHandler {
	return &MetaHandler{courseService: courseService, log: log}
}

var courseTypes = []string{models.CourseTypeVideo, models.CourseTypeMCQ}

// GET /health
func (h *MetaHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetPlatforms lists the platforms of the catalog, in catalog order.
// GET /api/meta/platforms
func (h *MetaHandler) GetPlatforms(c *fiber.Ctx) error {
	courses, err := h.courseService.List()
	if err != nil {
		return writeError(c, h.log, err)
	}

	out := []dto.PlatformResponse{}
	index := make(map[string]int)
	for _, course := range courses {
		i, ok := index[course.Platform]
		if !ok {
			i = len(out)
			index[course.Platform] = i
			out = append(out, dto.PlatformResponse{Name: course.Platform, Initial: course.PlatformInitial})
		}
		out[i].Courses = append(out[i].Courses, course.ID)
	}
	return c.JSON(out)
}

// GET /api/meta/course-types
func (h *MetaHandler) GetCourseTypes(c *fiber.Ctx) error {
	return c.JSON(courseTypes)
}
