package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/learn2earn/backend/internal/config"
	"github.com/learn2earn/backend/internal/http/handlers"
	"github.com/learn2earn/backend/internal/metrics"
	"github.com/learn2earn/backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrorHandler renders errors that escape the handlers, fiber's own included,
// with the same {"error": ...} body the handlers use.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			msg = e.Message
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rec metrics.Recorder,
	gatherer prometheus.Gatherer,
	authLimiter fiber.Handler,
	sessions middleware.SessionResolver,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	walletHandler *handlers.WalletHandler,
	courseHandler *handlers.CourseHandler,
	resumeHandler *handlers.ResumeHandler,
	metaHandler *handlers.MetaHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log, rec))

	app.Get("/health", metaHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(gatherer)))

	api := app.Group("/api")

	// Auth (public, rate-limited)
	api.Post("/register", authLimiter, authHandler.Register)
	api.Post("/login", authLimiter, authHandler.Login)

	// Catalog (public)
	api.Get("/courses", courseHandler.ListCourses)
	api.Get("/courses/:id", courseHandler.GetCourse)
	api.Get("/meta/platforms", metaHandler.GetPlatforms)
	api.Get("/meta/course-types", metaHandler.GetCourseTypes)

	session := middleware.SessionMiddleware(sessions, log)

	// User
	api.Get("/me", session, userHandler.GetMe)

	// Wallet and ledger
	api.Get("/wallet", session, walletHandler.GetWallet)
	api.Get("/transactions", session, walletHandler.ListTransactions)
	api.Post("/transfer", session, walletHandler.Transfer)
	api.Post("/verify", session, walletHandler.Verify)

	// Courses
	api.Post("/courses/:id/complete", session, courseHandler.CompleteCourse)
	api.Get("/recommendations", session, courseHandler.Recommendations)
	api.Get("/certificates/:courseId", session, courseHandler.Certificate)
	api.Post("/resume/evaluate", session, resumeHandler.Evaluate)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", session, wsHub.Authorize, websocket.New(wsHub.HandleWS))
}
