package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HTTPRecorder observes finished requests.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, latency time.Duration)
}

// LoggerMiddleware writes one access log line per request and, when rec is
// set, records the request in metrics under its route pattern.
func LoggerMiddleware(log *zap.Logger, rec HTTPRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		latency := time.Since(start)

		reqID, _ := c.Locals(CtxRequestID).(string)
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if email := GetEmail(c); email != "" {
			fields = append(fields, zap.String("email", email))
		}
		log.Info("request", fields...)

		if rec != nil {
			rec.RecordHTTPRequest(c.Method(), c.Route().Path, status, latency)
		}
		return err
	}
}
