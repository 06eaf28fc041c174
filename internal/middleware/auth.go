package middleware

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/learn2earn/backend/internal/auth"
	"go.uber.org/zap"
)

const CtxEmail = "email"

// SessionResolver maps a session token to the owner's email.
type SessionResolver interface {
	Authenticate(token string) (string, error)
}

// SessionMiddleware guards routes with an opaque bearer token. The token comes
// from the Authorization header; websocket upgrades, which cannot set headers
// from a browser, may pass it as the token query parameter instead.
func SessionMiddleware(sessions SessionResolver, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.ExtractBearer(c.Get(fiber.HeaderAuthorization))
		if token == "" && websocket.IsWebSocketUpgrade(c) {
			token = c.Query("token")
		}

		email, err := sessions.Authenticate(token)
		if err != nil {
			log.Debug("session rejected", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		c.Locals(CtxEmail, email)
		return c.Next()
	}
}

func GetEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(CtxEmail).(string)
	return email
}
