package middleware

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessions map[string]string

func (f fakeSessions) Authenticate(token string) (string, error) {
	if email, ok := f[token]; ok && token != "" {
		return email, nil
	}
	return "", errors.New("unauthorized")
}

func newGuardedApp() *fiber.App {
	app := fiber.New()
	app.Use(RequestIDMiddleware())
	app.Get("/me", SessionMiddleware(fakeSessions{"T1": "a@b.com"}, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(GetEmail(c))
	})
	return app
}

func TestSessionMiddleware(t *testing.T) {
	app := newGuardedApp()

	tests := []struct {
		name    string
		header  string
		query   string
		upgrade bool
		status  int
	}{
		{"bearer", "Bearer T1", "", false, fiber.StatusOK},
		{"bare token", "T1", "", false, fiber.StatusOK},
		{"query token on upgrade", "", "T1", true, fiber.StatusOK},
		{"query token on plain request", "", "T1", false, fiber.StatusUnauthorized},
		{"empty header", "", "", false, fiber.StatusUnauthorized},
		{"bearer only", "Bearer ", "", false, fiber.StatusUnauthorized},
		{"unknown token", "Bearer bogus", "", false, fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/me"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest("GET", target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})
	}
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	app := newGuardedApp()

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("X-Request-ID", "abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Header.Get("X-Request-ID"))
}

func TestLocalRateLimiter(t *testing.T) {
	rl := NewLocalRateLimiter(2, time.Minute)
	defer rl.Stop()

	app := fiber.New()
	app.Post("/login", rl.Middleware(zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.Equal(t, 1, rl.Len())
}

func TestLocalRateLimiter_Cleanup(t *testing.T) {
	rl := NewLocalRateLimiter(10, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("a"))
	rl.cleanup(time.Now().Add(3 * time.Minute))
	assert.Equal(t, 0, rl.Len())
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeHTTPRecorder struct{ got []recordedRequest }

func (f *fakeHTTPRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.got = append(f.got, recordedRequest{method, route, status})
}

func TestLoggerMiddleware_RecordsRoute(t *testing.T) {
	rec := &fakeHTTPRecorder{}
	app := fiber.New()
	app.Use(LoggerMiddleware(zap.NewNop(), rec))
	app.Get("/courses/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/courses/c9", nil))
	require.NoError(t, err)
	require.Len(t, rec.got, 1)
	assert.Equal(t, recordedRequest{"GET", "/courses/:id", 404}, rec.got[0])
}

func TestRequestID_ReplacesInvalid(t *testing.T) {
	app := newGuardedApp()

	for _, id := range []string{strings.Repeat("x", maxRequestIDLength+1), "has space"} {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("X-Request-ID", id)
		resp, err := app.Test(req)
		require.NoError(t, err)
		got := resp.Header.Get("X-Request-ID")
		assert.NotEqual(t, id, got)
		assert.Len(t, got, 36)
	}
}
