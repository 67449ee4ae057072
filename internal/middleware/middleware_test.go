package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

const secret = "test-secret"

func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.HTTPStatus(apperr.CodeOf(err))).SendString(string(apperr.CodeOf(err)))
		},
	})
}

func request(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Cookie", utils.TokenCookie+"="+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func protectedApp() *fiber.App {
	app := newApp()
	app.Use(JWTFromCookie(secret), AttachJWTLocals())
	app.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := UserID(c)
		return c.SendString(uid.String() + " " + string(UserRole(c)))
	})
	app.Get("/freelancer", RequireRoles(models.RoleFreelancer), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestJWTCookie(t *testing.T) {
	app := protectedApp()
	uid := uuid.New()

	status, _ := request(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = request(t, app, "/me", "garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	forged, err := utils.SignJWT("other-secret", uid.String(), "buyer", 5)
	require.NoError(t, err)
	status, _ = request(t, app, "/me", forged)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	tok, err := utils.SignJWT(secret, uid.String(), "buyer", 5)
	require.NoError(t, err)
	status, body := request(t, app, "/me", tok)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, uid.String()+" buyer", body)
}

func TestJWTLocalsRejectsMalformedClaims(t *testing.T) {
	app := protectedApp()

	badID, err := utils.SignJWT(secret, "not-a-uuid", "buyer", 5)
	require.NoError(t, err)
	status, _ := request(t, app, "/me", badID)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	badRole, err := utils.SignJWT(secret, uuid.NewString(), "admin", 5)
	require.NoError(t, err)
	status, _ = request(t, app, "/me", badRole)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRequireRoles(t *testing.T) {
	app := protectedApp()

	buyer, err := utils.SignJWT(secret, uuid.NewString(), "buyer", 5)
	require.NoError(t, err)
	status, body := request(t, app, "/freelancer", buyer)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "forbidden", body)

	freelancer, err := utils.SignJWT(secret, uuid.NewString(), "freelancer", 5)
	require.NoError(t, err)
	status, body = request(t, app, "/freelancer", freelancer)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestRequestTimeout(t *testing.T) {
	app := newApp()
	app.Use(RequestTimeout(50 * time.Millisecond))
	app.Get("/", func(c *fiber.Ctx) error {
		deadline, ok := c.UserContext().Deadline()
		if !ok {
			return c.SendString("no deadline")
		}
		if time.Until(deadline) > 50*time.Millisecond {
			return c.SendString("deadline too far")
		}
		<-c.UserContext().Done()
		if c.UserContext().Err() == context.DeadlineExceeded {
			return c.SendString("expired")
		}
		return c.SendString("cancelled")
	})

	status, body := request(t, app, "/", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "expired", body)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := newApp()
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return apperr.NotFound("nope") })
	app.Get("/gone", func(c *fiber.Ctx) error {
		return apperr.Wrap(context.Canceled, apperr.CodeCanceled, "")
	})

	status, _ := request(t, app, "/ok", "")
	assert.Equal(t, fiber.StatusOK, status)
	status, body := request(t, app, "/missing", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "not_found", body)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(404), entries[1].ContextMap()["status"])
	assert.Equal(t, "/missing", entries[1].ContextMap()["path"])

	status, _ = request(t, app, "/gone", "")
	assert.Equal(t, apperr.StatusClientClosedRequest, status)
	entries = logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[2].Level)
}
