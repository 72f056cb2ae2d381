package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func serviceKeyApp(key string) *fiber.App {
	app := fiber.New()
	app.Use(ServiceKeyProtected(key))
	app.Post("/hook", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestServiceKeyProtectedAcceptsMatchingKey(t *testing.T) {
	app := serviceKeyApp("backend-key")

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(HeaderServiceKey, "backend-key")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServiceKeyProtectedRejectsWrongKey(t *testing.T) {
	app := serviceKeyApp("backend-key")

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(HeaderServiceKey, "guessed-key")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServiceKeyProtectedRejectsMissingHeader(t *testing.T) {
	app := serviceKeyApp("backend-key")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/hook", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// An unconfigured key keeps the hook closed rather than open.
func TestServiceKeyProtectedEmptyKeyRejectsAll(t *testing.T) {
	app := serviceKeyApp("")

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(HeaderServiceKey, "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
