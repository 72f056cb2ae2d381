package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, handler fiber.Handler) (*http.Response, APIResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload APIResponse
	require.NoError(t, json.Unmarshal(body, &payload))

	return resp, payload
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccess(c, "", fiber.Map{"id": "abc"})
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
}

func TestSendErrorSetsErrorField(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return SendError(c, fiber.StatusConflict, "username already taken")
	})

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.False(t, payload.Success)
	require.Equal(t, "username already taken", payload.Error)
}

func TestSendValidationErrorCarriesDetails(t *testing.T) {
	resp, payload := performRequest(t, func(c *fiber.Ctx) error {
		return SendValidationError(c, map[string]string{"username": "must be at least 3 characters"})
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.False(t, payload.Success)

	details, ok := payload.Details.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "must be at least 3 characters", details["username"])
}
