package server

import (
	"net/http"
	"testing"

	"unimarket/internal/featureflags"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeatureFlags(t *testing.T) {
	s, app := newTestServer(t)
	user := seedTestUser(t, s, "flagviewer", "Password123")

	req := jsonRequest(t, http.MethodGet, "/api/feature-flags", nil)
	req.Header.Set("Authorization", bearerFor(t, s, user))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "on", body.Raw["realtime"])
	assert.True(t, body.Evaluated["realtime"])
}

func TestRealtimeEnabled(t *testing.T) {
	okHandler := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	t.Run("flag on passes through", func(t *testing.T) {
		s := &Server{featureFlags: featureflags.NewManager("realtime=on")}
		app := fiber.New()
		app.Get("/gated", func(c *fiber.Ctx) error {
			c.Locals("userID", uint(7))
			return c.Next()
		}, s.RealtimeEnabled(), okHandler)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/gated", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("flag off is forbidden", func(t *testing.T) {
		s := &Server{featureFlags: featureflags.NewManager("realtime=off")}
		app := fiber.New()
		app.Get("/gated", func(c *fiber.Ctx) error {
			c.Locals("userID", uint(7))
			return c.Next()
		}, s.RealtimeEnabled(), okHandler)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/gated", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
