package auth

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingku_backend/internals/constants"
	helperAuth "trainingku_backend/internals/helpers/auth"
)

const testSecret = "rahasia-test"

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthJWT(AuthJWTOpts{Secret: testSecret, AllowCookieFallback: true}), func(c *fiber.Ctx) error {
		uid, err := helperAuth.GetUserID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"user_id":  uid,
			"role":     helperAuth.GetRole(c),
			"name":     helperAuth.GetUserName(c),
			"branches": len(helperAuth.GetBranchIDs(c)),
		})
	})
	app.Get("/trainer",
		AuthJWT(AuthJWTOpts{Secret: testSecret}),
		OnlyRolesSlice("khusus trainer", constants.TrainerAndAbove),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)
	return app
}

func TestAuthJWT(t *testing.T) {
	user := uuid.New()
	valid := jwt.MapClaims{
		"id":         user.String(),
		"role":       "Trainer",
		"user_name":  "Rina",
		"branch_ids": []string{uuid.NewString(), uuid.NewString()},
		"exp":        time.Now().Add(time.Hour).Unix(),
	}
	expired := jwt.MapClaims{"id": user.String(), "exp": time.Now().Add(-time.Hour).Unix()}
	noID := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	noExp := jwt.MapClaims{"id": user.String()}

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "valid bearer", header: "Bearer " + sign(t, testSecret, valid), want: fiber.StatusOK},
		{name: "lowercase scheme", header: "bearer  " + sign(t, testSecret, valid), want: fiber.StatusOK},
		{name: "cookie fallback", cookie: sign(t, testSecret, valid), want: fiber.StatusOK},
		{name: "missing", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "bad signature", header: "Bearer " + sign(t, "lain", valid), want: fiber.StatusUnauthorized},
		{name: "expired", header: "Bearer " + sign(t, testSecret, expired), want: fiber.StatusUnauthorized},
		{name: "no exp", header: "Bearer " + sign(t, testSecret, noExp), want: fiber.StatusUnauthorized},
		{name: "no id", header: "Bearer " + sign(t, testSecret, noID), want: fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set("Cookie", "access_token="+tt.cookie)
			}
			resp, err := newApp().Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuthJWT_StoresClaims(t *testing.T) {
	user := uuid.New()
	tok := sign(t, testSecret, jwt.MapClaims{
		"id":         user.String(),
		"role":       " Trainer ",
		"user_name":  "Rina",
		"branch_ids": []string{uuid.NewString(), "bukan-uuid"},
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := newApp().Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	body := string(raw)
	assert.Contains(t, body, user.String())
	assert.Contains(t, body, `"role":"trainer"`)
	assert.Contains(t, body, `"name":"Rina"`)
	assert.Contains(t, body, `"branches":1`)
}

func TestOnlyRolesSlice(t *testing.T) {
	for role, want := range map[string]int{
		"user":    fiber.StatusForbidden,
		"trainer": fiber.StatusOK,
		"owner":   fiber.StatusOK,
		"":        fiber.StatusUnauthorized,
	} {
		claims := jwt.MapClaims{"id": uuid.NewString(), "exp": time.Now().Add(time.Hour).Unix()}
		if role != "" {
			claims["role"] = role
		}
		req := httptest.NewRequest("GET", "/trainer", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, claims))
		resp, err := newApp().Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "role=%q", role)
	}
}
