package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingku_backend/internals/features/assessments/blocks/repository"
	"trainingku_backend/internals/features/assessments/blocks/service"
	helperAuth "trainingku_backend/internals/helpers/auth"
)

func newBlockApp(branch uuid.UUID) *fiber.App {
	ctl := NewBlockController(service.NewBlockService(repository.NewInMemRepository()))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocUserID, uuid.NewString())
		c.Locals(helperAuth.LocRole, "trainer")
		c.Locals(helperAuth.LocBranchIDs, []string{branch.String()})
		return c.Next()
	})
	app.Get("/blocks", ctl.List)
	app.Get("/blocks/weights", ctl.Weights)
	app.Post("/blocks", ctl.Create)
	app.Patch("/blocks/:id", ctl.Patch)
	app.Delete("/blocks/:id", ctl.Delete)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestBlocks_WeightBudget(t *testing.T) {
	branch := uuid.New()
	app := newBlockApp(branch)
	b := branch.String()

	code, body := call(t, app, "POST", "/blocks", `{"branch_id":"`+b+`","label":"Teori","weight":60}`)
	require.Equal(t, fiber.StatusCreated, code)
	teori := body["data"].(map[string]any)["id"].(string)

	code, body = call(t, app, "POST", "/blocks", `{"branch_id":"`+b+`","label":"Praktik","weight":50}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, body["message"], "melebihi 100")

	// nonaktif tidak memakan jatah
	code, _ = call(t, app, "POST", "/blocks", `{"branch_id":"`+b+`","label":"Cadangan","weight":50,"is_active":false}`)
	require.Equal(t, fiber.StatusCreated, code)

	code, body = call(t, app, "GET", "/blocks/weights?branch_id="+b, "")
	require.Equal(t, fiber.StatusOK, code)
	report := body["data"].(map[string]any)
	assert.EqualValues(t, 60, report["total"])
	assert.Equal(t, false, report["complete"])

	code, _ = call(t, app, "POST", "/blocks", `{"branch_id":"`+b+`","label":"Praktik","weight":40}`)
	require.Equal(t, fiber.StatusCreated, code)

	code, body = call(t, app, "GET", "/blocks/weights", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["data"].(map[string]any)["complete"])

	code, _ = call(t, app, "PATCH", "/blocks/"+teori, `{"weight":61}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, _ = call(t, app, "PATCH", "/blocks/"+teori, `{"weight":55}`)
	assert.Equal(t, fiber.StatusOK, code)

	code, body = call(t, app, "GET", "/blocks?active_only=true", "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["data"], 2)
}

func TestBlocks_Validation(t *testing.T) {
	branch := uuid.New()
	app := newBlockApp(branch)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "missing label", body: `{"branch_id":"` + branch.String() + `","weight":10}`, want: fiber.StatusUnprocessableEntity},
		{name: "zero weight", body: `{"branch_id":"` + branch.String() + `","label":"X1","weight":0}`, want: fiber.StatusUnprocessableEntity},
		{name: "weight over 100", body: `{"branch_id":"` + branch.String() + `","label":"X1","weight":101}`, want: fiber.StatusUnprocessableEntity},
		{name: "foreign branch", body: `{"branch_id":"` + uuid.NewString() + `","label":"X1","weight":10}`, want: fiber.StatusForbidden},
		{name: "broken json", body: `{"branch_id":`, want: fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := call(t, app, "POST", "/blocks", tt.body)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestBlocks_DeleteUnknown(t *testing.T) {
	app := newBlockApp(uuid.New())
	code, _ := call(t, app, "DELETE", "/blocks/"+uuid.NewString(), "")
	assert.Equal(t, fiber.StatusNotFound, code)
}
