package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gradesDTO "trainingku_backend/internals/features/assessments/grades/dto"
	"trainingku_backend/internals/features/certificates/user_certificates/repository"
	"trainingku_backend/internals/features/certificates/user_certificates/service"
	helperAuth "trainingku_backend/internals/helpers/auth"
)

type stubGrades struct{ nota float64 }

func (s stubGrades) Summary(_ context.Context, userID, branchID uuid.UUID) (gradesDTO.GradesSummary, error) {
	return gradesDTO.GradesSummary{
		UserID:          userID,
		BranchID:        branchID,
		Blocks:          []gradesDTO.BlockGrade{{BlockID: uuid.New(), Label: "Inti", Weight: 100, Average: s.nota, Weighted: s.nota}},
		NotaGlobal:      s.nota,
		WeightsTotal:    100,
		WeightsComplete: true,
		TestsDetail:     []gradesDTO.TestDetail{{SubtestID: uuid.New()}},
	}, nil
}

type certEnv struct {
	app    *fiber.App
	branch uuid.UUID
	user   uuid.UUID
}

func newCertEnv(nota float64) *certEnv {
	e := &certEnv{branch: uuid.New(), user: uuid.New()}
	svc := service.NewCertificateService(repository.NewInMemRepository(), stubGrades{nota: nota}, nil, 70)
	ctl := NewUserCertificateController(svc)

	e.app = fiber.New()
	e.app.Use(func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocUserID, c.Get("X-Test-User"))
		c.Locals(helperAuth.LocRole, "user")
		c.Locals(helperAuth.LocUserName, "Dewi Lestari")
		c.Locals(helperAuth.LocBranchIDs, []string{e.branch.String()})
		return c.Next()
	})
	e.app.Get("/certificates", ctl.ListMine)
	e.app.Post("/certificates/sign-off", ctl.SignOff)
	e.app.Get("/certificates/:id/file", ctl.Download)
	return e
}

func (e *certEnv) call(t *testing.T, method, path string, user uuid.UUID, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user.String())
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestSignOff_CreatesThenReturnsExisting(t *testing.T) {
	e := newCertEnv(85)
	body := `{"branch_id":"` + e.branch.String() + `"}`

	code, raw := e.call(t, "POST", "/certificates/sign-off", e.user, body)
	require.Equal(t, fiber.StatusCreated, code)
	first := decode(t, raw)["data"].(map[string]any)
	assert.Equal(t, "Dewi Lestari", first["user_name"])
	assert.EqualValues(t, 85, first["nota_global"])

	code, raw = e.call(t, "POST", "/certificates/sign-off", e.user, body)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, first["id"], decode(t, raw)["data"].(map[string]any)["id"])

	code, raw = e.call(t, "GET", "/certificates", e.user, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, decode(t, raw)["data"].([]any), 1)

	code, raw = e.call(t, "GET", "/certificates/"+first["id"].(string)+"/file", e.user, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	code, _ = e.call(t, "GET", "/certificates/"+first["id"].(string)+"/file", uuid.New(), "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestSignOff_BelowPassGrade(t *testing.T) {
	e := newCertEnv(50)
	code, raw := e.call(t, "POST", "/certificates/sign-off", e.user, `{"branch_id":"`+e.branch.String()+`"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, raw)["error_code"])
}

func TestSignOff_ForeignBranchIsForbidden(t *testing.T) {
	e := newCertEnv(90)
	code, _ := e.call(t, "POST", "/certificates/sign-off", e.user, `{"branch_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestSignOff_MissingBranch(t *testing.T) {
	e := newCertEnv(90)
	code, _ := e.call(t, "POST", "/certificates/sign-off", e.user, `{}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}
