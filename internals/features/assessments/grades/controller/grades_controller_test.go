package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blockModel "trainingku_backend/internals/features/assessments/blocks/model"
	blockRepo "trainingku_backend/internals/features/assessments/blocks/repository"
	blockService "trainingku_backend/internals/features/assessments/blocks/service"
	"trainingku_backend/internals/features/assessments/grades/service"
	subtestModel "trainingku_backend/internals/features/assessments/subtests/model"
	subtestRepo "trainingku_backend/internals/features/assessments/subtests/repository"
	helperAuth "trainingku_backend/internals/helpers/auth"
)

type gradesEnv struct {
	app    *fiber.App
	branch uuid.UUID
	user   uuid.UUID
}

func newGradesEnv(t *testing.T) *gradesEnv {
	t.Helper()
	e := &gradesEnv{branch: uuid.New(), user: uuid.New()}

	blocks := blockRepo.NewInMemRepository()
	teori := blockModel.BlockModel{BlockID: uuid.New(), BlockBranchID: e.branch, BlockLabel: "Teori", BlockWeight: 60, BlockIsActive: true}
	praktik := blockModel.BlockModel{BlockID: uuid.New(), BlockBranchID: e.branch, BlockLabel: "Praktik", BlockWeight: 40, BlockIsActive: true}
	blocks.Seed(teori, praktik)

	at := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	subtests := subtestRepo.NewInMemRepository()
	for _, s := range []struct {
		block uuid.UUID
		score int
	}{{teori.BlockID, 80}, {praktik.BlockID, 50}} {
		score, correct := s.score, s.score/10
		subtests.Put(subtestModel.SubtestModel{
			SubtestID:             uuid.New(),
			SubtestAssessmentID:   uuid.New(),
			SubtestUserID:         e.user,
			SubtestBranchID:       e.branch,
			SubtestBlockID:        s.block,
			SubtestAttemptNo:      1,
			SubtestTotalQuestions: 10,
			SubtestSubmittedAt:    &at,
			SubtestScore:          &score,
			SubtestCorrectCount:   &correct,
		})
	}

	ctl := NewGradesController(service.NewGradesService(subtests, blockService.NewBlockService(blocks)))

	e.app = fiber.New()
	e.app.Use(func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocUserID, e.user.String())
		c.Locals(helperAuth.LocRole, c.Get("X-Test-Role", "user"))
		c.Locals(helperAuth.LocBranchIDs, []string{e.branch.String()})
		return c.Next()
	})
	e.app.Get("/u/grades/summary", ctl.MySummary)
	e.app.Get("/t/grades/summary", ctl.UserSummary)
	return e
}

func (e *gradesEnv) get(t *testing.T, path, role string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("X-Test-Role", role)
	resp, err := e.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestMySummary(t *testing.T) {
	e := newGradesEnv(t)

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantNota float64
		wantLen  int
	}{
		{name: "single branch from token", query: "", wantCode: fiber.StatusOK, wantNota: 68, wantLen: 2},
		{name: "explicit branch", query: "?branch_id=" + e.branch.String(), wantCode: fiber.StatusOK, wantNota: 68, wantLen: 2},
		{name: "malformed branch is empty", query: "?branch_id=bukan-uuid", wantCode: fiber.StatusOK, wantNota: 0, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := e.get(t, "/u/grades/summary"+tt.query, "user")
			require.Equal(t, tt.wantCode, code)

			data := body["data"].(map[string]any)
			assert.Equal(t, e.user.String(), data["user_id"])
			assert.EqualValues(t, tt.wantNota, data["nota_global"])
			assert.Len(t, data["blocks"], tt.wantLen)
			assert.Len(t, data["tests_detail"], tt.wantLen)
		})
	}
}

func TestMySummary_ForeignBranchIsForbidden(t *testing.T) {
	e := newGradesEnv(t)
	code, body := e.get(t, "/u/grades/summary?branch_id="+uuid.NewString(), "user")
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", body["error_code"])
}

func TestUserSummary(t *testing.T) {
	e := newGradesEnv(t)
	base := "/t/grades/summary?branch_id=" + e.branch.String()

	code, body := e.get(t, base+"&user_id="+e.user.String(), "trainer")
	require.Equal(t, fiber.StatusOK, code)
	assert.EqualValues(t, 68, body["data"].(map[string]any)["nota_global"])

	code, body = e.get(t, base+"&user_id=xyz", "trainer")
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, body["data"].(map[string]any)["tests_detail"])

	code, _ = e.get(t, base, "trainer")
	assert.Equal(t, fiber.StatusBadRequest, code)
}
