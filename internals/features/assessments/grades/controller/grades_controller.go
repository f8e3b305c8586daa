package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"trainingku_backend/internals/features/assessments/grades/dto"
	"trainingku_backend/internals/features/assessments/grades/service"
	helper "trainingku_backend/internals/helpers"
	helperAuth "trainingku_backend/internals/helpers/auth"
)

type GradesController struct {
	Service *service.GradesService
}

func NewGradesController(svc *service.GradesService) *GradesController {
	return &GradesController{Service: svc}
}

// GET /api/u/grades/summary?branch_id=
// branch_id yang tidak bisa di-parse → rekap kosong (200), sama seperti branch tanpa data.
func (ctl *GradesController) MySummary(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	branchID, err := helperAuth.BranchIDFromQuery(c)
	if errors.Is(err, helperAuth.ErrBranchIDInvalid) {
		return helper.JsonOK(c, "ok", dto.Empty(userID, uuid.Nil))
	}
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helperAuth.EnsureBranchAccess(c, branchID); err != nil {
		return helper.FromServiceError(c, err)
	}

	sum, err := ctl.Service.Summary(c.UserContext(), userID, branchID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", sum)
}

// GET /api/t/grades/summary?branch_id=&user_id=
func (ctl *GradesController) UserSummary(c *fiber.Ctx) error {
	branchID, err := helperAuth.BranchIDFromQuery(c)
	if errors.Is(err, helperAuth.ErrBranchIDInvalid) {
		return helper.JsonOK(c, "ok", dto.Empty(uuid.Nil, uuid.Nil))
	}
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helperAuth.EnsureBranchAccess(c, branchID); err != nil {
		return helper.FromServiceError(c, err)
	}
	userID, err := helper.ParseUUIDQuery(c, "user_id")
	if err != nil {
		return helper.JsonOK(c, "ok", dto.Empty(uuid.Nil, branchID))
	}
	if userID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "user_id wajib diisi")
	}

	sum, err := ctl.Service.Summary(c.UserContext(), *userID, branchID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", sum)
}
