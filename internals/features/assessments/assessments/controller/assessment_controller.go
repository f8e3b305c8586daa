// file: internals/features/assessments/assessments/controller/assessment_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"trainingku_backend/internals/features/assessments/assessments/dto"
	"trainingku_backend/internals/features/assessments/assessments/model"
	"trainingku_backend/internals/features/assessments/assessments/repository"
	"trainingku_backend/internals/features/assessments/assessments/service"
	helper "trainingku_backend/internals/helpers"
	helperAuth "trainingku_backend/internals/helpers/auth"
)

type AssessmentController struct {
	Service   *service.AssessmentService
	Validator *validator.Validate
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc, Validator: helper.NewValidator()}
}

func (ctl *AssessmentController) load(c *fiber.Ctx) (*model.AssessmentModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	m, err := ctl.Service.Get(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.EnsureBranchAccess(c, m.AssessmentBranchID); err != nil {
		return nil, err
	}
	return m, nil
}

func (ctl *AssessmentController) branchFromQuery(c *fiber.Ctx) (uuid.UUID, error) {
	branchID, err := helperAuth.BranchIDFromQuery(c)
	if err != nil {
		return uuid.Nil, err
	}
	if err := helperAuth.EnsureBranchAccess(c, branchID); err != nil {
		return uuid.Nil, err
	}
	return branchID, nil
}

/* =========================================================
   TRAINER / ADMIN
========================================================= */

// GET /api/t/assessments?branch_id=&locked=&q=&page=&per_page=
func (ctl *AssessmentController) List(c *fiber.Ctx) error {
	branchID, err := ctl.branchFromQuery(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	f := repository.ListFilter{BranchID: branchID, Q: c.Query("q")}
	if v := c.Query("locked"); v != "" {
		locked := c.QueryBool("locked")
		f.Locked = &locked
	}
	paging := helper.ResolvePaging(c, 20, 100)
	f.Limit, f.Offset = paging.Limit, paging.Offset

	rows, total, err := ctl.Service.List(c.UserContext(), f)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

// GET /api/t/assessments/:id (lengkap dengan snapshot soal & kunci)
func (ctl *AssessmentController) Get(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m, true))
}

func (ctl *AssessmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if err := helperAuth.EnsureBranchAccess(c, req.BranchID); err != nil {
		return helper.FromServiceError(c, err)
	}

	actor, _ := helperAuth.GetUserID(c)
	m, err := ctl.Service.Create(c.UserContext(), req, actor)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Assessment berhasil dibuat", dto.FromModel(m, true))
}

func (ctl *AssessmentController) Patch(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	var req dto.PatchAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	m, err = ctl.Service.Patch(c.UserContext(), m, req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Assessment berhasil diperbarui", dto.FromModel(m, true))
}

func (ctl *AssessmentController) Delete(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := ctl.Service.Delete(c.UserContext(), m.AssessmentID); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Assessment berhasil dihapus", fiber.Map{"id": m.AssessmentID})
}

// POST /api/t/assessments/:id/lock
func (ctl *AssessmentController) Lock(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	m, err = ctl.Service.Lock(c.UserContext(), m)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Assessment dikunci", dto.FromModel(m, false))
}

/* =========================================================
   USER
========================================================= */

// GET /api/u/assessments?branch_id= (sedang dibuka, tanpa kunci jawaban)
func (ctl *AssessmentController) ListOpen(c *fiber.Ctx) error {
	branchID, err := ctl.branchFromQuery(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	rows, err := ctl.Service.ListOpen(c.UserContext(), branchID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), nil)
}
