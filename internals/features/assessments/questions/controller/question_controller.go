// file: internals/features/assessments/questions/controller/question_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/assessments/questions/dto"
	"trainingku_backend/internals/features/assessments/questions/model"
	"trainingku_backend/internals/features/assessments/questions/repository"
	"trainingku_backend/internals/features/assessments/questions/service"
	helper "trainingku_backend/internals/helpers"
	helperAuth "trainingku_backend/internals/helpers/auth"
	helperOSS "trainingku_backend/internals/helpers/oss"
)

type QuestionController struct {
	Service   *service.QuestionService
	Validator *validator.Validate
}

func NewQuestionController(svc *service.QuestionService) *QuestionController {
	return &QuestionController{Service: svc, Validator: helper.NewValidator()}
}

// load + cek akses branch
func (ctl *QuestionController) load(c *fiber.Ctx) (*model.QuestionModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	m, err := ctl.Service.Get(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.EnsureBranchAccess(c, m.QuestionBranchID); err != nil {
		return nil, err
	}
	return m, nil
}

// GET /api/t/questions?branch_id=&block_id=&type=&q=&page=&per_page=
func (ctl *QuestionController) List(c *fiber.Ctx) error {
	branchID, err := helperAuth.BranchIDFromQuery(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helperAuth.EnsureBranchAccess(c, branchID); err != nil {
		return helper.FromServiceError(c, err)
	}
	blockID, err := helper.ParseUUIDQuery(c, "block_id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.List(c.UserContext(), repository.ListFilter{
		BranchID: branchID,
		BlockID:  blockID,
		Type:     c.Query("type"),
		Q:        c.Query("q"),
		Limit:    paging.Limit,
		Offset:   paging.Offset,
	})
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

// GET /api/t/questions/:id
func (ctl *QuestionController) Get(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// POST /api/t/questions
func (ctl *QuestionController) Create(c *fiber.Ctx) error {
	var req dto.CreateQuestionRequest
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

	m, err := ctl.Service.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Soal berhasil dibuat", dto.FromModel(m))
}

// PATCH /api/t/questions/:id
func (ctl *QuestionController) Patch(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	var req dto.PatchQuestionRequest
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
	return helper.JsonUpdated(c, "Soal berhasil diperbarui", dto.FromModel(m))
}

// DELETE /api/t/questions/:id
func (ctl *QuestionController) Delete(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := ctl.Service.Delete(c.UserContext(), m.QuestionID); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Soal berhasil dihapus", fiber.Map{"id": m.QuestionID})
}

// POST /api/t/questions/:id/attachment (multipart: file)
func (ctl *QuestionController) UploadAttachment(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	fh, err := helperOSS.GetSingleFile(c, "file", "attachment")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	m, err = ctl.Service.UploadAttachment(c.UserContext(), m, fh)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "Lampiran soal berhasil diunggah", dto.FromModel(m))
}
