// file: internals/features/assessments/subtests/controller/subtest_controller.go
package controller

import (
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/assessments/subtests/dto"
	"trainingku_backend/internals/features/assessments/subtests/model"
	"trainingku_backend/internals/features/assessments/subtests/repository"
	"trainingku_backend/internals/features/assessments/subtests/service"
	helper "trainingku_backend/internals/helpers"
	helperAuth "trainingku_backend/internals/helpers/auth"
	helperOSS "trainingku_backend/internals/helpers/oss"
)

type SubtestController struct {
	Service   *service.SubtestService
	Validator *validator.Validate
}

func NewSubtestController(svc *service.SubtestService) *SubtestController {
	return &SubtestController{Service: svc, Validator: helper.NewValidator()}
}

var trainerView = dto.ViewOptions{WithQuestions: true, RevealKeys: true}

func (ctl *SubtestController) load(c *fiber.Ctx) (*model.SubtestModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	m, err := ctl.Service.Get(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.EnsureBranchAccess(c, m.SubtestBranchID); err != nil {
		return nil, err
	}
	return m, nil
}

// loadOwn: hanya pemilik subtest. Milik orang lain dijawab 404.
func (ctl *SubtestController) loadOwn(c *fiber.Ctx) (*model.SubtestModel, error) {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return nil, err
	}
	m, err := ctl.load(c)
	if err != nil {
		return nil, err
	}
	if m.SubtestUserID != userID {
		return nil, service.ErrSubtestNotFound
	}
	return m, nil
}

func parseStatus(c *fiber.Ctx) (model.Status, error) {
	switch s := model.Status(c.Query("status")); s {
	case "", model.StatusPending, model.StatusSubmitted, model.StatusSuperseded:
		return s, nil
	}
	return "", fiber.NewError(fiber.StatusBadRequest, "status harus pending, submitted, atau superseded")
}

/* =========================================================
   TRAINER / ADMIN
========================================================= */

// POST /api/t/assessments/:id/subtests {user_ids}
func (ctl *SubtestController) Generate(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	a, err := ctl.Service.Assessments.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helperAuth.EnsureBranchAccess(c, a.AssessmentBranchID); err != nil {
		return helper.FromServiceError(c, err)
	}

	var req dto.GenerateSubtestsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	created, skipped, err := ctl.Service.Generate(c.UserContext(), a, req.UserIDs)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Subtest berhasil dibagikan", dto.GenerateResponse{
		Created: dto.FromModels(created, dto.ViewOptions{}),
		Skipped: skipped,
	})
}

// GET /api/t/assessments/:id/subtests?status=&user_id=&page=&per_page=
func (ctl *SubtestController) ListByAssessment(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	a, err := ctl.Service.Assessments.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helperAuth.EnsureBranchAccess(c, a.AssessmentBranchID); err != nil {
		return helper.FromServiceError(c, err)
	}
	status, err := parseStatus(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	userID, err := helper.ParseUUIDQuery(c, "user_id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	paging := helper.ResolvePaging(c, 50, 200)
	rows, total, err := ctl.Service.List(c.UserContext(), repository.ListFilter{
		AssessmentID:      &a.AssessmentID,
		UserID:            userID,
		Status:            status,
		IncludeSuperseded: c.QueryBool("include_superseded"),
		Limit:             paging.Limit,
		Offset:            paging.Offset,
	})
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows, dto.ViewOptions{}), &pg)
}

// GET /api/t/subtests/:id
func (ctl *SubtestController) Get(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m, trainerView))
}

// POST /api/t/subtests/:id/reset (multipart: reason, attachments[])
func (ctl *SubtestController) Reset(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	actor, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	var req dto.ResetRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var files []*multipart.FileHeader
	if helperOSS.IsMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Form multipart tidak valid")
		}
		files = helperOSS.CollectUploadFiles(form, "attachments[]", "attachments")
	}

	next, entry, err := ctl.Service.Reset(c.UserContext(), m, actor, req.Reason, files)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonCreated(c, "Subtest berhasil di-reset", dto.ResetResponse{
		Subtest: dto.FromModel(next, dto.ViewOptions{}),
		Log:     *entry,
	})
}

// GET /api/t/subtests/:id/resets
func (ctl *SubtestController) Resets(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	logs, err := ctl.Service.Resets(c.UserContext(), m.SubtestID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", logs, nil)
}

/* =========================================================
   USER
========================================================= */

// GET /api/u/subtests?branch_id=&status=
func (ctl *SubtestController) ListMine(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	branchID, err := helperAuth.BranchIDFromQuery(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helperAuth.EnsureBranchAccess(c, branchID); err != nil {
		return helper.FromServiceError(c, err)
	}
	status, err := parseStatus(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Service.List(c.UserContext(), repository.ListFilter{
		BranchID: &branchID,
		UserID:   &userID,
		Status:   status,
		Limit:    paging.Limit,
		Offset:   paging.Offset,
	})
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows, dto.ViewOptions{}), &pg)
}

// GET /api/u/subtests/:id (kunci jawaban disembunyikan selama pending)
func (ctl *SubtestController) GetMine(c *fiber.Ctx) error {
	m, err := ctl.loadOwn(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m, dto.ForParticipant(m)))
}

// POST /api/u/subtests/:id/submit {answers}
func (ctl *SubtestController) Submit(c *fiber.Ctx) error {
	m, err := ctl.loadOwn(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	var req dto.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	qs, err := m.Questions()
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	answers, err := req.Indexed(len(qs))
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	m, _, err = ctl.Service.Submit(c.UserContext(), m.SubtestID, m.SubtestUserID, answers)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "Jawaban berhasil dikumpulkan", dto.FromModel(m, trainerView))
}
