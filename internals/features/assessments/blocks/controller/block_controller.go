// file: internals/features/assessments/blocks/controller/block_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/assessments/blocks/dto"
	"trainingku_backend/internals/features/assessments/blocks/model"
	"trainingku_backend/internals/features/assessments/blocks/service"
	helper "trainingku_backend/internals/helpers"
	helperAuth "trainingku_backend/internals/helpers/auth"
)

type BlockController struct {
	Service   *service.BlockService
	Validator *validator.Validate
}

func NewBlockController(svc *service.BlockService) *BlockController {
	return &BlockController{Service: svc, Validator: helper.NewValidator()}
}

func (ctl *BlockController) load(c *fiber.Ctx) (*model.BlockModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	m, err := ctl.Service.Get(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := helperAuth.EnsureBranchAccess(c, m.BlockBranchID); err != nil {
		return nil, err
	}
	return m, nil
}

// GET /blocks?branch_id=&active_only=true
func (ctl *BlockController) List(c *fiber.Ctx) error {
	branchID, err := helperAuth.BranchIDFromQuery(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helperAuth.EnsureBranchAccess(c, branchID); err != nil {
		return helper.FromServiceError(c, err)
	}

	rows, err := ctl.Service.ListByBranch(c.UserContext(), branchID, c.QueryBool("active_only", false))
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), nil)
}

// GET /blocks/weights?branch_id=
func (ctl *BlockController) Weights(c *fiber.Ctx) error {
	branchID, err := helperAuth.BranchIDFromQuery(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helperAuth.EnsureBranchAccess(c, branchID); err != nil {
		return helper.FromServiceError(c, err)
	}

	report, err := ctl.Service.WeightsReport(c.UserContext(), branchID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", report)
}

func (ctl *BlockController) Create(c *fiber.Ctx) error {
	var req dto.CreateBlockRequest
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
	return helper.JsonCreated(c, "Block berhasil dibuat", dto.FromModel(m))
}

func (ctl *BlockController) Patch(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	var req dto.PatchBlockRequest
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
	return helper.JsonUpdated(c, "Block berhasil diperbarui", dto.FromModel(m))
}

func (ctl *BlockController) Delete(c *fiber.Ctx) error {
	m, err := ctl.load(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := ctl.Service.Delete(c.UserContext(), m.BlockID); err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonDeleted(c, "Block berhasil dihapus", fiber.Map{"id": m.BlockID})
}
