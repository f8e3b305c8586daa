// file: internals/features/certificates/user_certificates/controller/user_certificate_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/certificates/user_certificates/dto"
	"trainingku_backend/internals/features/certificates/user_certificates/service"
	helper "trainingku_backend/internals/helpers"
	helperAuth "trainingku_backend/internals/helpers/auth"
)

type UserCertificateController struct {
	Service   *service.CertificateService
	Validator *validator.Validate
}

func NewUserCertificateController(svc *service.CertificateService) *UserCertificateController {
	return &UserCertificateController{Service: svc, Validator: helper.NewValidator()}
}

// POST /api/u/certificates/sign-off
func (ctl *UserCertificateController) SignOff(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}

	var req dto.SignOffRequest
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

	// nama dari token lebih dipercaya daripada body
	name := helperAuth.GetUserName(c)
	if name == "" {
		name = req.UserName
	}
	if name == "" {
		return helper.JsonValidationError(c, map[string]string{"user_name": "required"})
	}

	m, created, err := ctl.Service.SignOff(c.UserContext(), userID, name, req.BranchID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if !created {
		return helper.JsonOK(c, "Sertifikat sudah pernah diterbitkan", dto.FromModel(m))
	}
	return helper.JsonCreated(c, "Sertifikat berhasil diterbitkan", dto.FromModel(m))
}

// GET /api/u/certificates
func (ctl *UserCertificateController) ListMine(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	items, err := ctl.Service.ListByUser(c.UserContext(), userID)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModels(items))
}

// GET /api/u/certificates/:id/file
func (ctl *UserCertificateController) Download(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	m, err := ctl.Service.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if m.UserCertUserID != userID {
		return helper.FromServiceError(c, service.ErrCertificateNotFound)
	}

	if m.UserCertFileURL != nil && *m.UserCertFileURL != "" {
		return c.Redirect(*m.UserCertFileURL, fiber.StatusFound)
	}

	data, err := ctl.Service.Render(c.UserContext(), m)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+m.UserCertSerial+`.pdf"`)
	return c.Send(data)
}
