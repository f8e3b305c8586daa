package route

import (
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/certificates/user_certificates/controller"
)

// UserCertificateRoutes → /api/u/certificates
func UserCertificateRoutes(r fiber.Router, ctl *controller.UserCertificateController) {
	g := r.Group("/certificates")
	g.Get("/", ctl.ListMine)
	g.Post("/sign-off", ctl.SignOff)
	g.Get("/:id/file", ctl.Download)
}
