package details

import (
	"github.com/gofiber/fiber/v2"

	certRoute "trainingku_backend/internals/features/certificates/user_certificates/route"
)

func CertificateUserRoutes(r fiber.Router, c *Container) {
	certRoute.UserCertificateRoutes(r, c.Certificates)
}
