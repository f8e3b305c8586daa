package details

import (
	"github.com/gofiber/fiber/v2"

	realtimeRoute "trainingku_backend/internals/features/realtime/route"
)

func RealtimeUserRoutes(r fiber.Router, c *Container) {
	realtimeRoute.RealtimeUserRoutes(r, c.Stream)
}
