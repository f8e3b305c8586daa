package route

import (
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/realtime/controller"
)

// RealtimeUserRoutes → /api/u/events/stream
func RealtimeUserRoutes(r fiber.Router, ctl *controller.StreamController) {
	r.Get("/events/stream", ctl.Stream)
}
