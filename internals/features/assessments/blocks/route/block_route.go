package route

import (
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/assessments/blocks/controller"
)

// BlockTrainerRoutes → /api/t/blocks
func BlockTrainerRoutes(r fiber.Router, ctl *controller.BlockController) {
	g := r.Group("/blocks")

	g.Get("/", ctl.List)           // ?branch_id=&active_only=
	g.Get("/weights", ctl.Weights) // ?branch_id=
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
}

// BlockUserRoutes → /api/u/blocks (read-only)
func BlockUserRoutes(r fiber.Router, ctl *controller.BlockController) {
	r.Get("/blocks", ctl.List)
}
