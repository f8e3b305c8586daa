package route

import (
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/assessments/assessments/controller"
)

// AssessmentTrainerRoutes → /api/t/assessments
// Pembagian subtest (/assessments/:id/subtests) dipasang oleh route subtests.
func AssessmentTrainerRoutes(r fiber.Router, ctl *controller.AssessmentController) {
	g := r.Group("/assessments")

	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Patch)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/lock", ctl.Lock)
}

// AssessmentUserRoutes → /api/u/assessments
func AssessmentUserRoutes(r fiber.Router, ctl *controller.AssessmentController) {
	r.Get("/assessments", ctl.ListOpen)
}
