package route

import (
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/assessments/subtests/controller"
	"trainingku_backend/internals/middlewares"
)

// SubtestTrainerRoutes → /api/t
func SubtestTrainerRoutes(r fiber.Router, ctl *controller.SubtestController) {
	r.Post("/assessments/:id/subtests", ctl.Generate)
	r.Get("/assessments/:id/subtests", ctl.ListByAssessment)

	g := r.Group("/subtests")
	g.Get("/:id", ctl.Get)
	g.Post("/:id/reset", ctl.Reset)
	g.Get("/:id/resets", ctl.Resets)
}

// SubtestUserRoutes → /api/u/subtests
func SubtestUserRoutes(r fiber.Router, ctl *controller.SubtestController) {
	g := r.Group("/subtests")
	g.Get("/", ctl.ListMine)
	g.Get("/:id", ctl.GetMine)
	g.Post("/:id/submit", middlewares.SubmitRateLimiter(), ctl.Submit)
}
