package route

import (
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/assessments/grades/controller"
)

// GradesUserRoutes → /api/u/grades
func GradesUserRoutes(r fiber.Router, ctl *controller.GradesController) {
	r.Get("/grades/summary", ctl.MySummary)
}

// GradesTrainerRoutes → /api/t/grades
func GradesTrainerRoutes(r fiber.Router, ctl *controller.GradesController) {
	r.Get("/grades/summary", ctl.UserSummary)
}
