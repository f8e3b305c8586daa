package route

import (
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/features/assessments/questions/controller"
)

// QuestionTrainerRoutes → /api/t/questions (RoleCheck dipasang di parent group)
func QuestionTrainerRoutes(r fiber.Router, ctl *controller.QuestionController) {
	g := r.Group("/questions")

	g.Get("/", ctl.List)                            // GET    /api/t/questions?branch_id=&block_id=&type=&q=
	g.Get("/:id", ctl.Get)                          // GET    /api/t/questions/:id
	g.Post("/", ctl.Create)                         // POST   /api/t/questions
	g.Patch("/:id", ctl.Patch)                      // PATCH  /api/t/questions/:id
	g.Delete("/:id", ctl.Delete)                    // DELETE /api/t/questions/:id
	g.Post("/:id/attachment", ctl.UploadAttachment) // POST   /api/t/questions/:id/attachment
}
