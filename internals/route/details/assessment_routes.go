// file: internals/route/details/assessment_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	assessmentRoute "trainingku_backend/internals/features/assessments/assessments/route"
	blockRoute "trainingku_backend/internals/features/assessments/blocks/route"
	gradesRoute "trainingku_backend/internals/features/assessments/grades/route"
	questionRoute "trainingku_backend/internals/features/assessments/questions/route"
	subtestRoute "trainingku_backend/internals/features/assessments/subtests/route"
)

/* ===================== USER (PRIVATE) ===================== */
// Peserta: assessment terbuka, subtest milik sendiri, rekap nilai
func AssessmentUserRoutes(r fiber.Router, c *Container) {
	blockRoute.BlockUserRoutes(r, c.Blocks)
	assessmentRoute.AssessmentUserRoutes(r, c.Assessments)
	subtestRoute.SubtestUserRoutes(r, c.Subtests)
	gradesRoute.GradesUserRoutes(r, c.Grades)
}

/* ===================== TRAINER ===================== */
// Trainer / admin / owner (RoleCheck di parent group)
func AssessmentTrainerRoutes(r fiber.Router, c *Container) {
	questionRoute.QuestionTrainerRoutes(r, c.Questions)
	blockRoute.BlockTrainerRoutes(r, c.Blocks)
	assessmentRoute.AssessmentTrainerRoutes(r, c.Assessments)
	subtestRoute.SubtestTrainerRoutes(r, c.Subtests)
	gradesRoute.GradesTrainerRoutes(r, c.Grades)
}
