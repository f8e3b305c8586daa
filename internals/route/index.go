// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/configs"
	"trainingku_backend/internals/constants"
	authMiddleware "trainingku_backend/internals/middlewares/auth"
	routeDetails "trainingku_backend/internals/route/details"
)

var startTime time.Time

// StreamPath dipakai main untuk melewati timeout guard RequestContext.
const StreamPath = "/api/u/events/stream"

func SetupRoutes(app *fiber.App, c *routeDetails.Container) {
	startTime = time.Now()

	BaseRoutes(app)

	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u", jwt)

	// ===================== TRAINER =====================
	log.Println("[INFO] Setting up TRAINER group (Auth + RoleCheck)...")
	trainer := app.Group("/api/t",
		jwt,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorTrainer("assessment"), constants.TrainerAndAbove),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Assessment routes...")
	routeDetails.AssessmentUserRoutes(private, c)
	routeDetails.AssessmentTrainerRoutes(trainer, c)

	log.Println("[INFO] Mounting Certificate routes...")
	routeDetails.CertificateUserRoutes(private, c)

	log.Println("[INFO] Mounting Realtime routes...")
	routeDetails.RealtimeUserRoutes(private, c)
}
