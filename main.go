package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"trainingku_backend/internals/configs"
	database "trainingku_backend/internals/databases"
	assessmentModel "trainingku_backend/internals/features/assessments/assessments/model"
	"trainingku_backend/internals/features/assessments/assessments/scheduler"
	blockModel "trainingku_backend/internals/features/assessments/blocks/model"
	questionModel "trainingku_backend/internals/features/assessments/questions/model"
	"trainingku_backend/internals/features/assessments/semantic"
	subtestModel "trainingku_backend/internals/features/assessments/subtests/model"
	certModel "trainingku_backend/internals/features/certificates/user_certificates/model"
	"trainingku_backend/internals/features/realtime/broadcaster"
	helper "trainingku_backend/internals/helpers"
	helperOSS "trainingku_backend/internals/helpers/oss"
	middlewares "trainingku_backend/internals/middlewares"
	routes "trainingku_backend/internals/route"
	routeDetails "trainingku_backend/internals/route/details"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		BodyLimit:               20 * 1024 * 1024, // lampiran reset
		ErrorHandler:            errorHandler,
	})

	// ⚙️ middleware dasar + performa
	// SSE tidak boleh di-gzip / di-etag karena body-nya stream
	app.Use(compress.New(compress.Config{
		Level: compress.LevelDefault,
		Next:  isStream,
	}))
	app.Use(etag.New(etag.Config{Next: isStream}))

	// 🔎 Request-ID + timing + timeout guard
	app.Use(middlewares.RequestContext(5*time.Second, isStream))

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if configs.App.AutoMigrate {
		if err := database.AutoMigrate(database.DB,
			&questionModel.QuestionModel{},
			&blockModel.BlockModel{},
			&assessmentModel.AssessmentModel{},
			&subtestModel.SubtestModel{},
			&subtestModel.ResetLogModel{},
			&certModel.UserCertificateModel{},
		); err != nil {
			log.Fatalf("❌ AutoMigrate gagal: %v", err)
		}
	}

	// 🔌 opsional: Redis (realtime lintas instance) & Mongo (log reset)
	database.ConnectRedis()
	database.ConnectMongo()

	// ☁️ OSS opsional
	var blob helperOSS.BlobService
	if ossSvc, err := helperOSS.NewOSSServiceFromConfig(configs.App); err != nil {
		log.Printf("⚠️ OSS tidak aktif: %v", err)
	} else {
		blob = ossSvc
	}

	hub := broadcaster.New(database.Redis)

	container := routeDetails.NewContainer(routeDetails.Infra{
		DB:        database.DB,
		Mongo:     database.Mongo,
		Hub:       hub,
		Blob:      blob,
		Comparer:  semantic.NewComparer(configs.App),
		PassGrade: configs.App.CertPassGrade,
	})

	// ⏱ announcer setelah DB siap
	announcer, err := scheduler.NewAnnouncer(container.AssessmentRepo, hub).Start(scheduler.AnnouncerConfig{
		Schedule: configs.App.AnnouncerSchedule,
	})
	if err != nil {
		log.Fatalf("❌ Announcer gagal start: %v", err)
	}

	// ✅ Routes
	routes.SetupRoutes(app, container)

	// 🔒 Keep-Alive & timeout koneksi server
	// WriteTimeout dibiarkan 0: SSE long-lived
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.App.Port

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	<-announcer.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	database.CloseRedis()
	database.CloseMongo()
	database.Close()
}

func isStream(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), routes.StreamPath)
}

// errorHandler: error yang lolos dari handler (middleware auth, limiter, 404 route)
// tetap memakai envelope JSON yang sama.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
}
