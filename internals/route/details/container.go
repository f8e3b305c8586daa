// file: internals/route/details/container.go
package details

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	assessmentController "trainingku_backend/internals/features/assessments/assessments/controller"
	assessmentRepo "trainingku_backend/internals/features/assessments/assessments/repository"
	assessmentService "trainingku_backend/internals/features/assessments/assessments/service"
	blockController "trainingku_backend/internals/features/assessments/blocks/controller"
	blockRepo "trainingku_backend/internals/features/assessments/blocks/repository"
	blockService "trainingku_backend/internals/features/assessments/blocks/service"
	gradesController "trainingku_backend/internals/features/assessments/grades/controller"
	gradesService "trainingku_backend/internals/features/assessments/grades/service"
	"trainingku_backend/internals/features/assessments/grading"
	questionController "trainingku_backend/internals/features/assessments/questions/controller"
	questionRepo "trainingku_backend/internals/features/assessments/questions/repository"
	questionService "trainingku_backend/internals/features/assessments/questions/service"
	subtestController "trainingku_backend/internals/features/assessments/subtests/controller"
	subtestRepo "trainingku_backend/internals/features/assessments/subtests/repository"
	subtestService "trainingku_backend/internals/features/assessments/subtests/service"
	certController "trainingku_backend/internals/features/certificates/user_certificates/controller"
	certRepo "trainingku_backend/internals/features/certificates/user_certificates/repository"
	certService "trainingku_backend/internals/features/certificates/user_certificates/service"
	"trainingku_backend/internals/features/realtime/broadcaster"
	streamController "trainingku_backend/internals/features/realtime/controller"
	helperOSS "trainingku_backend/internals/helpers/oss"
)

// Infra: koneksi & klien yang dibuat di main. Mongo, Blob, dan Comparer boleh nil.
type Infra struct {
	DB        *gorm.DB
	Mongo     *mongo.Database
	Hub       broadcaster.Broadcaster
	Blob      helperOSS.BlobService
	Comparer  grading.Comparer
	PassGrade float64
}

// Container menyimpan controller yang sudah dirakit, dipakai bersama oleh semua group route.
type Container struct {
	AssessmentRepo assessmentRepo.Repository

	Questions    *questionController.QuestionController
	Blocks       *blockController.BlockController
	Assessments  *assessmentController.AssessmentController
	Subtests     *subtestController.SubtestController
	Grades       *gradesController.GradesController
	Certificates *certController.UserCertificateController
	Stream       *streamController.StreamController
}

func NewContainer(inf Infra) *Container {
	qRepo := questionRepo.NewGormRepository(inf.DB)
	bRepo := blockRepo.NewGormRepository(inf.DB)
	aRepo := assessmentRepo.NewGormRepository(inf.DB)
	sRepo := subtestRepo.NewGormRepository(inf.DB)

	qSvc := questionService.NewQuestionService(qRepo, inf.Blob)
	bSvc := blockService.NewBlockService(bRepo)
	aSvc := assessmentService.NewAssessmentService(aRepo, qSvc, bSvc)
	sSvc := subtestService.NewSubtestService(subtestService.Deps{
		Repo:        sRepo,
		ResetLogs:   resetLogStore(inf),
		Assessments: aSvc,
		Blocks:      bSvc,
		Comparer:    inf.Comparer,
		Hub:         inf.Hub,
		Blob:        inf.Blob,
	})
	gSvc := gradesService.NewGradesService(sRepo, bRepo)
	cSvc := certService.NewCertificateService(certRepo.NewGormRepository(inf.DB), gSvc, inf.Blob, inf.PassGrade)

	return &Container{
		AssessmentRepo: aRepo,
		Questions:      questionController.NewQuestionController(qSvc),
		Blocks:         blockController.NewBlockController(bSvc),
		Assessments:    assessmentController.NewAssessmentController(aSvc),
		Subtests:       subtestController.NewSubtestController(sSvc),
		Grades:         gradesController.NewGradesController(gSvc),
		Certificates:   certController.NewUserCertificateController(cSvc),
		Stream:         streamController.NewStreamController(inf.Hub),
	}
}

// resetLogStore: MongoDB kalau tersedia, fallback tabel subtest_reset_logs.
func resetLogStore(inf Infra) subtestRepo.ResetLogStore {
	if inf.Mongo == nil {
		return subtestRepo.NewGormResetLogStore(inf.DB)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := subtestRepo.EnsureResetLogIndexes(ctx, inf.Mongo); err != nil {
		log.Printf("⚠️ Gagal membuat index reset log Mongo: %v", err)
	}
	return subtestRepo.NewMongoResetLogStore(inf.Mongo)
}
