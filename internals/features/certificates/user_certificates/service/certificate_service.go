// file: internals/features/certificates/user_certificates/service/certificate_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	gradesDTO "trainingku_backend/internals/features/assessments/grades/dto"
	"trainingku_backend/internals/features/certificates/user_certificates/model"
	"trainingku_backend/internals/features/certificates/user_certificates/pdf"
	"trainingku_backend/internals/features/certificates/user_certificates/repository"
	helper "trainingku_backend/internals/helpers"
	"trainingku_backend/internals/helpers/dbtime"
	helperOSS "trainingku_backend/internals/helpers/oss"
)

var (
	ErrCertificateNotFound = fiber.NewError(fiber.StatusNotFound, "Sertifikat tidak ditemukan")
	ErrWeightsIncomplete   = fiber.NewError(fiber.StatusUnprocessableEntity, "Bobot block branch ini belum genap 100")
	ErrBelowPassGrade      = fiber.NewError(fiber.StatusUnprocessableEntity, "Nilai akhir belum mencapai batas kelulusan")
	ErrNoGrades            = fiber.NewError(fiber.StatusUnprocessableEntity, "Belum ada tes yang dikumpulkan")
)

type GradeSource interface {
	Summary(ctx context.Context, userID, branchID uuid.UUID) (gradesDTO.GradesSummary, error)
}

type CertificateService struct {
	repo      repository.Repository
	grades    GradeSource
	blob      helperOSS.BlobService // nil = PDF hanya dirender saat diunduh
	passGrade float64
	now       func() time.Time
}

func NewCertificateService(repo repository.Repository, grades GradeSource, blob helperOSS.BlobService, passGrade float64) *CertificateService {
	return &CertificateService{
		repo:      repo,
		grades:    grades,
		blob:      blob,
		passGrade: passGrade,
		now:       dbtime.NowUTC,
	}
}

func (s *CertificateService) WithClock(now func() time.Time) *CertificateService {
	s.now = now
	return s
}

// SignOff menerbitkan sertifikat sekali per (user, branch). Pemanggilan ulang
// mengembalikan sertifikat yang sudah ada; created=false.
func (s *CertificateService) SignOff(ctx context.Context, userID uuid.UUID, userName string, branchID uuid.UUID) (*model.UserCertificateModel, bool, error) {
	if existing, err := s.repo.FindByUserBranch(ctx, userID, branchID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find certificate: %w", err)
	}

	sum, err := s.grades.Summary(ctx, userID, branchID)
	if err != nil {
		return nil, false, err
	}
	if !sum.WeightsComplete {
		return nil, false, ErrWeightsIncomplete
	}
	if len(sum.TestsDetail) == 0 {
		return nil, false, ErrNoGrades
	}
	if sum.NotaGlobal < s.passGrade {
		return nil, false, ErrBelowPassGrade
	}

	now := s.now()
	id := uuid.New()
	m := &model.UserCertificateModel{
		UserCertID:          id,
		UserCertUserID:      userID,
		UserCertBranchID:    branchID,
		UserCertUserName:    strings.TrimSpace(userName),
		UserCertSerial:      Serial(id, now),
		UserCertNotaGlobal:  sum.NotaGlobal,
		UserCertBlockLabels: blockLabels(sum),
		UserCertIssuedAt:    now,
	}

	var uploaded string
	if s.blob != nil {
		data, err := pdf.Render(renderData(m, sum))
		if err != nil {
			return nil, false, fmt.Errorf("render certificate: %w", err)
		}
		obj, err := s.blob.PutBytes(ctx, "branches/"+branchID.String()+"/certificates", m.UserCertSerial+".pdf", data, "application/pdf")
		if err != nil {
			log.Printf("[Certificate] upload gagal serial=%s: %v", m.UserCertSerial, err)
		} else {
			uploaded = obj.URL
			m.UserCertFileURL = &uploaded
		}
	}

	if err := s.repo.Create(ctx, m); err != nil {
		if uploaded != "" {
			_ = s.blob.DeleteByPublicURL(ctx, uploaded)
		}
		if helper.IsUniqueViolation(err) {
			// kalah balapan dengan sign-off paralel
			existing, ferr := s.repo.FindByUserBranch(ctx, userID, branchID)
			if ferr != nil {
				return nil, false, fmt.Errorf("find certificate after conflict: %w", ferr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create certificate: %w", err)
	}

	log.Printf("[Certificate] terbit serial=%s user=%s branch=%s nota=%.2f", m.UserCertSerial, userID, branchID, m.UserCertNotaGlobal)
	return m, true, nil
}

func (s *CertificateService) Get(ctx context.Context, id uuid.UUID) (*model.UserCertificateModel, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	return m, nil
}

func (s *CertificateService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserCertificateModel, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Render membangun ulang PDF dari nilai terkini per block; nota global tetap
// yang tercatat saat terbit.
func (s *CertificateService) Render(ctx context.Context, m *model.UserCertificateModel) ([]byte, error) {
	sum, err := s.grades.Summary(ctx, m.UserCertUserID, m.UserCertBranchID)
	if err != nil {
		return nil, err
	}
	return pdf.Render(renderData(m, sum))
}

// Serial: TK-YYYYMMDD-<8 hex pertama id>.
func Serial(id uuid.UUID, at time.Time) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return "TK-" + at.Format("20060102") + "-" + strings.ToUpper(hex[:8])
}

func blockLabels(sum gradesDTO.GradesSummary) []string {
	out := make([]string, 0, len(sum.Blocks))
	for _, b := range sum.Blocks {
		out = append(out, b.Label)
	}
	return out
}

func renderData(m *model.UserCertificateModel, sum gradesDTO.GradesSummary) pdf.CertificateData {
	lines := make([]pdf.BlockLine, 0, len(sum.Blocks))
	for _, b := range sum.Blocks {
		lines = append(lines, pdf.BlockLine{Label: b.Label, Weight: b.Weight, Average: b.Average})
	}
	return pdf.CertificateData{
		Serial:     m.UserCertSerial,
		UserName:   m.UserCertUserName,
		BranchID:   m.UserCertBranchID.String(),
		NotaGlobal: m.UserCertNotaGlobal,
		Blocks:     lines,
		IssuedAt:   dbtime.ToLocal(m.UserCertIssuedAt),
	}
}
