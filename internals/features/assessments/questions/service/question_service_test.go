package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingku_backend/internals/features/assessments/grading"
	"trainingku_backend/internals/features/assessments/questions/dto"
	"trainingku_backend/internals/features/assessments/questions/repository"
	helperOSS "trainingku_backend/internals/helpers/oss"
)

func singleReq(branch uuid.UUID, key string) dto.CreateQuestionRequest {
	ans := grading.TextAnswer(key)
	return dto.CreateQuestionRequest{
		BranchID:      branch,
		Statement:     "Ibukota Prancis?",
		Type:          "single",
		Options:       []string{"Paris", "Roma"},
		CorrectAnswer: &ans,
	}
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return 0
}

func TestQuestionService_CreateValidatesShape(t *testing.T) {
	svc := NewQuestionService(repository.NewInMemRepository(), nil)
	branch := uuid.New()

	m, err := svc.Create(context.Background(), singleReq(branch, "Paris"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.QuestionID)
	assert.JSONEq(t, `"Paris"`, string(m.QuestionCorrectAnswer))

	_, err = svc.Create(context.Background(), singleReq(branch, "Berlin"))
	assert.Equal(t, fiber.StatusUnprocessableEntity, statusOf(err))
}

func TestQuestionService_LockedQuestionIsImmutable(t *testing.T) {
	repo := repository.NewInMemRepository()
	svc := NewQuestionService(repo, nil)

	m, err := svc.Create(context.Background(), singleReq(uuid.New(), "Paris"))
	require.NoError(t, err)
	repo.Locked[m.QuestionID] = true

	stmt := "Diubah"
	_, err = svc.Patch(context.Background(), m, dto.PatchQuestionRequest{Statement: &stmt})
	assert.ErrorIs(t, err, ErrQuestionLocked)

	err = svc.Delete(context.Background(), m.QuestionID)
	assert.ErrorIs(t, err, ErrQuestionLocked)
}

func TestQuestionService_PatchSwitchToFormDynamic(t *testing.T) {
	svc := NewQuestionService(repository.NewInMemRepository(), nil)
	m, err := svc.Create(context.Background(), singleReq(uuid.New(), "Paris"))
	require.NoError(t, err)

	typ := "form-dynamic"
	_, err = svc.Patch(context.Background(), m, dto.PatchQuestionRequest{Type: &typ})
	assert.Equal(t, fiber.StatusUnprocessableEntity, statusOf(err))

	m, err = svc.Patch(context.Background(), m, dto.PatchQuestionRequest{Type: &typ, ClearAnswerKey: true})
	require.NoError(t, err)
	assert.Equal(t, "form-dynamic", m.QuestionType)
	assert.Empty(t, m.QuestionCorrectAnswer)
}

func TestQuestionService_SnapshotKeepsOrderAndReportsMissing(t *testing.T) {
	svc := NewQuestionService(repository.NewInMemRepository(), nil)
	branch := uuid.New()

	a, err := svc.Create(context.Background(), singleReq(branch, "Paris"))
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), singleReq(branch, "Roma"))
	require.NoError(t, err)

	qs, err := svc.Snapshot(context.Background(), branch, []uuid.UUID{b.QuestionID, a.QuestionID, b.QuestionID})
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, b.QuestionID.String(), qs[0].ID)
	assert.Equal(t, "Roma", qs[0].CorrectAnswer.Text)

	_, err = svc.Snapshot(context.Background(), uuid.New(), []uuid.UUID{a.QuestionID})
	assert.Equal(t, fiber.StatusUnprocessableEntity, statusOf(err))
}

func TestQuestionService_UploadAttachment(t *testing.T) {
	blob := helperOSS.NewMemoryBlobService()
	svc := NewQuestionService(repository.NewInMemRepository(), blob)
	m, err := svc.Create(context.Background(), singleReq(uuid.New(), "Paris"))
	require.NoError(t, err)

	fh := formFile(t, "file", "materi.pdf", []byte("%PDF-1.4 test"))
	m, err = svc.UploadAttachment(context.Background(), m, fh)
	require.NoError(t, err)

	q, err := m.ToGrading()
	require.NoError(t, err)
	require.NotNil(t, q.Attachment)
	assert.Equal(t, "pdf", q.Attachment.Type)
	assert.Equal(t, "materi.pdf", q.Attachment.Name)
	assert.Len(t, blob.Objects, 1)
}

func TestQuestionService_UploadWithoutStorage(t *testing.T) {
	svc := NewQuestionService(repository.NewInMemRepository(), nil)
	m, err := svc.Create(context.Background(), singleReq(uuid.New(), "Paris"))
	require.NoError(t, err)

	_, err = svc.UploadAttachment(context.Background(), m, nil)
	assert.ErrorIs(t, err, helperOSS.ErrStorageNotConfigured)
}

// formFile membangun *multipart.FileHeader lewat request multipart sungguhan.
func formFile(t *testing.T, field, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}
