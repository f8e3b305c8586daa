package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gradesDTO "trainingku_backend/internals/features/assessments/grades/dto"
	"trainingku_backend/internals/features/certificates/user_certificates/repository"
	helperOSS "trainingku_backend/internals/helpers/oss"
)

type fakeGrades struct {
	sum   gradesDTO.GradesSummary
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeGrades) Summary(_ context.Context, userID, branchID uuid.UUID) (gradesDTO.GradesSummary, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	s := f.sum
	s.UserID, s.BranchID = userID, branchID
	return s, f.err
}

func passing(nota float64) gradesDTO.GradesSummary {
	return gradesDTO.GradesSummary{
		Blocks: []gradesDTO.BlockGrade{
			{BlockID: uuid.New(), Label: "Teori", Weight: 60, Average: nota},
			{BlockID: uuid.New(), Label: "Praktik", Weight: 40, Average: nota},
		},
		NotaGlobal:      nota,
		WeightsTotal:    100,
		WeightsComplete: true,
		TestsDetail:     []gradesDTO.TestDetail{{SubtestID: uuid.New(), Score: int(nota)}},
	}
}

var fixedNow = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func newSvc(g GradeSource, blob helperOSS.BlobService) (*CertificateService, *repository.InMemRepository) {
	repo := repository.NewInMemRepository()
	svc := NewCertificateService(repo, g, blob, 70).WithClock(func() time.Time { return fixedNow })
	return svc, repo
}

func TestSignOff_IssuesAndUploads(t *testing.T) {
	blob := helperOSS.NewMemoryBlobService()
	svc, _ := newSvc(&fakeGrades{sum: passing(82.5)}, blob)
	user, branch := uuid.New(), uuid.New()

	m, created, err := svc.SignOff(context.Background(), user, "  Budi Santoso ", branch)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Budi Santoso", m.UserCertUserName)
	assert.Equal(t, 82.5, m.UserCertNotaGlobal)
	assert.Equal(t, []string{"Teori", "Praktik"}, []string(m.UserCertBlockLabels))
	assert.True(t, strings.HasPrefix(m.UserCertSerial, "TK-20250701-"))
	require.NotNil(t, m.UserCertFileURL)

	require.Len(t, blob.Objects, 1)
	for key, data := range blob.Objects {
		assert.Contains(t, key, "branches/"+branch.String()+"/certificates/")
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	}
}

func TestSignOff_IsIdempotent(t *testing.T) {
	g := &fakeGrades{sum: passing(90)}
	svc, _ := newSvc(g, nil)
	user, branch := uuid.New(), uuid.New()

	first, created, err := svc.SignOff(context.Background(), user, "Ana", branch)
	require.NoError(t, err)
	require.True(t, created)
	assert.Nil(t, first.UserCertFileURL)

	g.sum = passing(40)
	again, created, err := svc.SignOff(context.Background(), user, "Ana", branch)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.UserCertID, again.UserCertID)
	assert.Equal(t, 90.0, again.UserCertNotaGlobal)
}

func TestSignOff_Rejections(t *testing.T) {
	incomplete := passing(95)
	incomplete.WeightsComplete = false
	incomplete.WeightsTotal = 60

	noTests := passing(95)
	noTests.TestsDetail = nil

	tests := []struct {
		name string
		sum  gradesDTO.GradesSummary
		want error
	}{
		{name: "weights incomplete", sum: incomplete, want: ErrWeightsIncomplete},
		{name: "below pass grade", sum: passing(69.99), want: ErrBelowPassGrade},
		{name: "nothing submitted", sum: noTests, want: ErrNoGrades},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newSvc(&fakeGrades{sum: tt.sum}, nil)
			_, _, err := svc.SignOff(context.Background(), uuid.New(), "X", uuid.New())
			assert.ErrorIs(t, err, tt.want)

			list, _ := repo.ListByUser(context.Background(), uuid.New())
			assert.Empty(t, list)
		})
	}
}

func TestSignOff_PassGradeIsInclusive(t *testing.T) {
	svc, _ := newSvc(&fakeGrades{sum: passing(70)}, nil)
	_, created, err := svc.SignOff(context.Background(), uuid.New(), "X", uuid.New())
	require.NoError(t, err)
	assert.True(t, created)
}

func TestSignOff_GradeSourceError(t *testing.T) {
	boom := errors.New("db down")
	svc, _ := newSvc(&fakeGrades{err: boom}, nil)
	_, _, err := svc.SignOff(context.Background(), uuid.New(), "X", uuid.New())
	assert.ErrorIs(t, err, boom)
}

func TestSignOff_ConcurrentCallsIssueOnce(t *testing.T) {
	svc, repo := newSvc(&fakeGrades{sum: passing(88)}, nil)
	user, branch := uuid.New(), uuid.New()

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, _, err := svc.SignOff(context.Background(), user, "Ana", branch)
			if assert.NoError(t, err) {
				ids[i] = m.UserCertID
			}
		}(i)
	}
	wg.Wait()

	list, err := repo.ListByUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	for _, id := range ids {
		assert.Equal(t, list[0].UserCertID, id)
	}
}

func TestGetAndRender(t *testing.T) {
	svc, _ := newSvc(&fakeGrades{sum: passing(75)}, nil)
	m, _, err := svc.SignOff(context.Background(), uuid.New(), "Ana", uuid.New())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), m.UserCertID)
	require.NoError(t, err)

	out, err := svc.Render(context.Background(), got)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCertificateNotFound)
}

func TestSerial(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-0000-4000-8000-000000000000")
	assert.Equal(t, "TK-20250701-A1B2C3D4", Serial(id, fixedNow))
}
