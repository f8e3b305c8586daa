package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingku_backend/internals/features/assessments/assessments/model"
	"trainingku_backend/internals/features/assessments/assessments/repository"
	"trainingku_backend/internals/features/realtime/broadcaster"
)

func seed(t *testing.T, repo *repository.InMemRepository, branch uuid.UUID, pub, exp *time.Time) uuid.UUID {
	t.Helper()
	m := &model.AssessmentModel{
		AssessmentBranchID:        branch,
		AssessmentName:            "Onboarding",
		AssessmentPublicationDate: pub,
		AssessmentExpirationDate:  exp,
	}
	require.NoError(t, repo.Create(context.Background(), m))
	return m.AssessmentID
}

func at(t time.Time) *time.Time { return &t }

func TestAnnouncer_AnnouncesPublishedOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	branch := uuid.New()
	repo := repository.NewInMemRepository()
	published := seed(t, repo, branch, at(now.Add(-time.Minute)), nil)
	seed(t, repo, branch, at(now.Add(time.Hour)), nil)                        // belum terbit
	seed(t, repo, branch, at(now.Add(-2*time.Hour)), at(now.Add(-time.Hour))) // sudah lewat
	seed(t, repo, branch, nil, nil)                                           // draft

	rec := &broadcaster.Recorder{}
	a := NewAnnouncer(repo, rec).WithClock(func() time.Time { return now })

	n, err := a.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, rec.Events, 1)
	assert.Equal(t, broadcaster.EventAssessmentPublished, rec.Events[0].Event)
	assert.Equal(t, branch, rec.Events[0].BranchID)
	assert.Equal(t, published, rec.Events[0].Payload.(map[string]any)["assessment_id"])

	// poll berikutnya (atau proses yang baru restart) tidak mengumumkan ulang
	n, err = a.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, rec.Count(broadcaster.EventAssessmentPublished))

	stored, err := repo.FindByID(context.Background(), published)
	require.NoError(t, err)
	require.NotNil(t, stored.AssessmentAnnouncedAt)
	assert.True(t, stored.AssessmentAnnouncedAt.Equal(now))
}

func TestAnnouncer_ConcurrentProcessesAnnounceAtMostOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := repository.NewInMemRepository()
	for i := 0; i < 5; i++ {
		seed(t, repo, uuid.New(), at(now.Add(-time.Minute)), nil)
	}

	rec := &broadcaster.Recorder{}
	clock := func() time.Time { return now }
	a1 := NewAnnouncer(repo, rec).WithClock(clock)
	a2 := NewAnnouncer(repo, rec).WithClock(clock)

	done := make(chan int, 2)
	for _, a := range []*Announcer{a1, a2} {
		go func(a *Announcer) {
			n, _ := a.RunOnce(context.Background())
			done <- n
		}(a)
	}
	total := <-done + <-done

	assert.Equal(t, 5, total)
	assert.Equal(t, 5, rec.Count(broadcaster.EventAssessmentPublished))
}

func TestAnnouncer_BroadcastFailureStillMarks(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := repository.NewInMemRepository()
	id := seed(t, repo, uuid.New(), at(now.Add(-time.Minute)), nil)

	rec := &broadcaster.Recorder{Err: assert.AnError}
	n, err := NewAnnouncer(repo, rec).WithClock(func() time.Time { return now }).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, _ := repo.FindByID(context.Background(), id)
	assert.NotNil(t, stored.AssessmentAnnouncedAt)
}

func TestAnnouncer_StartRejectsBadSchedule(t *testing.T) {
	a := NewAnnouncer(repository.NewInMemRepository(), &broadcaster.Recorder{})
	_, err := a.Start(AnnouncerConfig{Schedule: "not a cron"})
	assert.Error(t, err)

	c, err := a.Start(AnnouncerConfig{Schedule: "@every 1h"})
	require.NoError(t, err)
	c.Stop()
}
