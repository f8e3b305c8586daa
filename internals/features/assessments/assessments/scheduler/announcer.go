// file: internals/features/assessments/assessments/scheduler/announcer.go
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"trainingku_backend/internals/features/assessments/assessments/repository"
	"trainingku_backend/internals/features/realtime/broadcaster"
)

const announceBatch = 100

type AnnouncerConfig struct {
	Schedule string // ekspresi cron, contoh "@every 1m"
	Timeout  time.Duration
}

// Announcer mengumumkan assessment yang baru terbit, sekali per assessment.
// announced_at ditandai dulu (conditional), baru broadcast.
type Announcer struct {
	repo repository.Repository
	hub  broadcaster.Broadcaster
	now  func() time.Time
}

func NewAnnouncer(repo repository.Repository, hub broadcaster.Broadcaster) *Announcer {
	return &Announcer{repo: repo, hub: hub, now: time.Now}
}

func (a *Announcer) WithClock(now func() time.Time) *Announcer {
	a.now = now
	return a
}

// RunOnce: satu putaran poll. Mengembalikan jumlah assessment yang diumumkan proses ini.
func (a *Announcer) RunOnce(ctx context.Context) (int, error) {
	now := a.now().UTC()
	due, err := a.repo.ListDueForAnnouncement(ctx, now, announceBatch)
	if err != nil {
		return 0, err
	}

	announced := 0
	for i := range due {
		m := &due[i]
		won, err := a.repo.MarkAnnounced(ctx, m.AssessmentID, now)
		if err != nil {
			log.Printf("[ANNOUNCER] mark gagal id=%s: %v", m.AssessmentID, err)
			continue
		}
		if !won {
			// sudah diumumkan proses lain
			continue
		}
		broadcaster.Notify(ctx, a.hub, m.AssessmentBranchID, broadcaster.EventAssessmentPublished, map[string]any{
			"assessment_id":    m.AssessmentID,
			"name":             m.AssessmentName,
			"publication_date": m.AssessmentPublicationDate,
			"expiration_date":  m.AssessmentExpirationDate,
		})
		announced++
	}
	return announced, nil
}

// Start mendaftarkan job cron dan menjalankannya. Panggil Stop() saat shutdown.
func (a *Announcer) Start(cfg AnnouncerConfig) (*cron.Cron, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1m"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		n, err := a.RunOnce(ctx)
		if err != nil {
			log.Printf("[ANNOUNCER] error: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[ANNOUNCER] %d assessment diumumkan", n)
		}
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ANNOUNCER] started schedule=%q", cfg.Schedule)
	c.Start()
	return c, nil
}
