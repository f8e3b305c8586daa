package repository

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/subtests/model"
)

const resetLogCollection = "subtest_reset_logs"

/* =========================================================
   MongoDB
========================================================= */

type resetLogDoc struct {
	ID            string                  `bson:"_id"`
	SubtestID     string                  `bson:"subtest_id"`
	NewSubtestID  string                  `bson:"new_subtest_id"`
	AssessmentID  string                  `bson:"assessment_id"`
	BranchID      string                  `bson:"branch_id"`
	UserID        string                  `bson:"user_id"`
	Reason        string                  `bson:"reason"`
	Attachments   []model.ResetAttachment `bson:"attachments"`
	PreviousScore *int                    `bson:"previous_score,omitempty"`
	ActorID       string                  `bson:"actor_id"`
	At            time.Time               `bson:"at"`
}

type mongoResetLogStore struct {
	col *mongo.Collection
}

func NewMongoResetLogStore(db *mongo.Database) ResetLogStore {
	return &mongoResetLogStore{col: db.Collection(resetLogCollection)}
}

// EnsureResetLogIndexes membuat index pencarian per subtest. Aman dipanggil berulang.
func EnsureResetLogIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(resetLogCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subtest_id", Value: 1}}},
		{Keys: bson.D{{Key: "new_subtest_id", Value: 1}}},
		{Keys: bson.D{{Key: "branch_id", Value: 1}, {Key: "at", Value: -1}}},
	})
	return err
}

func (s *mongoResetLogStore) Insert(ctx context.Context, l *model.ResetLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	_, err := s.col.InsertOne(ctx, resetLogDoc{
		ID:            l.ID.String(),
		SubtestID:     l.SubtestID.String(),
		NewSubtestID:  l.NewSubtestID.String(),
		AssessmentID:  l.AssessmentID.String(),
		BranchID:      l.BranchID.String(),
		UserID:        l.UserID.String(),
		Reason:        l.Reason,
		Attachments:   l.Attachments,
		PreviousScore: l.PreviousScore,
		ActorID:       l.ActorID.String(),
		At:            l.At,
	})
	return err
}

func (s *mongoResetLogStore) ListBySubtest(ctx context.Context, subtestID uuid.UUID) ([]model.ResetLog, error) {
	id := subtestID.String()
	cur, err := s.col.Find(ctx,
		bson.M{"$or": []bson.M{{"subtest_id": id}, {"new_subtest_id": id}}},
		options.Find().SetSort(bson.D{{Key: "at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []resetLogDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.ResetLog, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.ResetLog{
			ID:            uuid.MustParse(d.ID),
			SubtestID:     uuid.MustParse(d.SubtestID),
			NewSubtestID:  uuid.MustParse(d.NewSubtestID),
			AssessmentID:  uuid.MustParse(d.AssessmentID),
			BranchID:      uuid.MustParse(d.BranchID),
			UserID:        uuid.MustParse(d.UserID),
			Reason:        d.Reason,
			Attachments:   d.Attachments,
			PreviousScore: d.PreviousScore,
			ActorID:       uuid.MustParse(d.ActorID),
			At:            d.At,
		})
	}
	return out, nil
}

/* =========================================================
   PostgreSQL (fallback tanpa Mongo)
========================================================= */

type gormResetLogStore struct {
	db *gorm.DB
}

func NewGormResetLogStore(db *gorm.DB) ResetLogStore {
	return &gormResetLogStore{db: db}
}

func (s *gormResetLogStore) Insert(ctx context.Context, l *model.ResetLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	att, err := json.Marshal(l.Attachments)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&model.ResetLogModel{
		ResetLogID:            l.ID,
		ResetLogSubtestID:     l.SubtestID,
		ResetLogNewSubtestID:  l.NewSubtestID,
		ResetLogAssessmentID:  l.AssessmentID,
		ResetLogBranchID:      l.BranchID,
		ResetLogUserID:        l.UserID,
		ResetLogReason:        l.Reason,
		ResetLogAttachments:   datatypes.JSON(att),
		ResetLogPreviousScore: l.PreviousScore,
		ResetLogActorID:       l.ActorID,
		ResetLogAt:            l.At,
	}).Error
}

func (s *gormResetLogStore) ListBySubtest(ctx context.Context, subtestID uuid.UUID) ([]model.ResetLog, error) {
	var rows []model.ResetLogModel
	err := s.db.WithContext(ctx).
		Where("reset_log_subtest_id = ? OR reset_log_new_subtest_id = ?", subtestID, subtestID).
		Order("reset_log_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]model.ResetLog, 0, len(rows))
	for _, r := range rows {
		var att []model.ResetAttachment
		_ = json.Unmarshal(r.ResetLogAttachments, &att)
		out = append(out, model.ResetLog{
			ID:            r.ResetLogID,
			SubtestID:     r.ResetLogSubtestID,
			NewSubtestID:  r.ResetLogNewSubtestID,
			AssessmentID:  r.ResetLogAssessmentID,
			BranchID:      r.ResetLogBranchID,
			UserID:        r.ResetLogUserID,
			Reason:        r.ResetLogReason,
			Attachments:   att,
			PreviousScore: r.ResetLogPreviousScore,
			ActorID:       r.ResetLogActorID,
			At:            r.ResetLogAt,
		})
	}
	return out, nil
}

/* =========================================================
   In-memory (test)
========================================================= */

type InMemResetLogStore struct {
	mu   sync.Mutex
	Logs []model.ResetLog
}

func (s *InMemResetLogStore) Insert(_ context.Context, l *model.ResetLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	s.Logs = append(s.Logs, *l)
	return nil
}

func (s *InMemResetLogStore) ListBySubtest(_ context.Context, subtestID uuid.UUID) ([]model.ResetLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.ResetLog{}
	for _, l := range s.Logs {
		if l.SubtestID == subtestID || l.NewSubtestID == subtestID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}
