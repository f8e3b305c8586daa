package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/certificates/user_certificates/model"
)

// Repository sertifikat. Record tidak ada → gorm.ErrRecordNotFound.
type Repository interface {
	Create(ctx context.Context, m *model.UserCertificateModel) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UserCertificateModel, error)
	FindByUserBranch(ctx context.Context, userID, branchID uuid.UUID) (*model.UserCertificateModel, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserCertificateModel, error)
}

/* =========================================================
   GORM
========================================================= */

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, m *model.UserCertificateModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.UserCertificateModel, error) {
	var m model.UserCertificateModel
	if err := r.db.WithContext(ctx).Where("user_cert_id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) FindByUserBranch(ctx context.Context, userID, branchID uuid.UUID) (*model.UserCertificateModel, error) {
	var m model.UserCertificateModel
	err := r.db.WithContext(ctx).
		Where("user_cert_user_id = ? AND user_cert_branch_id = ?", userID, branchID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserCertificateModel, error) {
	var out []model.UserCertificateModel
	err := r.db.WithContext(ctx).
		Where("user_cert_user_id = ?", userID).
		Order("user_cert_issued_at DESC").
		Find(&out).Error
	return out, err
}

/* =========================================================
   In-memory (test)
========================================================= */

// ErrDuplicate meniru unique violation (user, branch) di repo memori.
var ErrDuplicate = gorm.ErrDuplicatedKey

type InMemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]model.UserCertificateModel
}

func NewInMemRepository() *InMemRepository {
	return &InMemRepository{items: map[uuid.UUID]model.UserCertificateModel{}}
}

func (r *InMemRepository) Create(_ context.Context, m *model.UserCertificateModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.UserCertUserID == m.UserCertUserID && it.UserCertBranchID == m.UserCertBranchID {
			return ErrDuplicate
		}
	}
	if m.UserCertID == uuid.Nil {
		m.UserCertID = uuid.New()
	}
	r.items[m.UserCertID] = *m
	return nil
}

func (r *InMemRepository) FindByID(_ context.Context, id uuid.UUID) (*model.UserCertificateModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *InMemRepository) FindByUserBranch(_ context.Context, userID, branchID uuid.UUID) (*model.UserCertificateModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.items {
		if m.UserCertUserID == userID && m.UserCertBranchID == branchID {
			return &m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *InMemRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]model.UserCertificateModel, error) {
	r.mu.RLock()
	out := []model.UserCertificateModel{}
	for _, m := range r.items {
		if m.UserCertUserID == userID {
			out = append(out, m)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].UserCertIssuedAt.After(out[j].UserCertIssuedAt) })
	return out, nil
}
