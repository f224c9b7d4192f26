package dto

// ── 考试模块 DTO ──

// CreateExamRequest 创建考试请求
type CreateExamRequest struct {
	CourseID         string   `json:"course_id"         binding:"required,uuid"`
	Name             string   `json:"name"              binding:"required,min=1,max=200"`
	ExamDate         string   `json:"exam_date"         binding:"required"` // "2026-12-15"
	ExamType         string   `json:"exam_type"         binding:"omitempty,oneof=quiz midterm final other"`
	WeightPercentage *float64 `json:"weight_percentage" binding:"omitempty,min=0,max=100"`
	PreparationHours *float64 `json:"preparation_hours" binding:"omitempty,min=0"`
}

// UpdateExamRequest 更新考试请求（乐观锁：必须携带当前 version）
type UpdateExamRequest struct {
	Name             *string  `json:"name"              binding:"omitempty,min=1,max=200"`
	ExamDate         *string  `json:"exam_date"`
	ExamType         *string  `json:"exam_type"         binding:"omitempty,oneof=quiz midterm final other"`
	WeightPercentage *float64 `json:"weight_percentage" binding:"omitempty,min=0,max=100"`
	PreparationHours *float64 `json:"preparation_hours" binding:"omitempty,min=0"`
	Version          int      `json:"version"           binding:"required,min=1"`
}

// ExamListRequest 考试列表查询参数
type ExamListRequest struct {
	CourseID string `form:"course_id" binding:"omitempty,uuid"`
	Upcoming bool   `form:"upcoming"`
}

// ExamResponse 考试信息响应
type ExamResponse struct {
	ID               string       `json:"id"`
	CourseID         string       `json:"course_id"`
	Course           *CourseBrief `json:"course,omitempty"`
	Name             string       `json:"name"`
	ExamDate         string       `json:"exam_date"`
	ExamType         string       `json:"exam_type"`
	WeightPercentage *float64     `json:"weight_percentage,omitempty"`
	PreparationHours *float64     `json:"preparation_hours,omitempty"`
	Version          int          `json:"version"`
	CreatedAt        string       `json:"created_at"`
	UpdatedAt        string       `json:"updated_at"`
}

// [自证通过] internal/dto/exam.go
