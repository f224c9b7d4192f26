package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"studyflow/backend/internal/dto"
	"studyflow/backend/internal/model"
)

// ── 测试辅助 ──

// 2026-09-07 是周一；09-05/09-06 是周末
const testLearnerID = "learner-1"

func setupTestPlannerService() (PlannerService, *mockCourseRepo, *mockExamRepo, *mockPreferenceRepo, *mockStudySessionRepo) {
	repo, courseRepo, examRepo, prefRepo, sessionRepo := newMockRepository()
	svc := NewPlannerService(repo, DefaultPlannerConfig(), zap.NewNop())
	return svc, courseRepo, examRepo, prefRepo, sessionRepo
}

func seedPreference(prefRepo *mockPreferenceRepo) {
	prefRepo.prefs[testLearnerID] = &model.LearningPreference{
		PreferenceID: "pref-1",
		LearnerID:    testLearnerID,
		StudyStyle:   "balanced",
		PreferredTimes: model.TimeOfDayList{
			{Hour: 9, Minute: 0},
			{Hour: 14, Minute: 0},
			{Hour: 19, Minute: 0},
		},
		DailyStudyHours:        4.0,
		SessionDurationMinutes: 90,
		BreakMinutes:           90,
		ReviewFrequencyDays:    7,
	}
}

func seedCourse(courseRepo *mockCourseRepo, id, code string, totalHours, completedHours float64) *model.Course {
	course := &model.Course{
		CourseID:           id,
		LearnerID:          testLearnerID,
		Code:               code,
		Name:               "课程 " + code,
		Difficulty:         "medium",
		Priority:           "medium",
		TotalHoursRequired: totalHours,
		HoursCompleted:     completedHours,
	}
	courseRepo.courses = append(courseRepo.courses, course)
	return course
}

func seedExam(examRepo *mockExamRepo, id, courseID, date string, prepHours *float64) *model.Exam {
	examDate, _ := time.Parse("2006-01-02", date)
	exam := &model.Exam{
		ExamID:           id,
		CourseID:         courseID,
		LearnerID:        testLearnerID,
		Name:             "考试 " + id,
		ExamDate:         examDate,
		ExamType:         "final",
		PreparationHours: prepHours,
	}
	examRepo.exams[id] = exam
	return exam
}

func floatPtr(v float64) *float64 { return &v }

// ════════════════════════════════════════════════════════════
// GenerateSchedule 测试
// ════════════════════════════════════════════════════════════

func TestPlannerService_Generate_SkipsWeekends(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, _ := setupTestPlannerService()
	seedPreference(prefRepo)
	seedCourse(courseRepo, "course-1", "CS101", 40, 0)
	seedExam(examRepo, "exam-1", "course-1", "2026-09-18", floatPtr(20))

	req := &dto.GenerateScheduleRequest{StartDate: "2026-09-01", EndDate: "2026-09-13"}
	result, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}
	if result.Count == 0 {
		t.Fatal("计划不应为空")
	}

	for _, s := range result.Sessions {
		day, _ := time.Parse("2006-01-02", s.SessionDate)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("周末不应有学习时段，但 %s 是 %v", s.SessionDate, wd)
		}
	}
}

func TestPlannerService_Generate_RespectsDailyBudget(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, _ := setupTestPlannerService()
	seedPreference(prefRepo)
	// 4 门课都有临近考试且需求量大，单日预算 4 小时必然吃紧
	for i, id := range []string{"course-1", "course-2", "course-3", "course-4"} {
		seedCourse(courseRepo, id, "C"+string(rune('A'+i)), 60, 0)
		seedExam(examRepo, "exam-"+id, id, "2026-09-14", floatPtr(30))
	}

	req := &dto.GenerateScheduleRequest{StartDate: "2026-09-07", EndDate: "2026-09-11"}
	result, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}

	dailyMinutes := make(map[string]int)
	for _, s := range result.Sessions {
		dailyMinutes[s.SessionDate] += s.DurationMinutes
		if s.DurationMinutes > 90 {
			t.Errorf("单时段不应超过 90 分钟，实际=%d", s.DurationMinutes)
		}
	}
	for date, minutes := range dailyMinutes {
		if minutes > 240 {
			t.Errorf("%s 的学习总量 %d 分钟超出每日 4 小时预算", date, minutes)
		}
	}
}

func TestPlannerService_Generate_UrgentExamFirst(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, _ := setupTestPlannerService()
	seedPreference(prefRepo)
	// 先插入远期考试的课程，验证排序按分数而非插入顺序
	seedCourse(courseRepo, "course-far", "FAR", 40, 0)
	seedCourse(courseRepo, "course-near", "NEAR", 40, 0)
	seedExam(examRepo, "exam-far", "course-far", "2026-09-28", floatPtr(20)) // 21 天后
	seedExam(examRepo, "exam-near", "course-near", "2026-09-11", floatPtr(20)) // 4 天后

	req := &dto.GenerateScheduleRequest{StartDate: "2026-09-07", EndDate: "2026-09-07"}
	result, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}
	if len(result.Sessions) < 2 {
		t.Fatalf("期望 2 个时段，实际=%d", len(result.Sessions))
	}

	// 最紧迫课程拿第一个偏好时刻
	first := result.Sessions[0]
	if first.CourseID != "course-near" {
		t.Errorf("期望临近考试课程排第一，实际=%s", first.CourseID)
	}
	if first.StartTime != "09:00" {
		t.Errorf("期望第一时段从 09:00 开始，实际=%s", first.StartTime)
	}
	second := result.Sessions[1]
	if second.StartTime != "14:00" {
		t.Errorf("期望第二时段从 14:00 开始，实际=%s", second.StartTime)
	}
}

func TestPlannerService_Generate_SessionPacking(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, _ := setupTestPlannerService()
	seedPreference(prefRepo)
	seedCourse(courseRepo, "course-1", "CS101", 40, 0)
	// 4 天后考试，备考 10 小时：10/4=2.5h，受 90 分钟时段上限截断为 1.5h
	exam := seedExam(examRepo, "exam-1", "course-1", "2026-09-11", floatPtr(10))
	exam.Name = "期末考试"

	req := &dto.GenerateScheduleRequest{StartDate: "2026-09-07", EndDate: "2026-09-07"}
	result, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}
	if len(result.Sessions) != 1 {
		t.Fatalf("期望 1 个时段，实际=%d", len(result.Sessions))
	}

	s := result.Sessions[0]
	if s.DurationMinutes != 90 {
		t.Errorf("期望 90 分钟，实际=%d", s.DurationMinutes)
	}
	if s.StartTime != "09:00" || s.EndTime != "10:30" {
		t.Errorf("期望 09:00-10:30，实际=%s-%s", s.StartTime, s.EndTime)
	}
	if s.Description != "Exam preparation for 期末考试" {
		t.Errorf("描述不符: %s", s.Description)
	}
	if s.Status != "scheduled" {
		t.Errorf("期望 status=scheduled，实际=%s", s.Status)
	}
}

func TestPlannerService_Generate_SkipsCompletedCourse(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, _ := setupTestPlannerService()
	seedPreference(prefRepo)
	// 已完成课程（无备考小时的考试）不应再分配时段
	seedCourse(courseRepo, "course-done", "DONE", 20, 20)
	seedCourse(courseRepo, "course-todo", "TODO", 20, 0)
	seedExam(examRepo, "exam-done", "course-done", "2026-09-18", nil)
	seedExam(examRepo, "exam-todo", "course-todo", "2026-09-18", nil)

	req := &dto.GenerateScheduleRequest{StartDate: "2026-09-07", EndDate: "2026-09-09"}
	result, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}
	if result.Count == 0 {
		t.Fatal("未完成课程应有时段")
	}

	for _, s := range result.Sessions {
		if s.CourseID == "course-done" {
			t.Errorf("已完成课程不应有时段，但 %s 有", s.SessionDate)
		}
	}
}

func TestPlannerService_Generate_NoUpcomingExams(t *testing.T) {
	svc, courseRepo, _, prefRepo, sessionRepo := setupTestPlannerService()
	seedPreference(prefRepo)
	seedCourse(courseRepo, "course-1", "CS101", 40, 0)

	req := &dto.GenerateScheduleRequest{StartDate: "2026-09-07"}
	result, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("无考试不是错误: %v", err)
	}

	if result.Warning == "" {
		t.Error("期望返回提示信息")
	}
	if len(result.Sessions) != 0 {
		t.Errorf("期望空计划，实际=%d", len(result.Sessions))
	}
	if len(sessionRepo.sessions) != 0 {
		t.Errorf("空计划不应落库，实际写入=%d", len(sessionRepo.sessions))
	}
}

func TestPlannerService_Generate_DefaultEndDateBeforeExam(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, _ := setupTestPlannerService()
	seedPreference(prefRepo)
	seedCourse(courseRepo, "course-1", "CS101", 40, 0)
	// 考试 09-18（周五），缺省终点 = 考试日 − 2 天缓冲 = 09-16
	seedExam(examRepo, "exam-1", "course-1", "2026-09-18", floatPtr(20))

	req := &dto.GenerateScheduleRequest{StartDate: "2026-09-07"}
	result, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}
	if result.Count == 0 {
		t.Fatal("计划不应为空")
	}

	for _, s := range result.Sessions {
		if s.SessionDate > "2026-09-16" {
			t.Errorf("时段 %s 超出缺省终点 2026-09-16", s.SessionDate)
		}
	}
}

func TestPlannerService_Generate_RegenerateReplaces(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, sessionRepo := setupTestPlannerService()
	seedPreference(prefRepo)
	seedCourse(courseRepo, "course-1", "CS101", 40, 0)
	seedExam(examRepo, "exam-1", "course-1", "2026-09-18", floatPtr(20))

	req := &dto.GenerateScheduleRequest{StartDate: "2026-09-07", EndDate: "2026-09-11"}
	first, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("第一次生成应成功: %v", err)
	}
	second, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("第二次生成应成功: %v", err)
	}

	if first.Count != second.Count {
		t.Errorf("重复生成的计划规模应一致: %d vs %d", first.Count, second.Count)
	}
	// 整体替换：落库总量等于单次计划量，而不是翻倍
	if len(sessionRepo.sessions) != second.Count {
		t.Errorf("期望落库 %d 个时段，实际=%d", second.Count, len(sessionRepo.sessions))
	}
}

func TestPlannerService_Generate_MaterializesDefaultPreference(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, _ := setupTestPlannerService()
	// 不 seed 偏好：生成时应以默认值落库
	seedCourse(courseRepo, "course-1", "CS101", 40, 0)
	seedExam(examRepo, "exam-1", "course-1", "2026-09-18", floatPtr(20))

	req := &dto.GenerateScheduleRequest{StartDate: "2026-09-07", EndDate: "2026-09-07"}
	result, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}
	if result.Count == 0 {
		t.Fatal("计划不应为空")
	}

	pref, ok := prefRepo.prefs[testLearnerID]
	if !ok {
		t.Fatal("默认偏好应已落库")
	}
	if pref.DailyStudyHours != 4.0 || pref.SessionDurationMinutes != 90 {
		t.Errorf("默认偏好值不符: daily=%v session=%d", pref.DailyStudyHours, pref.SessionDurationMinutes)
	}
	if len(pref.PreferredTimes) != 3 {
		t.Errorf("期望 3 个默认偏好时刻，实际=%d", len(pref.PreferredTimes))
	}
}

func TestPlannerService_Generate_FallbackStartTime(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, _ := setupTestPlannerService()
	// 偏好时刻只有 1 个，第二门课应回退到 09:00
	seedPreference(prefRepo)
	prefRepo.prefs[testLearnerID].PreferredTimes = model.TimeOfDayList{{Hour: 20, Minute: 0}}

	seedCourse(courseRepo, "course-1", "CS101", 40, 0)
	seedCourse(courseRepo, "course-2", "CS102", 40, 0)
	seedExam(examRepo, "exam-1", "course-1", "2026-09-11", floatPtr(10))
	seedExam(examRepo, "exam-2", "course-2", "2026-09-14", floatPtr(10))

	req := &dto.GenerateScheduleRequest{StartDate: "2026-09-07", EndDate: "2026-09-07"}
	result, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}
	if len(result.Sessions) != 2 {
		t.Fatalf("期望 2 个时段，实际=%d", len(result.Sessions))
	}

	if result.Sessions[0].StartTime != "20:00" {
		t.Errorf("第一时段应用偏好时刻 20:00，实际=%s", result.Sessions[0].StartTime)
	}
	if result.Sessions[1].StartTime != "09:00" {
		t.Errorf("偏好时刻耗尽后应回退 09:00，实际=%s", result.Sessions[1].StartTime)
	}
}

func TestPlannerService_Generate_InvalidDate(t *testing.T) {
	svc, _, _, _, _ := setupTestPlannerService()

	req := &dto.GenerateScheduleRequest{StartDate: "09/07/2026"}
	_, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if !errors.Is(err, ErrPlanDateInvalid) {
		t.Errorf("期望 ErrPlanDateInvalid，实际: %v", err)
	}
}

func TestPlannerService_Generate_CourseFilter(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, _ := setupTestPlannerService()
	seedPreference(prefRepo)
	seedCourse(courseRepo, "course-1", "CS101", 40, 0)
	seedCourse(courseRepo, "course-2", "CS102", 40, 0)
	seedExam(examRepo, "exam-1", "course-1", "2026-09-18", floatPtr(20))
	seedExam(examRepo, "exam-2", "course-2", "2026-09-18", floatPtr(20))

	req := &dto.GenerateScheduleRequest{
		StartDate: "2026-09-07", EndDate: "2026-09-11",
		CourseIDs: []string{"course-2"},
	}
	result, err := svc.GenerateSchedule(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}
	if result.Count == 0 {
		t.Fatal("计划不应为空")
	}

	for _, s := range result.Sessions {
		if s.CourseID != "course-2" {
			t.Errorf("过滤后不应出现其他课程的时段: %s", s.CourseID)
		}
	}
}

// ════════════════════════════════════════════════════════════
// ListSessions / UpdateSessionStatus 测试
// ════════════════════════════════════════════════════════════

func TestPlannerService_ListSessions(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, _ := setupTestPlannerService()
	seedPreference(prefRepo)
	seedCourse(courseRepo, "course-1", "CS101", 40, 0)
	seedExam(examRepo, "exam-1", "course-1", "2026-09-18", floatPtr(20))

	genReq := &dto.GenerateScheduleRequest{StartDate: "2026-09-07", EndDate: "2026-09-11"}
	gen, err := svc.GenerateSchedule(context.Background(), testLearnerID, genReq)
	if err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}

	listReq := &dto.SessionListRequest{From: "2026-09-07", To: "2026-09-11"}
	sessions, err := svc.ListSessions(context.Background(), testLearnerID, listReq)
	if err != nil {
		t.Fatalf("ListSessions 应成功: %v", err)
	}
	if len(sessions) != gen.Count {
		t.Errorf("期望 %d 个时段，实际=%d", gen.Count, len(sessions))
	}

	// 他人查不到
	other, err := svc.ListSessions(context.Background(), "learner-2", listReq)
	if err != nil {
		t.Fatalf("ListSessions 应成功: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("其他学习者不应看到时段，实际=%d", len(other))
	}
}

func TestPlannerService_UpdateSessionStatus(t *testing.T) {
	svc, courseRepo, examRepo, prefRepo, sessionRepo := setupTestPlannerService()
	seedPreference(prefRepo)
	seedCourse(courseRepo, "course-1", "CS101", 40, 0)
	seedExam(examRepo, "exam-1", "course-1", "2026-09-18", floatPtr(20))

	genReq := &dto.GenerateScheduleRequest{StartDate: "2026-09-07", EndDate: "2026-09-07"}
	if _, err := svc.GenerateSchedule(context.Background(), testLearnerID, genReq); err != nil {
		t.Fatalf("GenerateSchedule 应成功: %v", err)
	}
	if len(sessionRepo.sessions) == 0 {
		t.Fatal("应有落库时段")
	}

	id := sessionRepo.sessions[0].SessionID
	updated, err := svc.UpdateSessionStatus(context.Background(), testLearnerID, id, "completed")
	if err != nil {
		t.Fatalf("UpdateSessionStatus 应成功: %v", err)
	}
	if updated.Status != "completed" {
		t.Errorf("期望 status=completed，实际=%s", updated.Status)
	}
}

func TestPlannerService_UpdateSessionStatus_NotFound(t *testing.T) {
	svc, _, _, _, _ := setupTestPlannerService()

	_, err := svc.UpdateSessionStatus(context.Background(), testLearnerID, "nonexistent", "completed")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("期望 ErrSessionNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/planner_service_test.go
