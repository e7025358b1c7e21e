package handler

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/service"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/response"
)

// ReportHandler 统计报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// GetPeriodReport 获取周期统计报表（管理员）
// GET /api/v1/reports/periods/:id
func (h *ReportHandler) GetPeriodReport(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	report, err := h.reportSvc.PeriodReport(c.Request.Context(), id)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// GetTopRated 获取周期内评分最高的教师（管理员）
// GET /api/v1/reports/periods/:id/top?limit=10
func (h *ReportHandler) GetTopRated(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.reportSvc.TopRated(c.Request.Context(), id, limit)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, result)
}

// GetMySummary 教师查看自己在某周期的统计
// GET /api/v1/reports/periods/:id/me
func (h *ReportHandler) GetMySummary(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	summary, err := h.reportSvc.TeacherSummary(c.Request.Context(), callerID, id)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, summary)
}

// ExportPeriodReport 导出周期统计为 Excel（管理员）
// GET /api/v1/reports/periods/:id/export
func (h *ReportHandler) ExportPeriodReport(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	buf, filename, err := h.reportSvc.ExportPeriodReport(c.Request.Context(), id)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// handleReportError 统一处理统计报表模块业务错误
func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 14001, "评教周期不存在")
	case errors.Is(err, service.ErrReportNoEvaluations):
		response.NotFound(c, 17001, "该周期暂无评价数据")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
