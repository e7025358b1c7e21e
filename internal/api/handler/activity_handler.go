package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/service"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/response"
)

// ActivityHandler 活动日志模块 HTTP 处理器
type ActivityHandler struct {
	activitySvc service.ActivityService
}

// NewActivityHandler 创建 ActivityHandler
func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// ListActivities 查询活动日志（管理员）
// GET /api/v1/activities
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	var req dto.ListActivityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.activitySvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
