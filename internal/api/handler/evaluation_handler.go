package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/service"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/response"
)

// EvaluationHandler 评价提交/可评对象模块 HTTP 处理器
type EvaluationHandler struct {
	evaluationSvc  service.EvaluationService
	eligibilitySvc service.EligibilityService
}

// NewEvaluationHandler 创建 EvaluationHandler
func NewEvaluationHandler(evaluationSvc service.EvaluationService, eligibilitySvc service.EligibilityService) *EvaluationHandler {
	return &EvaluationHandler{evaluationSvc: evaluationSvc, eligibilitySvc: eligibilitySvc}
}

// ListEligibleTeachers 获取当前学生可评的教师名单
// GET /api/v1/evaluations/eligible
func (h *EvaluationHandler) ListEligibleTeachers(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.eligibilitySvc.ListEligible(c.Request.Context(), callerID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, result)
}

// SubmitEvaluation 提交评价
// POST /api/v1/evaluations
func (h *EvaluationHandler) SubmitEvaluation(c *gin.Context) {
	var req dto.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	ev := service.ActivityEvent{
		UserID:    callerID,
		Role:      role,
		SessionID: GetSessionID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.evaluationSvc.Submit(c.Request.Context(), callerID, &req, ev)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.Created(c, result)
}

// GetEvaluation 获取评价详情
// GET /api/v1/evaluations/:id
func (h *EvaluationHandler) GetEvaluation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "评价ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.evaluationSvc.GetByID(c.Request.Context(), id, callerID, role)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, result)
}

// ListPeriodEvaluations 获取某周期全部评价（管理员）
// GET /api/v1/periods/:id/evaluations
func (h *EvaluationHandler) ListPeriodEvaluations(c *gin.Context) {
	periodID := c.Param("id")
	if periodID == "" {
		response.BadRequest(c, 10001, "周期ID不能为空")
		return
	}

	result, err := h.evaluationSvc.ListByPeriod(c.Request.Context(), periodID)
	if err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// DeleteEvaluation 撤销评价（管理员）
// DELETE /api/v1/evaluations/:id
func (h *EvaluationHandler) DeleteEvaluation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "评价ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.evaluationSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleEvaluationError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleEvaluationError 统一处理评价模块业务错误
func (h *EvaluationHandler) handleEvaluationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEvaluationNotFound):
		response.NotFound(c, 15001, "评价记录不存在")
	case errors.Is(err, service.ErrPeriodNotOpen):
		response.BadRequest(c, 15002, "当前不在评教开放窗口内")
	case errors.Is(err, service.ErrNotEnrolled):
		response.BadRequest(c, 15003, "该教师科目组合不在选课名单中")
	case errors.Is(err, service.ErrAlreadyEvaluated):
		response.Conflict(c, 15004, "本周期内已评价过该教师科目组合")
	case errors.Is(err, service.ErrScoreOutOfRange):
		response.BadRequest(c, 15005, "评分超出允许范围")
	case errors.Is(err, service.ErrScoreDuplicate):
		response.BadRequest(c, 15006, "同一题目重复评分")
	case errors.Is(err, service.ErrQuestionInvalid):
		response.BadRequest(c, 15007, "评分中包含无效题目")
	case errors.Is(err, service.ErrEvaluationForbidden):
		response.Forbidden(c, 15008, "无权查看该评价记录")
	case errors.Is(err, service.ErrNotStudent):
		response.Forbidden(c, 15009, "仅学生可执行该操作")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	default:
		response.InternalError(c)
	}
}
