package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/service"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/response"
)

// QuestionHandler 问卷目录模块 HTTP 处理器
type QuestionHandler struct {
	questionSvc service.QuestionService
}

// NewQuestionHandler 创建 QuestionHandler
func NewQuestionHandler(questionSvc service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionSvc: questionSvc}
}

// ListCriteria 获取完整问卷目录
// GET /api/v1/criteria
func (h *QuestionHandler) ListCriteria(c *gin.Context) {
	criteria, err := h.questionSvc.ListCriteria(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": criteria})
}

// ReplaceQuestions 整组替换某维度的题目（管理员）
// PUT /api/v1/criteria/:id/questions
func (h *QuestionHandler) ReplaceQuestions(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "维度ID不能为空")
		return
	}

	var req dto.ReplaceQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	criteria, err := h.questionSvc.ReplaceQuestions(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	response.OK(c, criteria)
}

// handleQuestionError 统一处理问卷目录模块业务错误
func (h *QuestionHandler) handleQuestionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCriteriaNotFound):
		response.NotFound(c, 16001, "评价维度不存在")
	case errors.Is(err, service.ErrQuestionInUse):
		response.Conflict(c, 16002, "维度题目已被历史评价引用，不可替换")
	default:
		response.InternalError(c)
	}
}
