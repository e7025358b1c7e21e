package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/service"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/response"
)

// EnrollmentHandler 选课关系模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// ListEnrollments 查询选课关系
// GET /api/v1/enrollments
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	var req dto.ListEnrollmentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.enrollmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// CreateEnrollment 创建选课关系（管理员）
// POST /api/v1/enrollments
func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentSvc.Enroll(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.Created(c, enrollment)
}

// AutoEnrollStudent 为指定学生按当前班级批量补选（管理员）
// POST /api/v1/enrollments/auto/:id
func (h *EnrollmentHandler) AutoEnrollStudent(c *gin.Context) {
	studentID := c.Param("id")
	if studentID == "" {
		response.BadRequest(c, 10001, "学生ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	enrolled, err := h.enrollmentSvc.AutoEnrollStudent(c.Request.Context(), studentID, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.OK(c, gin.H{"enrolled": enrolled})
}

// DeleteEnrollment 删除选课关系（管理员）
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) DeleteEnrollment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "选课ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleEnrollmentError 统一处理选课模块业务错误
func (h *EnrollmentHandler) handleEnrollmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEnrollmentNotFound):
		response.NotFound(c, 13001, "选课关系不存在")
	case errors.Is(err, service.ErrEnrollmentExists):
		response.Conflict(c, 13002, "该学生已选该科目")
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 13003, "科目不存在")
	case errors.Is(err, service.ErrSubjectNoTeacher):
		response.BadRequest(c, 13004, "该科目尚未指派任课教师")
	case errors.Is(err, service.ErrEnrollNotStudent):
		response.BadRequest(c, 13005, "只能为学生创建选课关系")
	case errors.Is(err, service.ErrEnrollLevelMismatch):
		response.BadRequest(c, 13006, "科目学段与学生班级学段不一致")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	default:
		response.InternalError(c)
	}
}
