package handler

import "github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Period     *PeriodHandler
	Enrollment *EnrollmentHandler
	Evaluation *EvaluationHandler
	Question   *QuestionHandler
	Report     *ReportHandler
	Activity   *ActivityHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Period:     NewPeriodHandler(svc.Period),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Evaluation: NewEvaluationHandler(svc.Evaluation, svc.Eligibility),
		Question:   NewQuestionHandler(svc.Question),
		Report:     NewReportHandler(svc.Report),
		Activity:   NewActivityHandler(svc.Activity),
	}
}
