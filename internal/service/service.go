package service

import (
	"go.uber.org/zap"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/config"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/repository"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/jwt"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	User        UserService
	Period      PeriodService
	Enrollment  EnrollmentService
	Eligibility EligibilityService
	Evaluation  EvaluationService
	Question    QuestionService
	Report      ReportService
	Activity    ActivityService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	activity := NewActivityService(repo, logger)
	evaluation := NewEvaluationService(repo, activity, logger)
	enrollment := NewEnrollmentService(repo, logger)

	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, rdb, activity, logger),
		User:        NewUserService(cfg, repo, enrollment, logger),
		Period:      NewPeriodService(repo, logger),
		Enrollment:  enrollment,
		Eligibility: NewEligibilityService(repo, logger),
		Evaluation:  evaluation,
		Question:    NewQuestionService(repo, logger),
		Report:      NewReportService(repo, logger),
		Activity:    activity,
	}
}
