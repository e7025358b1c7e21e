package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/repository"
)

// ── 可评对象模块业务错误 ──

var ErrNotStudent = errors.New("仅学生可查询可评教师名单")

// EligibilityService 可评对象业务接口
type EligibilityService interface {
	// ListEligible 返回学生在当前评教周期内仍可评的 (教师, 科目) 名单。
	// 名单来自选课关系，剔除已停用教师与本周期已评组合；
	// 当前无开放周期时返回 period_open=false 的空名单，而非错误
	ListEligible(ctx context.Context, studentID string) (*dto.EligibilityResponse, error)
}

type eligibilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEligibilityService 创建 EligibilityService 实例
func NewEligibilityService(repo *repository.Repository, logger *zap.Logger) EligibilityService {
	return &eligibilityService{repo: repo, logger: logger}
}

// ────────────────────── ListEligible ──────────────────────

func (s *eligibilityService) ListEligible(ctx context.Context, studentID string) (*dto.EligibilityResponse, error) {
	student, err := s.repo.User.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", studentID), zap.Error(err))
		return nil, err
	}
	if !student.IsStudent() {
		return nil, ErrNotStudent
	}

	period, err := s.repo.Period.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 无当前周期：返回空名单并明确标记，前端据此展示"暂未开放"
			return &dto.EligibilityResponse{
				PeriodOpen: false,
				Teachers:   []dto.EligibleTeacherItem{},
			}, nil
		}
		s.logger.Error("查询当前评教周期失败", zap.Error(err))
		return nil, err
	}
	if !period.IsValidForEvaluation(time.Now()) {
		// 当前周期存在但不在评教窗口内（未到开始日或已过结束日）
		return &dto.EligibilityResponse{
			PeriodID:   period.PeriodID,
			PeriodName: period.Name,
			PeriodOpen: false,
			Teachers:   []dto.EligibleTeacherItem{},
		}, nil
	}

	enrollments, err := s.repo.Enrollment.ListByStudentActiveTeacher(ctx, studentID)
	if err != nil {
		s.logger.Error("查询选课关系失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	pairs, err := s.repo.Evaluation.ListPairsByStudentPeriod(ctx, studentID, period.PeriodID)
	if err != nil {
		s.logger.Error("查询已评组合失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	evaluated := make(map[[2]string]bool, len(pairs))
	for _, p := range pairs {
		evaluated[[2]string{p.TeacherID, p.SubjectID}] = true
	}

	items := make([]dto.EligibleTeacherItem, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		// 本周期已评过的组合不再出现在名单中
		if evaluated[[2]string{e.TeacherID, e.SubjectID}] {
			continue
		}
		item := dto.EligibleTeacherItem{
			TeacherID: e.TeacherID,
			SubjectID: e.SubjectID,
		}
		if e.Teacher != nil {
			item.TeacherName = e.Teacher.Name
		}
		if e.Subject != nil {
			item.SubjectName = e.Subject.Name
			item.SubjectCode = e.Subject.Code
		}
		items = append(items, item)
	}

	return &dto.EligibilityResponse{
		PeriodID:   period.PeriodID,
		PeriodName: period.Name,
		PeriodOpen: true,
		Teachers:   items,
	}, nil
}
