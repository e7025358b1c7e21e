package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/repository"
	pkgerrors "github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/errors"
)

// ── 评教周期模块业务错误 ──

var (
	ErrPeriodNotFound        = errors.New("评教周期不存在")
	ErrPeriodDateInvalid     = errors.New("评教周期结束日期不能早于开始日期")
	ErrPeriodOverlap         = errors.New("评教周期日期与已开启的周期重叠")
	ErrPeriodCurrentConflict = errors.New("当前周期切换发生并发冲突，请重试")
	ErrPeriodIsCurrent       = errors.New("当前周期不可删除，请先切换当前周期")
	ErrPeriodHasEvaluations  = errors.New("周期内已有评价记录，不可删除")
)

// PeriodService 评教周期业务接口
type PeriodService interface {
	Create(ctx context.Context, req *dto.CreatePeriodRequest, callerID string) (*dto.PeriodResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PeriodResponse, error)
	GetCurrent(ctx context.Context) (*dto.PeriodResponse, error)
	List(ctx context.Context) ([]dto.PeriodResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePeriodRequest, callerID string) (*dto.PeriodResponse, error)
	SetCurrent(ctx context.Context, id string, callerID string) error
	ToggleActive(ctx context.Context, id string, isActive bool, callerID string) (*dto.PeriodResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type periodService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPeriodService 创建 PeriodService 实例
func NewPeriodService(repo *repository.Repository, logger *zap.Logger) PeriodService {
	return &periodService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *periodService) Create(ctx context.Context, req *dto.CreatePeriodRequest, callerID string) (*dto.PeriodResponse, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrPeriodDateInvalid
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrPeriodDateInvalid
	}
	// 允许单日周期（start == end）
	if endDate.Before(startDate) {
		return nil, ErrPeriodDateInvalid
	}

	// 缺省直接开启，与数据库默认值一致
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	period := &model.EvaluationPeriod{
		Name:         req.Name,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		StartDate:    startDate,
		EndDate:      endDate,
		IsActive:     isActive,
		IsCurrent:    false,
		Description:  req.Description,
	}
	period.CreatedBy = &callerID
	period.UpdatedBy = &callerID

	// 开启状态的新周期不得与其他开启周期日期重叠
	if isActive {
		if err := s.checkOverlap(ctx, period); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Period.Create(ctx, period); err != nil {
		if pkgerrors.IsExclusionViolation(err, "excl_periods_active_overlap") {
			return nil, ErrPeriodOverlap
		}
		s.logger.Error("创建评教周期失败", zap.Error(err))
		return nil, err
	}

	return s.toPeriodResponse(period), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *periodService) GetByID(ctx context.Context, id string) (*dto.PeriodResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询评教周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toPeriodResponse(period), nil
}

// ────────────────────── GetCurrent ──────────────────────

func (s *periodService) GetCurrent(ctx context.Context) (*dto.PeriodResponse, error) {
	period, err := s.repo.Period.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询当前评教周期失败", zap.Error(err))
		return nil, err
	}

	return s.toPeriodResponse(period), nil
}

// ────────────────────── List ──────────────────────

func (s *periodService) List(ctx context.Context) ([]dto.PeriodResponse, error) {
	periods, err := s.repo.Period.List(ctx)
	if err != nil {
		s.logger.Error("列出评教周期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *s.toPeriodResponse(&periods[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *periodService) Update(ctx context.Context, id string, req *dto.UpdatePeriodRequest, callerID string) (*dto.PeriodResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询评教周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		period.Name = *req.Name
	}
	if req.AcademicYear != nil {
		period.AcademicYear = *req.AcademicYear
	}
	if req.Semester != nil {
		period.Semester = *req.Semester
	}
	if req.Description != nil {
		period.Description = req.Description
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, ErrPeriodDateInvalid
		}
		period.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, ErrPeriodDateInvalid
		}
		period.EndDate = endDate
	}
	if period.EndDate.Before(period.StartDate) {
		return nil, ErrPeriodDateInvalid
	}

	// 已开启周期改日期时需复查与其他开启周期的重叠
	if period.IsActive {
		if err := s.checkOverlap(ctx, period); err != nil {
			return nil, err
		}
	}

	period.UpdatedBy = &callerID

	if err := s.repo.Period.Update(ctx, period); err != nil {
		if pkgerrors.IsExclusionViolation(err, "excl_periods_active_overlap") {
			return nil, ErrPeriodOverlap
		}
		s.logger.Error("更新评教周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toPeriodResponse(period), nil
}

// ────────────────────── SetCurrent ──────────────────────

func (s *periodService) SetCurrent(ctx context.Context, id string, callerID string) error {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodNotFound
		}
		s.logger.Error("查询评教周期失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 使用事务保证 ClearCurrent + Update 的原子性；
	// 数据库上的部分唯一索引兜底并发下的双当前周期
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Period.ClearCurrent(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("清除当前评教周期失败", zap.Error(err))
		return err
	}

	period.IsCurrent = true
	period.IsActive = true
	period.UpdatedBy = &callerID

	if err := txRepo.Period.Update(ctx, period); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		// 并发双切换：两个事务各自清除后同时置位，由部分唯一索引收口
		if pkgerrors.IsUniqueViolation(err, "uq_periods_single_current") {
			return ErrPeriodCurrentConflict
		}
		if pkgerrors.IsExclusionViolation(err, "excl_periods_active_overlap") {
			return ErrPeriodOverlap
		}
		s.logger.Error("设置当前评教周期失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.logger.Info("当前评教周期已切换",
		zap.String("period_id", id),
		zap.String("operator", callerID))

	return nil
}

// ────────────────────── ToggleActive ──────────────────────

func (s *periodService) ToggleActive(ctx context.Context, id string, isActive bool, callerID string) (*dto.PeriodResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询评教周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if isActive {
		if err := s.checkOverlap(ctx, period); err != nil {
			return nil, err
		}
	}

	period.IsActive = isActive
	// 关闭当前周期时同时摘除当前标记
	if !isActive && period.IsCurrent {
		period.IsCurrent = false
	}
	period.UpdatedBy = &callerID

	if err := s.repo.Period.Update(ctx, period); err != nil {
		if pkgerrors.IsExclusionViolation(err, "excl_periods_active_overlap") {
			return nil, ErrPeriodOverlap
		}
		s.logger.Error("切换评教周期开关失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toPeriodResponse(period), nil
}

// ────────────────────── Delete ──────────────────────

func (s *periodService) Delete(ctx context.Context, id string, callerID string) error {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodNotFound
		}
		s.logger.Error("查询评教周期失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if period.IsCurrent {
		return ErrPeriodIsCurrent
	}

	count, err := s.repo.Evaluation.CountByPeriod(ctx, id)
	if err != nil {
		s.logger.Error("统计周期评价数失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrPeriodHasEvaluations
	}

	if err := s.repo.Period.Delete(ctx, id); err != nil {
		s.logger.Error("删除评教周期失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

// checkOverlap 检查周期与其他已开启周期的日期重叠（应用层先查，数据库排它约束兜底）
func (s *periodService) checkOverlap(ctx context.Context, period *model.EvaluationPeriod) error {
	overlapping, err := s.repo.Period.ListActiveOverlapping(ctx, period.StartDate, period.EndDate, period.PeriodID)
	if err != nil {
		s.logger.Error("检查周期重叠失败", zap.Error(err))
		return err
	}
	if len(overlapping) > 0 {
		return ErrPeriodOverlap
	}
	return nil
}

func (s *periodService) toPeriodResponse(period *model.EvaluationPeriod) *dto.PeriodResponse {
	resp := &dto.PeriodResponse{
		ID:           period.PeriodID,
		Name:         period.Name,
		AcademicYear: period.AcademicYear,
		Semester:     period.Semester,
		StartDate:    period.StartDate.Format("2006-01-02"),
		EndDate:      period.EndDate.Format("2006-01-02"),
		IsActive:     period.IsActive,
		IsCurrent:    period.IsCurrent,
		Status:       period.Status(time.Now()),
		CreatedAt:    period.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    period.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if period.Description != nil {
		resp.Description = *period.Description
	}
	return resp
}
