package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
)

// PeriodRepository 评教期数据访问接口
type PeriodRepository interface {
	Create(ctx context.Context, period *model.EvaluationPeriod) error
	GetByID(ctx context.Context, id string) (*model.EvaluationPeriod, error)
	// GetCurrent 返回 is_current 且 is_active 的评教期
	GetCurrent(ctx context.Context) (*model.EvaluationPeriod, error)
	List(ctx context.Context) ([]model.EvaluationPeriod, error)
	// ListActiveOverlapping 返回与 [start, end]（含端点）重叠的其他启用中评教期
	ListActiveOverlapping(ctx context.Context, start, end time.Time, excludeID string) ([]model.EvaluationPeriod, error)
	Update(ctx context.Context, period *model.EvaluationPeriod) error
	Delete(ctx context.Context, id string) error
	// ClearCurrent 清除除 excludeID 外所有评教期的 is_current 标记
	ClearCurrent(ctx context.Context, excludeID string) error
}

// periodRepo PeriodRepository 的 GORM 实现
type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo 创建 PeriodRepository 实例
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) Create(ctx context.Context, period *model.EvaluationPeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

func (r *periodRepo) GetByID(ctx context.Context, id string) (*model.EvaluationPeriod, error) {
	var period model.EvaluationPeriod
	err := r.db.WithContext(ctx).
		Where("period_id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) GetCurrent(ctx context.Context) (*model.EvaluationPeriod, error) {
	var period model.EvaluationPeriod
	err := r.db.WithContext(ctx).
		Where("is_current = ? AND is_active = ?", true, true).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) List(ctx context.Context) ([]model.EvaluationPeriod, error) {
	var periods []model.EvaluationPeriod
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&periods).Error
	return periods, err
}

func (r *periodRepo) ListActiveOverlapping(ctx context.Context, start, end time.Time, excludeID string) ([]model.EvaluationPeriod, error) {
	var periods []model.EvaluationPeriod
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != "" {
		q = q.Where("period_id <> ?", excludeID)
	}
	err := q.Find(&periods).Error
	return periods, err
}

func (r *periodRepo) Update(ctx context.Context, period *model.EvaluationPeriod) error {
	// Save 会写入全部字段，包括置 false 的布尔标记
	return r.db.WithContext(ctx).Save(period).Error
}

func (r *periodRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("period_id = ?", id).
		Delete(&model.EvaluationPeriod{}).Error
}

func (r *periodRepo) ClearCurrent(ctx context.Context, excludeID string) error {
	q := r.db.WithContext(ctx).
		Model(&model.EvaluationPeriod{}).
		Where("is_current = ?", true)
	if excludeID != "" {
		q = q.Where("period_id <> ?", excludeID)
	}
	return q.Update("is_current", false).Error
}
