package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
)

// ActivityFilter 活动日志查询条件
type ActivityFilter struct {
	Username     string
	ActivityType string
	Offset       int
	Limit        int
}

// ActivityRepository 活动日志数据访问接口
type ActivityRepository interface {
	Create(ctx context.Context, log *model.ActivityLog) error
	GetByID(ctx context.Context, id string) (*model.ActivityLog, error)
	// GetOpenLogin 查找未闭合的登录行：优先按会话 ID 精确匹配，
	// sessionID 为空时退化为该用户名最近一条未闭合记录
	GetOpenLogin(ctx context.Context, username, sessionID string) (*model.ActivityLog, error)
	Update(ctx context.Context, log *model.ActivityLog) error
	List(ctx context.Context, filter ActivityFilter) ([]model.ActivityLog, int64, error)
	// DeleteByEvaluation 删除某评价关联的审计行（评价被管理员撤销时调用）
	DeleteByEvaluation(ctx context.Context, evaluationID string) error
}

// activityRepo ActivityRepository 的 GORM 实现
type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepo 创建 ActivityRepository 实例
func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, log *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *activityRepo) GetByID(ctx context.Context, id string) (*model.ActivityLog, error) {
	var log model.ActivityLog
	err := r.db.WithContext(ctx).
		Where("activity_log_id = ?", id).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *activityRepo) GetOpenLogin(ctx context.Context, username, sessionID string) (*model.ActivityLog, error) {
	query := r.db.WithContext(ctx).
		Where("activity_type = ? AND time_out IS NULL", model.ActivityLogin)
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	} else {
		query = query.Where("username = ?", username)
	}
	var log model.ActivityLog
	err := query.Order("time_in DESC").First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *activityRepo) Update(ctx context.Context, log *model.ActivityLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

func (r *activityRepo) List(ctx context.Context, filter ActivityFilter) ([]model.ActivityLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ActivityLog{})
	if filter.Username != "" {
		query = query.Where("username = ?", filter.Username)
	}
	if filter.ActivityType != "" {
		query = query.Where("activity_type = ?", filter.ActivityType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.ActivityLog
	err := query.
		Order("time_in DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&logs).Error
	return logs, total, err
}

func (r *activityRepo) DeleteByEvaluation(ctx context.Context, evaluationID string) error {
	return r.db.WithContext(ctx).
		Where("evaluation_id = ?", evaluationID).
		Delete(&model.ActivityLog{}).Error
}
