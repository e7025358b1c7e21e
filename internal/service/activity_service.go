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
)

// ── 活动日志模块业务错误 ──

var ErrActivityNotFound = errors.New("活动记录不存在")

// ActivityEvent 记录活动时的上下文信息
type ActivityEvent struct {
	UserID    string
	Username  string
	Role      string
	SessionID string
	IP        string
	UserAgent string
}

// ActivityService 活动日志业务接口
type ActivityService interface {
	// RecordLogin 写入登录行（time_out 留空，待登出时闭合）
	RecordLogin(ctx context.Context, ev ActivityEvent) error
	// RecordLogout 闭合登录行：优先按会话 ID 精确匹配，匹配不到时
	// 回退到该用户名最近一条未闭合记录。无论是否闭合成功，
	// 都另写一条独立登出行，保证审计痕迹完整
	RecordLogout(ctx context.Context, ev ActivityEvent) error
	// RecordEvaluationEvent 写入评价审计行（started / completed），
	// 审计失败只记日志，不阻断评价主流程
	RecordEvaluationEvent(ctx context.Context, ev ActivityEvent, activityType string, evaluationID *string)
	List(ctx context.Context, req *dto.ListActivityRequest) (*dto.PagedResponse, error)
}

type activityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewActivityService 创建 ActivityService 实例
func NewActivityService(repo *repository.Repository, logger *zap.Logger) ActivityService {
	return &activityService{repo: repo, logger: logger}
}

// ────────────────────── RecordLogin ──────────────────────

func (s *activityService) RecordLogin(ctx context.Context, ev ActivityEvent) error {
	log := &model.ActivityLog{
		Username:     ev.Username,
		Role:         ev.Role,
		ActivityType: model.ActivityLogin,
		IP:           ev.IP,
		UserAgent:    ev.UserAgent,
		TimeIn:       time.Now(),
	}
	if ev.UserID != "" {
		log.UserID = &ev.UserID
	}
	if ev.SessionID != "" {
		log.SessionID = &ev.SessionID
	}

	if err := s.repo.Activity.Create(ctx, log); err != nil {
		s.logger.Error("写入登录日志失败",
			zap.String("username", ev.Username), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── RecordLogout ──────────────────────

func (s *activityService) RecordLogout(ctx context.Context, ev ActivityEvent) error {
	now := time.Now()

	open, err := s.repo.Activity.GetOpenLogin(ctx, ev.Username, ev.SessionID)
	if err != nil && ev.SessionID != "" && errors.Is(err, gorm.ErrRecordNotFound) {
		// 会话 ID 匹配不到（如旧客户端 Token 无会话 ID），按用户名回退
		open, err = s.repo.Activity.GetOpenLogin(ctx, ev.Username, "")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 找不到可闭合的登录行：仅写独立登出行
			return s.recordStandaloneLogout(ctx, ev, now)
		}
		s.logger.Error("查询未闭合登录行失败",
			zap.String("username", ev.Username), zap.Error(err))
		return err
	}

	open.TimeOut = &now
	duration := int64(now.Sub(open.TimeIn).Seconds())
	if duration < 0 {
		duration = 0
	}
	open.DurationSeconds = &duration

	if err := s.repo.Activity.Update(ctx, open); err != nil {
		s.logger.Error("闭合登录行失败",
			zap.String("activity_log_id", open.ActivityLogID), zap.Error(err))
		return err
	}

	// 闭合成功后仍另写一条登出行
	return s.recordStandaloneLogout(ctx, ev, now)
}

func (s *activityService) recordStandaloneLogout(ctx context.Context, ev ActivityEvent, now time.Time) error {
	log := &model.ActivityLog{
		Username:     ev.Username,
		Role:         ev.Role,
		ActivityType: model.ActivityLogout,
		IP:           ev.IP,
		UserAgent:    ev.UserAgent,
		TimeIn:       now,
		TimeOut:      &now,
	}
	if ev.UserID != "" {
		log.UserID = &ev.UserID
	}
	if ev.SessionID != "" {
		log.SessionID = &ev.SessionID
	}

	if err := s.repo.Activity.Create(ctx, log); err != nil {
		s.logger.Error("写入独立登出行失败",
			zap.String("username", ev.Username), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── RecordEvaluationEvent ──────────────────────

func (s *activityService) RecordEvaluationEvent(ctx context.Context, ev ActivityEvent, activityType string, evaluationID *string) {
	now := time.Now()
	log := &model.ActivityLog{
		Username:     ev.Username,
		Role:         ev.Role,
		ActivityType: activityType,
		IP:           ev.IP,
		UserAgent:    ev.UserAgent,
		EvaluationID: evaluationID,
		TimeIn:       now,
		TimeOut:      &now,
	}
	if ev.UserID != "" {
		log.UserID = &ev.UserID
	}
	if ev.SessionID != "" {
		log.SessionID = &ev.SessionID
	}

	if err := s.repo.Activity.Create(ctx, log); err != nil {
		s.logger.Warn("写入评价审计行失败",
			zap.String("username", ev.Username),
			zap.String("activity_type", activityType),
			zap.Error(err))
	}
}

// ────────────────────── List ──────────────────────

func (s *activityService) List(ctx context.Context, req *dto.ListActivityRequest) (*dto.PagedResponse, error) {
	filter := repository.ActivityFilter{
		Username:     req.Username,
		ActivityType: req.ActivityType,
		Offset:       req.GetOffset(),
		Limit:        req.GetPageSize(),
	}

	logs, total, err := s.repo.Activity.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出活动日志失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.ActivityLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, *s.toActivityResponse(&logs[i]))
	}

	return &dto.PagedResponse{
		Items:    items,
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
	}, nil
}

// ── 内部辅助方法 ──

func (s *activityService) toActivityResponse(log *model.ActivityLog) *dto.ActivityLogResponse {
	resp := &dto.ActivityLogResponse{
		ID:              log.ActivityLogID,
		Username:        log.Username,
		Role:            log.Role,
		ActivityType:    log.ActivityType,
		IP:              log.IP,
		TimeIn:          log.TimeIn.Format(time.RFC3339),
		DurationSeconds: log.DurationSeconds,
	}
	if log.UserID != nil {
		resp.UserID = *log.UserID
	}
	if log.SessionID != nil {
		resp.SessionID = *log.SessionID
	}
	if log.EvaluationID != nil {
		resp.EvaluationID = *log.EvaluationID
	}
	if log.TimeOut != nil {
		resp.TimeOut = log.TimeOut.Format(time.RFC3339)
	}
	return resp
}
