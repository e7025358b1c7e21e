package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/config"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/repository"
	pkgerrors "github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrStudentNoExists = errors.New("学号已被占用")
)

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.ListUserRequest) (*dto.PagedResponse, error)
	// Update 更新用户。学生换班且开启自动选课开关时，
	// 自动补选新班级的全部已指派科目
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
}

type userService struct {
	cfg        *config.Config
	repo       *repository.Repository
	enrollment EnrollmentService
	logger     *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(cfg *config.Config, repo *repository.Repository, enrollment EnrollmentService, logger *zap.Logger) UserService {
	return &userService{cfg: cfg, repo: repo, enrollment: enrollment, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		StudentNo:    req.StudentNo,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
		SectionID:    req.SectionID,
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		if pkgerrors.IsUniqueViolation(err, "users_student_no_key") {
			return nil, ErrStudentNoExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	// 学生带班级入学时按开关自动选课
	if user.IsStudent() && user.SectionID != nil && s.cfg.Feature.AutoEnrollOnSectionChange {
		if _, err := s.enrollment.AutoEnroll(ctx, user, callerID); err != nil {
			s.logger.Warn("新学生自动选课失败", zap.String("user_id", user.UserID), zap.Error(err))
		}
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.ListUserRequest) (*dto.PagedResponse, error) {
	users, total, err := s.repo.User.List(ctx, req.Role, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	return &dto.PagedResponse{
		Items:    items,
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
	}, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	sectionChanged := false
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.SectionID != nil {
		if user.SectionID == nil || *user.SectionID != *req.SectionID {
			sectionChanged = true
		}
		user.SectionID = req.SectionID
		// 换班后旧的 Section 关联不再可信
		user.Section = nil
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if sectionChanged && user.IsStudent() && s.cfg.Feature.AutoEnrollOnSectionChange {
		if n, err := s.enrollment.AutoEnroll(ctx, user, callerID); err != nil {
			s.logger.Warn("换班自动选课失败", zap.String("user_id", id), zap.Error(err))
		} else if n > 0 {
			s.logger.Info("换班自动选课完成", zap.String("user_id", id), zap.Int("enrolled", n))
		}
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ── 内部辅助方法 ──

// toUserResponse 脱敏转换，认证模块共用
func toUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        user.UserID,
		Name:      user.Name,
		StudentNo: user.StudentNo,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
	}
	if user.Section != nil {
		resp.Section = &dto.SectionResponse{
			ID:      user.Section.SectionID,
			Name:    user.Section.Name,
			LevelID: user.Section.LevelID,
		}
	}
	return resp
}
