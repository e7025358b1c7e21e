package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/config"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/repository"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/jwt"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("账号或密码错误")
	ErrUserDisabled       = errors.New("账号已被停用")
	ErrRefreshInvalid     = errors.New("refresh token 无效")
)

// AuthService 认证业务接口
type AuthService interface {
	// Login 账号密码登录：成功后签发 Token 对并写入登录活动行
	Login(ctx context.Context, req *dto.LoginRequest, ip, userAgent string) (*dto.TokenResponse, error)
	// Logout 注销：将 Token 拉黑至过期，并闭合对应的登录活动行
	Logout(ctx context.Context, claims *jwt.Claims, ip, userAgent string) error
	// Refresh 用 refresh token 换发新的 Token 对，沿用原会话 ID
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	jwtMgr   *jwt.Manager
	rdb      *redis.Client
	activity ActivityService
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	activity ActivityService,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		jwtMgr:   jwtMgr,
		rdb:      rdb,
		activity: activity,
		logger:   logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ip, userAgent string) (*dto.TokenResponse, error) {
	// 1. 查询用户：学号优先，查不到按邮箱兜底
	user, err := s.repo.User.GetByStudentNo(ctx, req.Username)
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.repo.User.GetByEmail(ctx, req.Username)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 停用账号拒绝登录
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	// 4. 生成 Token 对（共享同一会话 ID）
	sectionID := ""
	if user.SectionID != nil {
		sectionID = *user.SectionID
	}
	sessionID := jwt.NewSessionID()

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, sectionID, sessionID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, sectionID, sessionID, req.RememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	// 5. 写入登录活动行（失败不阻断登录）
	if err := s.activity.RecordLogin(ctx, ActivityEvent{
		UserID:    user.UserID,
		Username:  user.StudentNo,
		Role:      user.Role,
		SessionID: sessionID,
		IP:        ip,
		UserAgent: userAgent,
	}); err != nil {
		s.logger.Warn("登录活动行写入失败", zap.String("user_id", user.UserID), zap.Error(err))
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims, ip, userAgent string) error {
	// 1. Token 拉黑至自然过期
	if claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
				s.logger.Error("Token 拉黑失败", zap.String("jti", claims.ID), zap.Error(err))
				return err
			}
		}
	}

	// 2. 闭合登录活动行
	username := ""
	if user, err := s.repo.User.GetByID(ctx, claims.UserID); err == nil {
		username = user.StudentNo
	}
	if err := s.activity.RecordLogout(ctx, ActivityEvent{
		UserID:    claims.UserID,
		Username:  username,
		Role:      claims.Role,
		SessionID: claims.SessionID,
		IP:        ip,
		UserAgent: userAgent,
	}); err != nil {
		s.logger.Warn("登出活动行写入失败", zap.String("user_id", claims.UserID), zap.Error(err))
	}

	return nil
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrRefreshInvalid
	}
	if claims.TokenType != "refresh" {
		return nil, ErrRefreshInvalid
	}

	blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("查询 Token 黑名单失败", zap.Error(err))
		return nil, err
	}
	if blacklisted {
		return nil, ErrRefreshInvalid
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshInvalid
		}
		s.logger.Error("查询用户失败", zap.String("id", claims.UserID), zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	// 旧 refresh token 换发后即拉黑，防止重放
	if claims.ExpiresAt != nil {
		if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
			if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
				s.logger.Warn("旧 RefreshToken 拉黑失败", zap.Error(err))
			}
		}
	}

	sectionID := ""
	if user.SectionID != nil {
		sectionID = *user.SectionID
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, sectionID, claims.SessionID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	newRefreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, sectionID, claims.SessionID, false)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return err
	}
	user.PasswordHash = string(hash)

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新密码失败", zap.String("id", userID), zap.Error(err))
		return err
	}
	return nil
}
