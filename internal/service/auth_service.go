package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"medfeedback/backend/config"
	"medfeedback/backend/internal/dto"
	"medfeedback/backend/internal/model"
	"medfeedback/backend/internal/repository"
	"medfeedback/backend/pkg/jwt"
	"medfeedback/backend/pkg/password"
)

var (
	// ErrInvalidCredentials 登录失败的统一错误
	// 邮箱不存在与口令错误对调用方不可区分，防止账号枚举
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrRegisterForbidden  = errors.New("仅管理员可注册新用户")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Register 创建用户：目录为空时开放（引导场景），否则要求 callerRole 为 admin
	Register(ctx context.Context, req *dto.RegisterRequest, callerRole string) (*dto.UserResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserDetailResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户（邮箱精确匹配）
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证口令
	// 内部错误（哈希损坏等）只记录日志，对调用方一律等同于凭证错误
	ok, verr := password.Verify(req.Password, user.PasswordHash)
	if verr != nil {
		s.logger.Error("口令校验出现内部错误",
			zap.String("user_id", user.UserID),
			zap.Error(verr),
		)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.issueTokens(user)
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, callerRole string) (*dto.UserResponse, error) {
	// 目录非空时仅管理员可注册
	total, err := s.repo.User.Count(ctx)
	if err != nil {
		s.logger.Error("统计用户数失败", zap.Error(err))
		return nil, err
	}
	if total > 0 && callerRole != model.RoleAdmin {
		return nil, ErrRegisterForbidden
	}

	role := req.Role
	if role == "" {
		role = model.RoleStaff
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		s.logger.Error("口令哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}

	// 唯一索引是并发创建的最终裁决：先查后插的竞态在这里被收敛
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户注册成功",
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role),
	)

	return &dto.UserResponse{ID: user.UserID, Email: user.Email, Role: user.Role}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	// 类型检查由调用方负责：access token 不能换取新 token 对
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, jwt.ErrTokenInvalid
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jwt.ErrTokenInvalid
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return &dto.UserDetailResponse{
		ID:        user.UserID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// issueTokens 为用户签发 access/refresh Token 对
func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			ID:    user.UserID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}
