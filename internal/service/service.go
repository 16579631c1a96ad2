package service

import (
	"go.uber.org/zap"

	"medfeedback/backend/config"
	"medfeedback/backend/internal/repository"
	"medfeedback/backend/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Bootstrap BootstrapService
	User      UserService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, logger),
		Bootstrap: NewBootstrapService(cfg, repo, logger),
		User:      NewUserService(repo, logger),
	}
}
