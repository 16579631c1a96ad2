package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"medfeedback/backend/config"
	"medfeedback/backend/internal/model"
	"medfeedback/backend/internal/repository"
	"medfeedback/backend/pkg/password"
)

// 管理员引导结果
const (
	BootstrapSkipped  = "skipped"  // 未配置引导凭证，跳过
	BootstrapCreated  = "created"  // 新建了管理员账号
	BootstrapExisting = "existing" // 账号已存在，原样保留
)

// ErrBootstrapNotConfigured 强制重置要求引导凭证已配置
var ErrBootstrapNotConfigured = errors.New("未配置管理员引导凭证")

// BootstrapService 管理员账号引导
//
// 启动路径采用"存在即保留"策略：重复调用、并发启动都不会改写已有账号
// 的口令哈希。删除重建（找回被弄丢的管理员凭证）只通过 ForceResetAdmin
// 暴露，且必须由已认证的管理员显式触发，绝不在启动时自动执行。
type BootstrapService interface {
	EnsureAdmin(ctx context.Context) (outcome string, user *model.User, err error)
	ForceResetAdmin(ctx context.Context) (*model.User, error)
}

type bootstrapService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBootstrapService 创建 BootstrapService 实例
func NewBootstrapService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) BootstrapService {
	return &bootstrapService{cfg: cfg, repo: repo, logger: logger}
}

// EnsureAdmin 保证配置指定的管理员账号处于可用状态
//
// 状态机（每次调用）：
//   - 凭证缺失        → skipped，不是错误，不阻塞启动
//   - 目标邮箱不存在  → 创建 role=admin 的新账号 → created
//   - 目标邮箱已存在  → 原样返回，不重新哈希、不覆盖口令 → existing
//
// 并发调用同时走到创建分支时，唯一索引保证只有一方成功，
// 失败方降级为 existing 重新读取既有行。
func (s *bootstrapService) EnsureAdmin(ctx context.Context) (string, *model.User, error) {
	email := s.cfg.Auth.AdminEmail
	pwd := s.cfg.Auth.AdminPassword
	if email == "" || pwd == "" {
		s.logger.Info("管理员引导跳过：未配置 admin_email / admin_password")
		return BootstrapSkipped, nil, nil
	}

	existing, err := s.repo.User.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info("管理员账号已存在，保持原状",
			zap.String("user_id", existing.UserID),
		)
		return BootstrapExisting, existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, err
	}

	hash, err := password.Hash(pwd)
	if err != nil {
		return "", nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发引导：另一方已完成创建
			winner, gerr := s.repo.User.GetByEmail(ctx, email)
			if gerr != nil {
				return "", nil, gerr
			}
			s.logger.Info("管理员账号由并发调用创建，保持原状",
				zap.String("user_id", winner.UserID),
			)
			return BootstrapExisting, winner, nil
		}
		return "", nil, err
	}

	s.logger.Info("管理员账号创建成功", zap.String("user_id", user.UserID))
	return BootstrapCreated, user, nil
}

// ForceResetAdmin 删除配置指定邮箱的既有账号并用新哈希重建
// 删除与重建在同一事务内完成，失败时不留下半创建状态
func (s *bootstrapService) ForceResetAdmin(ctx context.Context) (*model.User, error) {
	email := s.cfg.Auth.AdminEmail
	pwd := s.cfg.Auth.AdminPassword
	if email == "" || pwd == "" {
		return nil, ErrBootstrapNotConfigured
	}

	hash, err := password.Hash(pwd)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}

	if err := s.repo.User.Replace(ctx, user); err != nil {
		s.logger.Error("管理员强制重置失败", zap.Error(err))
		return nil, err
	}

	s.logger.Warn("管理员账号已强制重置", zap.String("user_id", user.UserID))
	return user, nil
}
