package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medfeedback/backend/internal/api/middleware"
	"medfeedback/backend/internal/dto"
	"medfeedback/backend/internal/service"
	"medfeedback/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc      service.AuthService
	bootstrapSvc service.BootstrapService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, bootstrapSvc service.BootstrapService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, bootstrapSvc: bootstrapSvc}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		// 邮箱不存在与口令错误返回完全相同的响应，防止账号枚举
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "邮箱或密码错误")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Register 注册用户
// POST /api/v1/auth/register
// 目录为空时开放注册（引导场景），否则要求管理员令牌
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerRole := c.GetString(middleware.CtxRole)

	result, err := h.authSvc.Register(c.Request.Context(), &req, callerRole)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegisterForbidden):
			response.Forbidden(c, 10003, "仅管理员可注册新用户")
		case errors.Is(err, service.ErrEmailExists):
			response.Conflict(c, 11002, "邮箱已被注册")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// RefreshToken 刷新 Token 对
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Unauthorized(c, 10002, "Token 无效或已过期")
		return
	}

	response.OK(c, result)
}

// GetCurrentUser 获取当前用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		// Token 合法但主体已不存在，同样视为未授权
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, 10002, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// BootstrapAdmin 按需执行管理员引导（与启动路径同一策略：存在即保留）
// POST /api/v1/auth/bootstrap-admin
func (h *AuthHandler) BootstrapAdmin(c *gin.Context) {
	outcome, user, err := h.bootstrapSvc.EnsureAdmin(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	resp := &dto.BootstrapResponse{Outcome: outcome}
	if user != nil {
		resp.User = &dto.UserResponse{ID: user.UserID, Email: user.Email, Role: user.Role}
	}

	switch outcome {
	case service.BootstrapSkipped:
		response.BadRequest(c, 11003, "未配置管理员引导凭证")
	case service.BootstrapCreated:
		response.Created(c, resp)
	default:
		response.OK(c, resp)
	}
}

// ResetAdmin 强制重置管理员账号（删除后用配置凭证重建）
// POST /api/v1/auth/admin/reset — 仅限已认证的管理员
func (h *AuthHandler) ResetAdmin(c *gin.Context) {
	user, err := h.bootstrapSvc.ForceResetAdmin(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrBootstrapNotConfigured) {
			response.BadRequest(c, 11003, "未配置管理员引导凭证")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, &dto.UserResponse{ID: user.UserID, Email: user.Email, Role: user.Role})
}
