package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medfeedback/backend/config"
	"medfeedback/backend/internal/api/handler"
	"medfeedback/backend/internal/api/middleware"
	"medfeedback/backend/internal/model"
	"medfeedback/backend/pkg/jwt"
	"medfeedback/backend/pkg/redis"
)

// maxBodyBytes 全局请求体上限（导入 Excel 也在此限制内）
const maxBodyBytes = 5 << 20 // 5MB

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；凭证相关接口加速率限制）
		auth := v1.Group("/auth")
		{
			auth.POST("/login",
				middleware.RateLimit(rdb, 10, time.Minute),
				h.Auth.Login)
			auth.POST("/register",
				middleware.RateLimit(rdb, 10, time.Minute),
				middleware.OptionalJWTAuth(jwtMgr), // 目录为空时开放，否则需要管理员令牌
				h.Auth.Register)
			auth.POST("/refresh",
				middleware.RateLimit(rdb, 30, time.Minute),
				h.Auth.RefreshToken)
			auth.POST("/bootstrap-admin",
				middleware.RateLimit(rdb, 5, time.Minute),
				h.Auth.BootstrapAdmin)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr))
		{
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			// 强制重置必须由已认证的管理员显式触发，不在启动路径上
			authorized.POST("/auth/admin/reset",
				middleware.RoleAuth(model.RoleAdmin),
				h.Auth.ResetAdmin)

			// 用户模块（管理员）
			users := authorized.Group("/users")
			users.Use(middleware.RoleAuth(model.RoleAdmin))
			{
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.POST("/import", h.User.ImportUsers)
			}
		}
	}

	return r
}
