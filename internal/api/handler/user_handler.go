package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"medfeedback/backend/internal/dto"
	"medfeedback/backend/internal/service"
	"medfeedback/backend/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers 用户列表（管理员）
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// GetUser 查询单个用户（管理员）
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 20001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, user)
}

// ImportUsers 批量导入账号（管理员，Excel 文件）
// POST /api/v1/users/import
func (h *UserHandler) ImportUsers(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.BadRequest(c, 10001, "无法读取上传文件")
		return
	}
	defer f.Close()

	rows, err := h.userSvc.ParseImportFile(f)
	if err != nil {
		response.BadRequest(c, 20002, "Excel 解析失败")
		return
	}

	result, err := h.userSvc.ImportUsers(c.Request.Context(), rows)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
