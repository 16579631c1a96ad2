package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
}

// ImportUserResponse 批量导入用户响应
type ImportUserResponse struct {
	Total    int                    `json:"total"`
	Success  int                    `json:"success"`
	Failed   int                    `json:"failed"`
	Errors   []ImportUserError      `json:"errors,omitempty"`
	Imported []ImportedUserResponse `json:"imported,omitempty"`
}

// ImportUserError 导入错误详情
type ImportUserError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportedUserResponse 单个导入成功的账号（含临时口令，仅返回一次）
type ImportedUserResponse struct {
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}
