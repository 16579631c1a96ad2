package model

// 用户角色
// 角色之间没有层级关系，接口鉴权只做集合成员检查
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User 用户表 — 对应 users
// Email 为精确匹配键（区分大小写，不做任何归一化），全表唯一；
// PasswordHash 永不序列化、永不写入日志
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'staff'"      json:"role"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
