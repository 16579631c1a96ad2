package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
// 用户行采用物理删除：管理员强制重置走"删除后重建"，软删除的残留行
// 会占住邮箱唯一索引，导致重建失败
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
