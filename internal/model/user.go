package model

import "gorm.io/gorm"

// 用户角色
const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey"                         json:"user_id"`
	FullName     string `gorm:"type:varchar(120);not null"                   json:"full_name"`
	Email        string `gorm:"type:varchar(120);not null;uniqueIndex"       json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                   json:"-"`
	Role         string `gorm:"type:varchar(50);not null;default:'customer'" json:"role"` // customer | owner
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键
func (u *User) BeforeCreate(_ *gorm.DB) error {
	newID(&u.UserID)
	return nil
}
