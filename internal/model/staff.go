package model

import "gorm.io/gorm"

// Service 服务项目表 — 对应 services
type Service struct {
	ServiceID string `gorm:"type:uuid;primaryKey"       json:"service_id"`
	SalonID   string `gorm:"type:uuid;not null;index"   json:"salon_id"`
	Name      string `gorm:"type:varchar(140);not null" json:"name"`
	Duration  int    `gorm:"not null;default:60"        json:"duration"` // 分钟
	Price     int    `gorm:"not null;default:0"         json:"price"`
	BaseModel
}

// TableName 指定表名
func (Service) TableName() string { return "services" }

// BeforeCreate 生成主键
func (s *Service) BeforeCreate(_ *gorm.DB) error {
	newID(&s.ServiceID)
	return nil
}

// Staff 员工表 — 对应 staff
type Staff struct {
	StaffID    string  `gorm:"type:uuid;primaryKey"       json:"staff_id"`
	SalonID    string  `gorm:"type:uuid;not null;index"   json:"salon_id"`
	Name       string  `gorm:"type:varchar(140);not null" json:"name"`
	Profession string  `gorm:"type:varchar(140)"          json:"profession,omitempty"`
	PhotoPath  *string `gorm:"type:varchar(500)"          json:"photo_path,omitempty"` // 上传照片，相对上传目录
	Image      *string `gorm:"type:varchar(400)"          json:"image,omitempty"`      // 外部图片 URL
	BaseModel

	// 关联
	Skills []StaffSkill `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE" json:"skills,omitempty"`
}

// TableName 指定表名
func (Staff) TableName() string { return "staff" }

// BeforeCreate 生成主键
func (s *Staff) BeforeCreate(_ *gorm.DB) error {
	newID(&s.StaffID)
	return nil
}

// StaffSkill 员工可提供的服务 — 对应 staff_services
type StaffSkill struct {
	StaffID   string `gorm:"type:uuid;primaryKey" json:"staff_id"`
	ServiceID string `gorm:"type:uuid;primaryKey" json:"service_id"`
}

// TableName 指定表名
func (StaffSkill) TableName() string { return "staff_services" }
