package model

import (
	"time"

	"gorm.io/gorm"
)

// Salon 沙龙表 — 对应 salons
type Salon struct {
	SalonID     string  `gorm:"type:uuid;primaryKey"        json:"salon_id"`
	OwnerUserID string  `gorm:"type:uuid;not null;index"    json:"owner_user_id"`
	Name        string  `gorm:"type:varchar(160);not null"  json:"name"`
	Description string  `gorm:"type:text"                   json:"description,omitempty"`
	Location    string  `gorm:"type:varchar(200)"           json:"location,omitempty"`
	MapLink     *string `gorm:"type:varchar(500)"           json:"map_link,omitempty"`
	BaseModel

	// 关联
	Services []Service    `gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
	Staff    []Staff      `gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE" json:"staff,omitempty"`
	Reviews  []Review     `gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	Photos   []SalonPhoto `gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

// TableName 指定表名
func (Salon) TableName() string { return "salons" }

// BeforeCreate 生成主键
func (s *Salon) BeforeCreate(_ *gorm.DB) error {
	newID(&s.SalonID)
	return nil
}

// SalonPhoto 沙龙照片表 — 对应 salon_photos
// 每个沙龙至多一张 is_main=true，由 Repository 在单个事务内维护
type SalonPhoto struct {
	PhotoID   string    `gorm:"type:uuid;primaryKey"               json:"photo_id"`
	SalonID   string    `gorm:"type:uuid;not null;index"           json:"salon_id"`
	FilePath  string    `gorm:"type:varchar(500);not null"         json:"file_path"` // 相对上传目录，如 salons/abcd.webp
	IsMain    bool      `gorm:"not null;default:false"             json:"is_main"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (SalonPhoto) TableName() string { return "salon_photos" }

// BeforeCreate 生成主键
func (p *SalonPhoto) BeforeCreate(_ *gorm.DB) error {
	newID(&p.PhotoID)
	return nil
}

// Review 评价表 — 对应 reviews
type Review struct {
	ReviewID  string    `gorm:"type:uuid;primaryKey"               json:"review_id"`
	SalonID   string    `gorm:"type:uuid;not null;index"           json:"salon_id"`
	UserID    *string   `gorm:"type:uuid"                          json:"user_id,omitempty"`
	Rating    int       `gorm:"type:smallint;not null"             json:"rating"` // 1-5
	Comment   string    `gorm:"type:text"                          json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Review) TableName() string { return "reviews" }

// BeforeCreate 生成主键
func (r *Review) BeforeCreate(_ *gorm.DB) error {
	newID(&r.ReviewID)
	return nil
}
