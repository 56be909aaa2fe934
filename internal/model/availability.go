package model

import "gorm.io/gorm"

// WeeklySchedule 每周营业时间 — 对应 weekly_schedules
// 每个 (salon_id, weekday) 至多一条；缺失表示使用默认营业时间
type WeeklySchedule struct {
	WeeklyScheduleID string  `gorm:"type:uuid;primaryKey"                                       json:"weekly_schedule_id"`
	SalonID          string  `gorm:"type:uuid;not null;uniqueIndex:uk_weekly_salon_weekday"     json:"salon_id"`
	Weekday          int     `gorm:"type:smallint;not null;uniqueIndex:uk_weekly_salon_weekday" json:"weekday"` // 0=周一 … 6=周日
	Closed           bool    `gorm:"not null;default:false"                                     json:"closed"`
	StartTime        *string `gorm:"type:varchar(5)"                                            json:"start_time,omitempty"` // "09:00"
	EndTime          *string `gorm:"type:varchar(5)"                                            json:"end_time,omitempty"`
	BaseModel
}

// TableName 指定表名
func (WeeklySchedule) TableName() string { return "weekly_schedules" }

// BeforeCreate 生成主键
func (w *WeeklySchedule) BeforeCreate(_ *gorm.DB) error {
	newID(&w.WeeklyScheduleID)
	return nil
}

// SpecialDay 特殊日期营业时间 — 对应 special_days
// 仅覆盖当天的每周营业时间
type SpecialDay struct {
	SpecialDayID string  `gorm:"type:uuid;primaryKey"                                  json:"special_day_id"`
	SalonID      string  `gorm:"type:uuid;not null;uniqueIndex:uk_special_salon_date"  json:"salon_id"`
	Date         Date    `gorm:"type:date;not null;uniqueIndex:uk_special_salon_date"  json:"date"`
	Closed       bool    `gorm:"not null;default:false"                                json:"closed"`
	StartTime    *string `gorm:"type:varchar(5)"                                       json:"start_time,omitempty"`
	EndTime      *string `gorm:"type:varchar(5)"                                       json:"end_time,omitempty"`
	BaseModel
}

// TableName 指定表名
func (SpecialDay) TableName() string { return "special_days" }

// BeforeCreate 生成主键
func (s *SpecialDay) BeforeCreate(_ *gorm.DB) error {
	newID(&s.SpecialDayID)
	return nil
}

// StaffUnavailability 员工不可用时间 — 对应 staff_unavailabilities
// Time 为 NULL 表示全天不可用；否则每行屏蔽一个时段
type StaffUnavailability struct {
	UnavailabilityID string  `gorm:"type:uuid;primaryKey"                    json:"unavailability_id"`
	StaffID          string  `gorm:"type:uuid;not null;index:idx_unavail_staff_date" json:"staff_id"`
	Date             Date    `gorm:"type:date;not null;index:idx_unavail_staff_date" json:"date"`
	Time             *string `gorm:"type:varchar(5)"                         json:"time,omitempty"`
	BaseModel
}

// TableName 指定表名
func (StaffUnavailability) TableName() string { return "staff_unavailabilities" }

// BeforeCreate 生成主键
func (u *StaffUnavailability) BeforeCreate(_ *gorm.DB) error {
	newID(&u.UnavailabilityID)
	return nil
}
