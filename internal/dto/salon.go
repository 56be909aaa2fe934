package dto

import "stylio/backend/internal/availability"

// ── 沙龙模块 DTO ──

// SalonRequest 创建 / 更新沙龙请求
type SalonRequest struct {
	Name        string  `json:"name"        binding:"required,max=160"`
	Description string  `json:"description"`
	Location    string  `json:"location"    binding:"max=200"`
	MapLink     *string `json:"map_link"    binding:"omitempty,max=500"`
}

// SalonSummary 首页列表项
type SalonSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Location      string  `json:"location,omitempty"`
	MainPhotoURL  string  `json:"main_photo_url,omitempty"`
	ReviewCount   int     `json:"review_count"`
	AverageReview float64 `json:"average_review"`
}

// SalonDetail 沙龙详情
type SalonDetail struct {
	ID                  string                        `json:"id"`
	OwnerID             string                        `json:"owner_id"`
	Name                string                        `json:"name"`
	Description         string                        `json:"description,omitempty"`
	Location            string                        `json:"location,omitempty"`
	MapLink             *string                       `json:"map_link,omitempty"`
	MainPhotoURL        string                        `json:"main_photo_url,omitempty"`
	Photos              []PhotoResponse               `json:"photos"`
	Services            []ServiceResponse             `json:"services"`
	Staff               []StaffResponse               `json:"staff"`
	WeeklyHours         []string                      `json:"weekly_hours"`
	UpcomingSpecialDays []availability.SpecialDayLine `json:"upcoming_special_days"`
	ReviewCount         int                           `json:"review_count"`
	AverageReview       float64                       `json:"average_review"`
	Reviews             []ReviewResponse              `json:"reviews"`
}

// PhotoResponse 沙龙照片
type PhotoResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	IsMain bool   `json:"is_main"`
}

// ── 服务与员工 ──

// ServiceRequest 新增服务请求，duration 默认 60 分钟、price 默认 0
type ServiceRequest struct {
	Name     string `json:"name"     binding:"required,max=140"`
	Duration *int   `json:"duration" binding:"omitempty,min=1,max=1440"`
	Price    *int   `json:"price"    binding:"omitempty,min=0"`
}

// ServiceResponse 服务信息
type ServiceResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Price    int    `json:"price"`
}

// StaffRequest 新增员工请求
type StaffRequest struct {
	Name       string  `json:"name"       binding:"required,max=140"`
	Profession string  `json:"profession" binding:"max=140"`
	Image      *string `json:"image"      binding:"omitempty,url,max=400"`
}

// StaffSkillsRequest 全量设置员工可提供的服务
type StaffSkillsRequest struct {
	ServiceIDs []string `json:"service_ids" binding:"dive,uuid"`
}

// StaffResponse 员工信息
type StaffResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Profession   string   `json:"profession,omitempty"`
	DisplayImage string   `json:"display_image,omitempty"`
	ServiceIDs   []string `json:"service_ids"`
}
