package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User           UserRepository
	Salon          SalonRepository
	Photo          PhotoRepository
	Catalog        CatalogRepository
	Staff          StaffRepository
	Review         ReviewRepository
	WeeklySchedule WeeklyScheduleRepository
	SpecialDay     SpecialDayRepository
	Unavailability UnavailabilityRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:           NewUserRepo(db),
		Salon:          NewSalonRepo(db),
		Photo:          NewPhotoRepo(db),
		Catalog:        NewCatalogRepo(db),
		Staff:          NewStaffRepo(db),
		Review:         NewReviewRepo(db),
		WeeklySchedule: NewWeeklyScheduleRepo(db),
		SpecialDay:     NewSpecialDayRepo(db),
		Unavailability: NewUnavailabilityRepo(db),
	}
}
