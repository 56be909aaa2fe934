package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stylio/backend/internal/model"
)

// WeeklyScheduleRepository 每周营业时间数据访问接口
type WeeklyScheduleRepository interface {
	GetBySalonAndWeekday(ctx context.Context, salonID string, weekday int) (*model.WeeklySchedule, error)
	ListBySalon(ctx context.Context, salonID string) ([]model.WeeklySchedule, error)
	// Upsert 按 (salon_id, weekday) 插入或覆盖
	Upsert(ctx context.Context, entry *model.WeeklySchedule) error
	Delete(ctx context.Context, salonID string, weekday int) error
}

type weeklyScheduleRepo struct {
	db *gorm.DB
}

// NewWeeklyScheduleRepo 创建 WeeklyScheduleRepository 实例
func NewWeeklyScheduleRepo(db *gorm.DB) WeeklyScheduleRepository {
	return &weeklyScheduleRepo{db: db}
}

func (r *weeklyScheduleRepo) GetBySalonAndWeekday(ctx context.Context, salonID string, weekday int) (*model.WeeklySchedule, error) {
	var entry model.WeeklySchedule
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND weekday = ?", salonID, weekday).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *weeklyScheduleRepo) ListBySalon(ctx context.Context, salonID string) ([]model.WeeklySchedule, error) {
	var entries []model.WeeklySchedule
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("weekday ASC").
		Find(&entries).Error
	return entries, err
}

func (r *weeklyScheduleRepo) Upsert(ctx context.Context, entry *model.WeeklySchedule) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "salon_id"}, {Name: "weekday"}},
		DoUpdates: clause.AssignmentColumns([]string{"closed", "start_time", "end_time", "updated_at"}),
	}).Create(entry).Error
}

func (r *weeklyScheduleRepo) Delete(ctx context.Context, salonID string, weekday int) error {
	result := r.db.WithContext(ctx).
		Where("salon_id = ? AND weekday = ?", salonID, weekday).
		Delete(&model.WeeklySchedule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SpecialDayRepository 特殊日期数据访问接口
type SpecialDayRepository interface {
	GetBySalonAndDate(ctx context.Context, salonID string, date model.Date) (*model.SpecialDay, error)
	// ListBySalon 按日期升序；from 非空时只返回该日及之后
	ListBySalon(ctx context.Context, salonID string, from *model.Date) ([]model.SpecialDay, error)
	// Upsert 按 (salon_id, date) 插入或覆盖
	Upsert(ctx context.Context, day *model.SpecialDay) error
	Delete(ctx context.Context, salonID string, date model.Date) error
}

type specialDayRepo struct {
	db *gorm.DB
}

// NewSpecialDayRepo 创建 SpecialDayRepository 实例
func NewSpecialDayRepo(db *gorm.DB) SpecialDayRepository {
	return &specialDayRepo{db: db}
}

func (r *specialDayRepo) GetBySalonAndDate(ctx context.Context, salonID string, date model.Date) (*model.SpecialDay, error) {
	var day model.SpecialDay
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND date = ?", salonID, date).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *specialDayRepo) ListBySalon(ctx context.Context, salonID string, from *model.Date) ([]model.SpecialDay, error) {
	var days []model.SpecialDay
	query := r.db.WithContext(ctx).Where("salon_id = ?", salonID)
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	err := query.Order("date ASC").Find(&days).Error
	return days, err
}

func (r *specialDayRepo) Upsert(ctx context.Context, day *model.SpecialDay) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "salon_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"closed", "start_time", "end_time", "updated_at"}),
	}).Create(day).Error
}

func (r *specialDayRepo) Delete(ctx context.Context, salonID string, date model.Date) error {
	result := r.db.WithContext(ctx).
		Where("salon_id = ? AND date = ?", salonID, date).
		Delete(&model.SpecialDay{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
