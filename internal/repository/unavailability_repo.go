package repository

import (
	"context"

	"gorm.io/gorm"

	"stylio/backend/internal/model"
)

// UnavailabilityRepository 员工不可用时间数据访问接口
type UnavailabilityRepository interface {
	ListByStaffAndDate(ctx context.Context, staffID string, date model.Date) ([]model.StaffUnavailability, error)
	// ListBySalonFrom 返回沙龙全部员工自 from 起的不可用记录，导出用
	ListBySalonFrom(ctx context.Context, salonID string, from model.Date) ([]model.StaffUnavailability, error)
	// ReplaceForDay 在同一事务内删除 (staff, date) 的全部记录后重新写入；
	// times 为空时写入一条全天记录（time 为 NULL）
	ReplaceForDay(ctx context.Context, staffID string, date model.Date, times []string) error
	// DeleteForDay 删除 (staff, date) 的全部记录，无记录时也不报错
	DeleteForDay(ctx context.Context, staffID string, date model.Date) error
}

type unavailabilityRepo struct {
	db *gorm.DB
}

// NewUnavailabilityRepo 创建 UnavailabilityRepository 实例
func NewUnavailabilityRepo(db *gorm.DB) UnavailabilityRepository {
	return &unavailabilityRepo{db: db}
}

func (r *unavailabilityRepo) ListByStaffAndDate(ctx context.Context, staffID string, date model.Date) ([]model.StaffUnavailability, error) {
	var rows []model.StaffUnavailability
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND date = ?", staffID, date).
		Order("time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *unavailabilityRepo) ListBySalonFrom(ctx context.Context, salonID string, from model.Date) ([]model.StaffUnavailability, error) {
	var rows []model.StaffUnavailability
	staffIDs := r.db.Model(&model.Staff{}).Select("staff_id").Where("salon_id = ?", salonID)
	err := r.db.WithContext(ctx).
		Where("staff_id IN (?) AND date >= ?", staffIDs, from).
		Order("date ASC, staff_id ASC, time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *unavailabilityRepo) ReplaceForDay(ctx context.Context, staffID string, date model.Date, times []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ? AND date = ?", staffID, date).
			Delete(&model.StaffUnavailability{}).Error; err != nil {
			return err
		}

		if len(times) == 0 {
			return tx.Create(&model.StaffUnavailability{StaffID: staffID, Date: date}).Error
		}

		rows := make([]model.StaffUnavailability, 0, len(times))
		for i := range times {
			t := times[i]
			rows = append(rows, model.StaffUnavailability{StaffID: staffID, Date: date, Time: &t})
		}
		return tx.Create(&rows).Error
	})
}

func (r *unavailabilityRepo) DeleteForDay(ctx context.Context, staffID string, date model.Date) error {
	return r.db.WithContext(ctx).
		Where("staff_id = ? AND date = ?", staffID, date).
		Delete(&model.StaffUnavailability{}).Error
}
