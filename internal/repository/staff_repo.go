package repository

import (
	"context"

	"gorm.io/gorm"

	"stylio/backend/internal/model"
)

// StaffRepository 员工数据访问接口
type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	ListBySalon(ctx context.Context, salonID string) ([]model.Staff, error)
	UpdatePhoto(ctx context.Context, id string, photoPath *string) error
	// Delete 删除员工及其技能关联和不可用时间
	Delete(ctx context.Context, id string) error
	// ReplaceSkills 全量替换员工可提供的服务
	ReplaceSkills(ctx context.Context, staffID string, serviceIDs []string) error
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo 创建 StaffRepository 实例
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Preload("Skills").
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) ListBySalon(ctx context.Context, salonID string) ([]model.Staff, error) {
	var staff []model.Staff
	err := r.db.WithContext(ctx).
		Preload("Skills").
		Where("salon_id = ?", salonID).
		Order("name ASC").
		Find(&staff).Error
	return staff, err
}

func (r *staffRepo) UpdatePhoto(ctx context.Context, id string, photoPath *string) error {
	return r.db.WithContext(ctx).
		Model(&model.Staff{}).
		Where("staff_id = ?", id).
		Updates(map[string]interface{}{
			"photo_path": photoPath,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *staffRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", id).Delete(&model.StaffUnavailability{}).Error; err != nil {
			return err
		}
		if err := tx.Where("staff_id = ?", id).Delete(&model.StaffSkill{}).Error; err != nil {
			return err
		}
		return tx.Where("staff_id = ?", id).Delete(&model.Staff{}).Error
	})
}

func (r *staffRepo) ReplaceSkills(ctx context.Context, staffID string, serviceIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", staffID).Delete(&model.StaffSkill{}).Error; err != nil {
			return err
		}
		if len(serviceIDs) == 0 {
			return nil
		}
		skills := make([]model.StaffSkill, 0, len(serviceIDs))
		for _, sid := range serviceIDs {
			skills = append(skills, model.StaffSkill{StaffID: staffID, ServiceID: sid})
		}
		return tx.Create(&skills).Error
	})
}
