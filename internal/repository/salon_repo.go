package repository

import (
	"context"

	"gorm.io/gorm"

	"stylio/backend/internal/model"
)

// SalonRepository 沙龙数据访问接口
type SalonRepository interface {
	Create(ctx context.Context, salon *model.Salon) error
	GetByID(ctx context.Context, id string) (*model.Salon, error)
	// GetDetail 预加载服务、员工（含技能）、评价与照片
	GetDetail(ctx context.Context, id string) (*model.Salon, error)
	// List 首页列表：预加载评价与照片
	List(ctx context.Context) ([]model.Salon, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Salon, error)
	Update(ctx context.Context, salon *model.Salon) error
	// Delete 级联删除沙龙及其全部子记录
	Delete(ctx context.Context, id string) error
}

type salonRepo struct {
	db *gorm.DB
}

// NewSalonRepo 创建 SalonRepository 实例
func NewSalonRepo(db *gorm.DB) SalonRepository {
	return &salonRepo{db: db}
}

func orderedPhotos(db *gorm.DB) *gorm.DB {
	return db.Order("is_main DESC, created_at ASC, photo_id ASC")
}

func (r *salonRepo) Create(ctx context.Context, salon *model.Salon) error {
	return r.db.WithContext(ctx).Create(salon).Error
}

func (r *salonRepo) GetByID(ctx context.Context, id string) (*model.Salon, error) {
	var salon model.Salon
	err := r.db.WithContext(ctx).Where("salon_id = ?", id).First(&salon).Error
	if err != nil {
		return nil, err
	}
	return &salon, nil
}

func (r *salonRepo) GetDetail(ctx context.Context, id string) (*model.Salon, error) {
	var salon model.Salon
	err := r.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Staff", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Staff.Skills").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Photos", orderedPhotos).
		Where("salon_id = ?", id).
		First(&salon).Error
	if err != nil {
		return nil, err
	}
	return &salon, nil
}

func (r *salonRepo) List(ctx context.Context) ([]model.Salon, error) {
	var salons []model.Salon
	err := r.db.WithContext(ctx).
		Preload("Reviews").
		Preload("Photos", orderedPhotos).
		Order("created_at DESC").
		Find(&salons).Error
	return salons, err
}

func (r *salonRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Salon, error) {
	var salons []model.Salon
	err := r.db.WithContext(ctx).
		Preload("Reviews").
		Preload("Photos", orderedPhotos).
		Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&salons).Error
	return salons, err
}

func (r *salonRepo) Update(ctx context.Context, salon *model.Salon) error {
	return r.db.WithContext(ctx).
		Model(&model.Salon{}).
		Where("salon_id = ?", salon.SalonID).
		Updates(map[string]interface{}{
			"name":        salon.Name,
			"description": salon.Description,
			"location":    salon.Location,
			"map_link":    salon.MapLink,
			"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *salonRepo) Delete(ctx context.Context, id string) error {
	// 显式删除子记录，不依赖数据库是否开启外键级联
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		staffIDs := tx.Model(&model.Staff{}).Select("staff_id").Where("salon_id = ?", id)
		if err := tx.Where("staff_id IN (?)", staffIDs).Delete(&model.StaffUnavailability{}).Error; err != nil {
			return err
		}
		if err := tx.Where("staff_id IN (?)", staffIDs).Delete(&model.StaffSkill{}).Error; err != nil {
			return err
		}
		children := []interface{}{
			&model.Staff{},
			&model.Service{},
			&model.Review{},
			&model.SalonPhoto{},
			&model.WeeklySchedule{},
			&model.SpecialDay{},
		}
		for _, child := range children {
			if err := tx.Where("salon_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Where("salon_id = ?", id).Delete(&model.Salon{}).Error
	})
}
