package repository

import (
	"context"

	"gorm.io/gorm"

	"stylio/backend/internal/model"
)

// CatalogRepository 沙龙服务项目数据访问接口
type CatalogRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	ListBySalon(ctx context.Context, salonID string) ([]model.Service, error)
	// Delete 同时移除员工与该服务的关联
	Delete(ctx context.Context, id string) error
}

type catalogRepo struct {
	db *gorm.DB
}

// NewCatalogRepo 创建 CatalogRepository 实例
func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) Create(ctx context.Context, svc *model.Service) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

func (r *catalogRepo) GetByID(ctx context.Context, id string) (*model.Service, error) {
	var svc model.Service
	err := r.db.WithContext(ctx).Where("service_id = ?", id).First(&svc).Error
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *catalogRepo) ListBySalon(ctx context.Context, salonID string) ([]model.Service, error) {
	var services []model.Service
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("name ASC").
		Find(&services).Error
	return services, err
}

func (r *catalogRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", id).Delete(&model.StaffSkill{}).Error; err != nil {
			return err
		}
		return tx.Where("service_id = ?", id).Delete(&model.Service{}).Error
	})
}
