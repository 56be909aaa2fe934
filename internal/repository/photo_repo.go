package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stylio/backend/internal/model"
)

// ErrPhotoLimitReached 沙龙照片数量已达上限
var ErrPhotoLimitReached = errors.New("沙龙照片数量已达上限")

// PhotoRepository 沙龙照片数据访问接口
//
// 主图约束：每个沙龙至多一张 is_main=true。
// 所有改动主图的操作都在单个事务内"先全部清除、再设置目标"，不存在没有主图的中间状态。
type PhotoRepository interface {
	CountBySalon(ctx context.Context, salonID string) (int64, error)
	// Create 插入照片；沙龙的第一张照片自动成为主图。
	// limit > 0 时已有 limit 张则返回 ErrPhotoLimitReached
	Create(ctx context.Context, photo *model.SalonPhoto, limit int) error
	GetByID(ctx context.Context, id string) (*model.SalonPhoto, error)
	ListBySalon(ctx context.Context, salonID string) ([]model.SalonPhoto, error)
	SetMain(ctx context.Context, salonID, photoID string) error
	// Delete 删除照片；若删除的是主图，则把剩余最早的一张设为主图
	Delete(ctx context.Context, photo *model.SalonPhoto) error
}

type photoRepo struct {
	db *gorm.DB
}

// NewPhotoRepo 创建 PhotoRepository 实例
func NewPhotoRepo(db *gorm.DB) PhotoRepository {
	return &photoRepo{db: db}
}

func (r *photoRepo) CountBySalon(ctx context.Context, salonID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SalonPhoto{}).Where("salon_id = ?", salonID).Count(&n).Error
	return n, err
}

func (r *photoRepo) Create(ctx context.Context, photo *model.SalonPhoto, limit int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住沙龙行，同一沙龙的并发上传串行计数
		var salon model.Salon
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("salon_id").Where("salon_id = ?", photo.SalonID).Take(&salon).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&model.SalonPhoto{}).Where("salon_id = ?", photo.SalonID).Count(&n).Error; err != nil {
			return err
		}
		if limit > 0 && n >= int64(limit) {
			return ErrPhotoLimitReached
		}
		photo.IsMain = n == 0
		return tx.Create(photo).Error
	})
}

func (r *photoRepo) GetByID(ctx context.Context, id string) (*model.SalonPhoto, error) {
	var photo model.SalonPhoto
	err := r.db.WithContext(ctx).Where("photo_id = ?", id).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepo) ListBySalon(ctx context.Context, salonID string) ([]model.SalonPhoto, error) {
	var photos []model.SalonPhoto
	err := orderedPhotos(r.db.WithContext(ctx)).
		Where("salon_id = ?", salonID).
		Find(&photos).Error
	return photos, err
}

func (r *photoRepo) SetMain(ctx context.Context, salonID, photoID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return setMainTx(tx, salonID, photoID)
	})
}

func setMainTx(tx *gorm.DB, salonID, photoID string) error {
	if err := tx.Model(&model.SalonPhoto{}).
		Where("salon_id = ?", salonID).
		Update("is_main", false).Error; err != nil {
		return err
	}
	result := tx.Model(&model.SalonPhoto{}).
		Where("salon_id = ? AND photo_id = ?", salonID, photoID).
		Update("is_main", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *photoRepo) Delete(ctx context.Context, photo *model.SalonPhoto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", photo.PhotoID).Delete(&model.SalonPhoto{}).Error; err != nil {
			return err
		}
		if !photo.IsMain {
			return nil
		}
		var next model.SalonPhoto
		err := tx.Where("salon_id = ?", photo.SalonID).
			Order("created_at ASC, photo_id ASC").
			First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return setMainTx(tx, photo.SalonID, next.PhotoID)
	})
}
