package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stylio/backend/config"
	"stylio/backend/internal/dto"
	"stylio/backend/internal/model"
	"stylio/backend/internal/repository"
	"stylio/backend/pkg/metrics"
)

// ── 照片模块业务错误 ──

var (
	ErrPhotoNotFound = errors.New("照片不存在")
	ErrPhotoLimit    = errors.New("沙龙照片数量已达上限")
)

// PhotoService 沙龙照片业务接口
//
// 主图规则：第一张照片自动成为主图；删除主图时最早的剩余照片成为主图。
type PhotoService interface {
	ListPhotos(ctx context.Context, salonID string) ([]dto.PhotoResponse, error)
	UploadPhoto(ctx context.Context, ownerID, salonID, filename string, r io.Reader) (*dto.PhotoResponse, error)
	SetMainPhoto(ctx context.Context, ownerID, salonID, photoID string) error
	DeletePhoto(ctx context.Context, ownerID, salonID, photoID string) error
}

type photoService struct {
	upload *config.UploadConfig
	repo   *repository.Repository
	store  ImageStore
	logger *zap.Logger
}

// NewPhotoService 创建 PhotoService 实例
func NewPhotoService(upload *config.UploadConfig, repo *repository.Repository, store ImageStore, logger *zap.Logger) PhotoService {
	return &photoService{upload: upload, repo: repo, store: store, logger: logger}
}

func (s *photoService) ListPhotos(ctx context.Context, salonID string) ([]dto.PhotoResponse, error) {
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}
	photos, err := s.repo.Photo.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("列出照片失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.PhotoResponse, 0, len(photos))
	for i := range photos {
		result = append(result, toPhotoResponse(s.store, &photos[i]))
	}
	return result, nil
}

// ────────────────────── Upload ──────────────────────

func (s *photoService) UploadPhoto(ctx context.Context, ownerID, salonID, filename string, r io.Reader) (*dto.PhotoResponse, error) {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return nil, err
	}
	if !s.store.Allowed(filename) {
		return nil, ErrUnsupportedImage
	}

	// 先检查数量，超限时不写文件
	count, err := s.repo.Photo.CountBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("统计照片数量失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	if count >= int64(s.upload.MaxSalonPhotos) {
		return nil, ErrPhotoLimit
	}

	rel, format, err := s.store.SaveImage(s.upload.SalonSubdir, filename, r, s.upload.SalonMaxSide)
	if err != nil {
		s.logger.Warn("保存沙龙照片失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	metrics.IncPhotoUpload(format)

	photo := &model.SalonPhoto{SalonID: salonID, FilePath: rel}
	if err := s.repo.Photo.Create(ctx, photo, s.upload.MaxSalonPhotos); err != nil {
		if delErr := s.store.Delete(rel); delErr != nil {
			s.logger.Warn("回滚图片文件失败", zap.String("path", rel), zap.Error(delErr))
		}
		if errors.Is(err, repository.ErrPhotoLimitReached) {
			return nil, ErrPhotoLimit
		}
		s.logger.Error("保存照片记录失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}

	resp := toPhotoResponse(s.store, photo)
	return &resp, nil
}

// ────────────────────── SetMain ──────────────────────

func (s *photoService) SetMainPhoto(ctx context.Context, ownerID, salonID, photoID string) error {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return err
	}
	if _, err := s.photoOfSalon(ctx, salonID, photoID); err != nil {
		return err
	}

	if err := s.repo.Photo.SetMain(ctx, salonID, photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhotoNotFound
		}
		s.logger.Error("设置主图失败", zap.String("photo_id", photoID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *photoService) DeletePhoto(ctx context.Context, ownerID, salonID, photoID string) error {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return err
	}
	photo, err := s.photoOfSalon(ctx, salonID, photoID)
	if err != nil {
		return err
	}

	if err := s.repo.Photo.Delete(ctx, photo); err != nil {
		s.logger.Error("删除照片失败", zap.String("photo_id", photoID), zap.Error(err))
		return err
	}

	// 记录已删除，文件删除失败只记日志
	if err := s.store.Delete(photo.FilePath); err != nil {
		s.logger.Warn("删除图片文件失败", zap.String("path", photo.FilePath), zap.Error(err))
	}
	return nil
}

func (s *photoService) photoOfSalon(ctx context.Context, salonID, photoID string) (*model.SalonPhoto, error) {
	photo, err := s.repo.Photo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		s.logger.Error("查询照片失败", zap.String("photo_id", photoID), zap.Error(err))
		return nil, err
	}
	if photo.SalonID != salonID {
		return nil, ErrPhotoNotFound
	}
	return photo, nil
}
