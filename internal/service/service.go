package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"stylio/backend/config"
	"stylio/backend/internal/availability"
	"stylio/backend/internal/repository"
	"stylio/backend/pkg/jwt"
)

// TokenBlacklist 注销时吊销 Access Token
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// ImageStore 图片存储
type ImageStore interface {
	Allowed(filename string) bool
	SaveImage(subdir, filename string, r io.Reader, maxSide int) (string, string, error)
	Delete(rel string) error
	URL(rel string) string
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Salon        SalonService
	Catalog      CatalogService
	Staff        StaffService
	Photo        PhotoService
	Hours        HoursService
	Availability AvailabilityService
	Booking      BookingService
	Review       ReviewService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	store ImageStore,
	policy availability.Policy,
	clock availability.Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, blacklist, logger),
		Salon:        NewSalonService(repo, store, policy, clock, logger),
		Catalog:      NewCatalogService(repo, logger),
		Staff:        NewStaffService(&cfg.Upload, repo, store, logger),
		Photo:        NewPhotoService(&cfg.Upload, repo, store, logger),
		Hours:        NewHoursService(repo, policy, clock, logger),
		Availability: NewAvailabilityService(repo, policy, logger),
		Booking:      NewBookingService(repo, store, policy, logger),
		Review:       NewReviewService(repo, logger),
		Export:       NewExportService(repo, policy, clock, logger),
	}
}
