package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stylio/backend/internal/dto"
	"stylio/backend/internal/model"
	"stylio/backend/internal/repository"
)

// ── 服务项目模块业务错误 ──

var (
	ErrServiceNotFound = errors.New("服务项目不存在")
)

// 服务项目默认值
const (
	defaultServiceDuration = 60
	defaultServicePrice    = 0
)

// CatalogService 沙龙服务项目业务接口
type CatalogService interface {
	ListServices(ctx context.Context, salonID string) ([]dto.ServiceResponse, error)
	AddService(ctx context.Context, ownerID, salonID string, req *dto.ServiceRequest) (*dto.ServiceResponse, error)
	DeleteService(ctx context.Context, ownerID, salonID, serviceID string) error
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

func (s *catalogService) ListServices(ctx context.Context, salonID string) ([]dto.ServiceResponse, error) {
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}
	services, err := s.repo.Catalog.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("列出服务项目失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		result = append(result, toServiceResponse(&services[i]))
	}
	return result, nil
}

func (s *catalogService) AddService(ctx context.Context, ownerID, salonID string, req *dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return nil, err
	}

	svc := &model.Service{
		SalonID:  salonID,
		Name:     strings.TrimSpace(req.Name),
		Duration: defaultServiceDuration,
		Price:    defaultServicePrice,
	}
	if req.Duration != nil {
		svc.Duration = *req.Duration
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}

	if err := s.repo.Catalog.Create(ctx, svc); err != nil {
		s.logger.Error("创建服务项目失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}

	resp := toServiceResponse(svc)
	return &resp, nil
}

func (s *catalogService) DeleteService(ctx context.Context, ownerID, salonID, serviceID string) error {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return err
	}

	svc, err := s.repo.Catalog.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("查询服务项目失败", zap.String("service_id", serviceID), zap.Error(err))
		return err
	}
	if svc.SalonID != salonID {
		return ErrServiceNotFound
	}

	if err := s.repo.Catalog.Delete(ctx, serviceID); err != nil {
		s.logger.Error("删除服务项目失败", zap.String("service_id", serviceID), zap.Error(err))
		return err
	}
	return nil
}
