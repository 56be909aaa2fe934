package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stylio/backend/internal/availability"
	"stylio/backend/internal/dto"
	"stylio/backend/internal/model"
	"stylio/backend/internal/repository"
)

// ── 沙龙模块业务错误 ──

var (
	ErrSalonNotFound  = errors.New("沙龙不存在")
	ErrSalonNotOwner  = errors.New("无权管理该沙龙")
	ErrInvalidMapLink = errors.New("地图链接必须是 Google Maps 链接")
)

// 允许的地图链接前缀
var mapLinkPrefixes = []string{
	"https://maps.app.goo.gl/",
	"https://www.google.com/maps",
	"https://goo.gl/maps",
}

// SalonService 沙龙业务接口
type SalonService interface {
	// ListSalons 首页列表
	ListSalons(ctx context.Context) ([]dto.SalonSummary, error)
	// GetSalon 详情：服务、员工、照片、营业时间展示、评价汇总
	GetSalon(ctx context.Context, salonID string) (*dto.SalonDetail, error)
	ListMySalons(ctx context.Context, ownerID string) ([]dto.SalonSummary, error)
	CreateSalon(ctx context.Context, ownerID string, req *dto.SalonRequest) (*dto.SalonDetail, error)
	UpdateSalon(ctx context.Context, ownerID, salonID string, req *dto.SalonRequest) (*dto.SalonDetail, error)
	// DeleteSalon 级联删除沙龙及其子记录，并清理已上传的图片文件
	DeleteSalon(ctx context.Context, ownerID, salonID string) error
}

type salonService struct {
	repo   *repository.Repository
	store  ImageStore
	policy availability.Policy
	clock  availability.Clock
	logger *zap.Logger
}

// NewSalonService 创建 SalonService 实例
func NewSalonService(
	repo *repository.Repository,
	store ImageStore,
	policy availability.Policy,
	clock availability.Clock,
	logger *zap.Logger,
) SalonService {
	return &salonService{repo: repo, store: store, policy: policy, clock: clock, logger: logger}
}

// normalizeMapLink 空串视为未填写；非空时必须是允许的前缀
func normalizeMapLink(link *string) (*string, error) {
	if link == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*link)
	if v == "" {
		return nil, nil
	}
	for _, prefix := range mapLinkPrefixes {
		if strings.HasPrefix(v, prefix) {
			return &v, nil
		}
	}
	return nil, ErrInvalidMapLink
}

// ────────────────────── List ──────────────────────

func (s *salonService) ListSalons(ctx context.Context) ([]dto.SalonSummary, error) {
	salons, err := s.repo.Salon.List(ctx)
	if err != nil {
		s.logger.Error("列出沙龙失败", zap.Error(err))
		return nil, err
	}
	return s.toSummaries(salons), nil
}

func (s *salonService) ListMySalons(ctx context.Context, ownerID string) ([]dto.SalonSummary, error) {
	salons, err := s.repo.Salon.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("列出店主沙龙失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return s.toSummaries(salons), nil
}

func (s *salonService) toSummaries(salons []model.Salon) []dto.SalonSummary {
	result := make([]dto.SalonSummary, 0, len(salons))
	for i := range salons {
		count, avg := model.ReviewAggregate(salons[i].Reviews)
		item := dto.SalonSummary{
			ID:            salons[i].SalonID,
			Name:          salons[i].Name,
			Location:      salons[i].Location,
			ReviewCount:   count,
			AverageReview: avg,
		}
		if main := model.MainPhoto(salons[i].Photos); main != nil {
			item.MainPhotoURL = urlFor(s.store, main.FilePath)
		}
		result = append(result, item)
	}
	return result
}

// ────────────────────── GetSalon ──────────────────────

func (s *salonService) GetSalon(ctx context.Context, salonID string) (*dto.SalonDetail, error) {
	salon, err := s.repo.Salon.GetDetail(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalonNotFound
		}
		s.logger.Error("查询沙龙详情失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	return s.toDetail(ctx, salon)
}

func (s *salonService) toDetail(ctx context.Context, salon *model.Salon) (*dto.SalonDetail, error) {
	entries, err := s.repo.WeeklySchedule.ListBySalon(ctx, salon.SalonID)
	if err != nil {
		s.logger.Error("查询每周营业时间失败", zap.String("salon_id", salon.SalonID), zap.Error(err))
		return nil, err
	}
	today := s.clock.Today()
	days, err := s.repo.SpecialDay.ListBySalon(ctx, salon.SalonID, &today)
	if err != nil {
		s.logger.Error("查询特殊日期失败", zap.String("salon_id", salon.SalonID), zap.Error(err))
		return nil, err
	}

	count, avg := model.ReviewAggregate(salon.Reviews)
	detail := &dto.SalonDetail{
		ID:                  salon.SalonID,
		OwnerID:             salon.OwnerUserID,
		Name:                salon.Name,
		Description:         salon.Description,
		Location:            salon.Location,
		MapLink:             salon.MapLink,
		Photos:              make([]dto.PhotoResponse, 0, len(salon.Photos)),
		Services:            make([]dto.ServiceResponse, 0, len(salon.Services)),
		Staff:               make([]dto.StaffResponse, 0, len(salon.Staff)),
		WeeklyHours:         availability.CompressWeek(s.policy.NormalizeWeek(entries)),
		UpcomingSpecialDays: s.policy.UpcomingSpecialDays(days, today),
		ReviewCount:         count,
		AverageReview:       avg,
		Reviews:             make([]dto.ReviewResponse, 0, len(salon.Reviews)),
	}
	if main := model.MainPhoto(salon.Photos); main != nil {
		detail.MainPhotoURL = urlFor(s.store, main.FilePath)
	}
	for i := range salon.Photos {
		detail.Photos = append(detail.Photos, toPhotoResponse(s.store, &salon.Photos[i]))
	}
	for i := range salon.Services {
		detail.Services = append(detail.Services, toServiceResponse(&salon.Services[i]))
	}
	for i := range salon.Staff {
		detail.Staff = append(detail.Staff, toStaffResponse(s.store, &salon.Staff[i]))
	}
	for i := range salon.Reviews {
		detail.Reviews = append(detail.Reviews, toReviewResponse(&salon.Reviews[i]))
	}
	return detail, nil
}

// ────────────────────── Create ──────────────────────

func (s *salonService) CreateSalon(ctx context.Context, ownerID string, req *dto.SalonRequest) (*dto.SalonDetail, error) {
	mapLink, err := normalizeMapLink(req.MapLink)
	if err != nil {
		return nil, err
	}

	salon := &model.Salon{
		OwnerUserID: ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		MapLink:     mapLink,
	}
	if err := s.repo.Salon.Create(ctx, salon); err != nil {
		s.logger.Error("创建沙龙失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("沙龙已创建", zap.String("salon_id", salon.SalonID), zap.String("owner_id", ownerID))
	return s.toDetail(ctx, salon)
}

// ────────────────────── Update ──────────────────────

func (s *salonService) UpdateSalon(ctx context.Context, ownerID, salonID string, req *dto.SalonRequest) (*dto.SalonDetail, error) {
	salon, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID)
	if err != nil {
		return nil, err
	}
	mapLink, err := normalizeMapLink(req.MapLink)
	if err != nil {
		return nil, err
	}

	salon.Name = strings.TrimSpace(req.Name)
	salon.Description = strings.TrimSpace(req.Description)
	salon.Location = strings.TrimSpace(req.Location)
	salon.MapLink = mapLink

	if err := s.repo.Salon.Update(ctx, salon); err != nil {
		s.logger.Error("更新沙龙失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}

	return s.GetSalon(ctx, salonID)
}

// ────────────────────── Delete ──────────────────────

func (s *salonService) DeleteSalon(ctx context.Context, ownerID, salonID string) error {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return err
	}

	// 先收集文件路径，数据库删除成功后再清理文件
	salon, err := s.repo.Salon.GetDetail(ctx, salonID)
	if err != nil {
		s.logger.Error("查询沙龙详情失败", zap.String("salon_id", salonID), zap.Error(err))
		return err
	}
	var files []string
	for _, p := range salon.Photos {
		files = append(files, p.FilePath)
	}
	for _, st := range salon.Staff {
		if st.PhotoPath != nil {
			files = append(files, *st.PhotoPath)
		}
	}

	if err := s.repo.Salon.Delete(ctx, salonID); err != nil {
		s.logger.Error("删除沙龙失败", zap.String("salon_id", salonID), zap.Error(err))
		return err
	}

	if s.store != nil {
		for _, f := range files {
			if err := s.store.Delete(f); err != nil {
				s.logger.Warn("删除图片文件失败", zap.String("path", f), zap.Error(err))
			}
		}
	}

	s.logger.Info("沙龙已删除", zap.String("salon_id", salonID), zap.Int("files", len(files)))
	return nil
}
