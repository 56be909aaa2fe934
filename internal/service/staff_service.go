package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"stylio/backend/config"
	"stylio/backend/internal/dto"
	"stylio/backend/internal/model"
	"stylio/backend/internal/repository"
	"stylio/backend/pkg/metrics"
)

// ── 员工模块业务错误 ──

var (
	ErrStaffNotFound     = errors.New("员工不存在")
	ErrSkillNotInSalon   = errors.New("服务项目不属于该沙龙")
	ErrUnsupportedImage  = errors.New("仅支持 jpg、jpeg、png、webp 图片")
	ErrStaffPhotoMissing = errors.New("员工没有上传照片")
)

// StaffService 员工业务接口
type StaffService interface {
	ListStaff(ctx context.Context, salonID string) ([]dto.StaffResponse, error)
	AddStaff(ctx context.Context, ownerID, salonID string, req *dto.StaffRequest) (*dto.StaffResponse, error)
	// DeleteStaff 删除员工，连同技能、不可用时间和已上传的照片
	DeleteStaff(ctx context.Context, ownerID, salonID, staffID string) error
	// SetStaffSkills 全量替换员工可提供的服务
	SetStaffSkills(ctx context.Context, ownerID, salonID, staffID string, req *dto.StaffSkillsRequest) (*dto.StaffResponse, error)
	UploadStaffPhoto(ctx context.Context, ownerID, salonID, staffID, filename string, r io.Reader) (*dto.StaffResponse, error)
	DeleteStaffPhoto(ctx context.Context, ownerID, salonID, staffID string) (*dto.StaffResponse, error)
}

type staffService struct {
	upload *config.UploadConfig
	repo   *repository.Repository
	store  ImageStore
	logger *zap.Logger
}

// NewStaffService 创建 StaffService 实例
func NewStaffService(upload *config.UploadConfig, repo *repository.Repository, store ImageStore, logger *zap.Logger) StaffService {
	return &staffService{upload: upload, repo: repo, store: store, logger: logger}
}

func (s *staffService) ListStaff(ctx context.Context, salonID string) ([]dto.StaffResponse, error) {
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}
	staff, err := s.repo.Staff.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("列出员工失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		result = append(result, toStaffResponse(s.store, &staff[i]))
	}
	return result, nil
}

// ────────────────────── Add / Delete ──────────────────────

func (s *staffService) AddStaff(ctx context.Context, ownerID, salonID string, req *dto.StaffRequest) (*dto.StaffResponse, error) {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return nil, err
	}

	staff := &model.Staff{
		SalonID:    salonID,
		Name:       strings.TrimSpace(req.Name),
		Profession: strings.TrimSpace(req.Profession),
	}
	if req.Image != nil && strings.TrimSpace(*req.Image) != "" {
		img := strings.TrimSpace(*req.Image)
		staff.Image = &img
	}

	if err := s.repo.Staff.Create(ctx, staff); err != nil {
		s.logger.Error("创建员工失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}

	resp := toStaffResponse(s.store, staff)
	return &resp, nil
}

func (s *staffService) DeleteStaff(ctx context.Context, ownerID, salonID, staffID string) error {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return err
	}
	staff, err := staffOfSalon(ctx, s.repo, s.logger, salonID, staffID)
	if err != nil {
		return err
	}

	if err := s.repo.Staff.Delete(ctx, staffID); err != nil {
		s.logger.Error("删除员工失败", zap.String("staff_id", staffID), zap.Error(err))
		return err
	}

	if staff.PhotoPath != nil {
		s.removeFile(*staff.PhotoPath)
	}
	return nil
}

// ────────────────────── Skills ──────────────────────

func (s *staffService) SetStaffSkills(ctx context.Context, ownerID, salonID, staffID string, req *dto.StaffSkillsRequest) (*dto.StaffResponse, error) {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return nil, err
	}
	if _, err := staffOfSalon(ctx, s.repo, s.logger, salonID, staffID); err != nil {
		return nil, err
	}

	services, err := s.repo.Catalog.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("列出服务项目失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	valid := make(map[string]bool, len(services))
	for _, svc := range services {
		valid[svc.ServiceID] = true
	}

	// 去重并保持请求顺序
	seen := make(map[string]bool, len(req.ServiceIDs))
	ids := make([]string, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if !valid[id] {
			return nil, ErrSkillNotInSalon
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if err := s.repo.Staff.ReplaceSkills(ctx, staffID, ids); err != nil {
		s.logger.Error("替换员工技能失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, staffID)
}

// ────────────────────── Photo ──────────────────────

func (s *staffService) UploadStaffPhoto(ctx context.Context, ownerID, salonID, staffID, filename string, r io.Reader) (*dto.StaffResponse, error) {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return nil, err
	}
	staff, err := staffOfSalon(ctx, s.repo, s.logger, salonID, staffID)
	if err != nil {
		return nil, err
	}
	if !s.store.Allowed(filename) {
		return nil, ErrUnsupportedImage
	}

	var oldPath string
	if staff.PhotoPath != nil {
		oldPath = *staff.PhotoPath
	}

	rel, format, err := s.store.SaveImage(s.upload.StaffSubdir, filename, r, s.upload.StaffMaxSide)
	if err != nil {
		s.logger.Warn("保存员工照片失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}
	metrics.IncPhotoUpload(format)

	if err := s.repo.Staff.UpdatePhoto(ctx, staffID, &rel); err != nil {
		s.logger.Error("更新员工照片失败", zap.String("staff_id", staffID), zap.Error(err))
		s.removeFile(rel)
		return nil, err
	}
	if oldPath != "" {
		s.removeFile(oldPath)
	}

	return s.reload(ctx, staffID)
}

func (s *staffService) DeleteStaffPhoto(ctx context.Context, ownerID, salonID, staffID string) (*dto.StaffResponse, error) {
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return nil, err
	}
	staff, err := staffOfSalon(ctx, s.repo, s.logger, salonID, staffID)
	if err != nil {
		return nil, err
	}
	if staff.PhotoPath == nil {
		return nil, ErrStaffPhotoMissing
	}
	oldPath := *staff.PhotoPath

	if err := s.repo.Staff.UpdatePhoto(ctx, staffID, nil); err != nil {
		s.logger.Error("清除员工照片失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}
	s.removeFile(oldPath)

	return s.reload(ctx, staffID)
}

// ── 辅助 ──

func (s *staffService) reload(ctx context.Context, staffID string) (*dto.StaffResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, staffID)
	if err != nil {
		s.logger.Error("重新加载员工失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}
	resp := toStaffResponse(s.store, staff)
	return &resp, nil
}

func (s *staffService) removeFile(rel string) {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(rel); err != nil {
		s.logger.Warn("删除图片文件失败", zap.String("path", rel), zap.Error(err))
	}
}
