package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stylio/backend/internal/availability"
	"stylio/backend/internal/dto"
	"stylio/backend/internal/model"
	"stylio/backend/internal/repository"
	"stylio/backend/pkg/metrics"
)

// ── 归属校验 ──

// ownedSalon 读取沙龙并校验调用者为店主
func ownedSalon(ctx context.Context, repo *repository.Repository, logger *zap.Logger, salonID, ownerID string) (*model.Salon, error) {
	salon, err := repo.Salon.GetByID(ctx, salonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalonNotFound
		}
		logger.Error("查询沙龙失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	if salon.OwnerUserID != ownerID {
		return nil, ErrSalonNotOwner
	}
	return salon, nil
}

// ensureSalon 校验沙龙存在（公开接口使用）
func ensureSalon(ctx context.Context, repo *repository.Repository, logger *zap.Logger, salonID string) error {
	if _, err := repo.Salon.GetByID(ctx, salonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSalonNotFound
		}
		logger.Error("查询沙龙失败", zap.String("salon_id", salonID), zap.Error(err))
		return err
	}
	return nil
}

// staffOfSalon 读取员工并校验其属于该沙龙；不属于时按不存在处理
func staffOfSalon(ctx context.Context, repo *repository.Repository, logger *zap.Logger, salonID, staffID string) (*model.Staff, error) {
	staff, err := repo.Staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		logger.Error("查询员工失败", zap.String("staff_id", staffID), zap.Error(err))
		return nil, err
	}
	if staff.SalonID != salonID {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

// ── 营业时间解析 ──

// 解析来源（指标标签）
const (
	sourceOverride = "override"
	sourceWeekly   = "weekly"
	sourceDefault  = "default"
)

// hoursResolver 读取某天的特殊设置与每周设置后交给 Policy 解析
// 不缓存：每次请求都读最新数据
type hoursResolver struct {
	repo   *repository.Repository
	policy availability.Policy
}

func (r hoursResolver) resolve(ctx context.Context, salonID string, date model.Date) (availability.Hours, error) {
	override, err := r.repo.SpecialDay.GetBySalonAndDate(ctx, salonID, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return availability.Hours{}, err
		}
		override = nil
	}

	source := sourceOverride
	var weekly *model.WeeklySchedule
	if override == nil {
		weekly, err = r.repo.WeeklySchedule.GetBySalonAndWeekday(ctx, salonID, availability.DateWeekday(date))
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			weekly, source = nil, sourceDefault
		case err != nil:
			return availability.Hours{}, err
		default:
			source = sourceWeekly
		}
	}

	metrics.IncHoursResolved(source)
	return r.policy.ResolveHours(weekly, override), nil
}

// staffDay 员工某天的不可用情况
type staffDay struct {
	allDay bool
	times  []string
}

func loadStaffDay(ctx context.Context, repo *repository.Repository, staffID string, date model.Date) (staffDay, error) {
	rows, err := repo.Unavailability.ListByStaffAndDate(ctx, staffID, date)
	if err != nil {
		return staffDay{}, err
	}
	var day staffDay
	for _, row := range rows {
		if row.Time == nil {
			day.allDay = true
			continue
		}
		day.times = append(day.times, *row.Time)
	}
	return day, nil
}

func (d staffDay) blocks(t string) bool {
	if d.allDay {
		return true
	}
	for _, bt := range d.times {
		if bt == t {
			return true
		}
	}
	return false
}

// ── DTO 转换 ──

func urlFor(store ImageStore, rel string) string {
	if store == nil {
		return rel
	}
	return store.URL(rel)
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.UserID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
}

func toServiceResponse(s *model.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:       s.ServiceID,
		Name:     s.Name,
		Duration: s.Duration,
		Price:    s.Price,
	}
}

func toStaffResponse(store ImageStore, st *model.Staff) dto.StaffResponse {
	serviceIDs := make([]string, 0, len(st.Skills))
	for _, sk := range st.Skills {
		serviceIDs = append(serviceIDs, sk.ServiceID)
	}
	return dto.StaffResponse{
		ID:           st.StaffID,
		Name:         st.Name,
		Profession:   st.Profession,
		DisplayImage: urlFor(store, model.DisplayImage(st)),
		ServiceIDs:   serviceIDs,
	}
}

func toPhotoResponse(store ImageStore, p *model.SalonPhoto) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:     p.PhotoID,
		URL:    urlFor(store, p.FilePath),
		IsMain: p.IsMain,
	}
}

func toReviewResponse(r *model.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:        r.ReviewID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format("2006-01-02 15:04"),
	}
}
