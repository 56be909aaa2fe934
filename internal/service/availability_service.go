package service

import (
	"context"

	"go.uber.org/zap"

	"stylio/backend/internal/availability"
	"stylio/backend/internal/dto"
	"stylio/backend/internal/repository"
	"stylio/backend/pkg/metrics"
)

// AvailabilityService 员工不可用时间业务接口
//
// 写入规则：
//   - 当天休息 → ErrDayClosed
//   - 每个时段必须是可预约时段 → 否则 ErrInvalidTimeSlot（带出错值）
//   - 每个时段必须落在 [开始, 结束) 内 → 否则 ErrOutsideWorkingHours（带出错值）
//   - 全部通过后才写库；写库在单个事务内先删后写
//   - 空时段集合表示全天不可用
type AvailabilityService interface {
	SetUnavailability(ctx context.Context, ownerID, salonID, staffID, date string, times []string) (*dto.UnavailabilityResponse, error)
	// ClearUnavailability 清除员工当天全部不可用记录，可重复调用
	ClearUnavailability(ctx context.Context, ownerID, salonID, staffID, date string) error
	GetUnavailability(ctx context.Context, ownerID, salonID, staffID, date string) (*dto.UnavailabilityResponse, error)
}

type availabilityService struct {
	repo     *repository.Repository
	policy   availability.Policy
	resolver hoursResolver
	logger   *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, policy availability.Policy, logger *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:     repo,
		policy:   policy,
		resolver: hoursResolver{repo: repo, policy: policy},
		logger:   logger,
	}
}

// ────────────────────── Set ──────────────────────

func (s *availabilityService) SetUnavailability(ctx context.Context, ownerID, salonID, staffID, date string, times []string) (*dto.UnavailabilityResponse, error) {
	d, err := availability.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return nil, err
	}
	if _, err := staffOfSalon(ctx, s.repo, s.logger, salonID, staffID); err != nil {
		return nil, err
	}

	h, err := s.resolver.resolve(ctx, salonID, d)
	if err != nil {
		s.logger.Error("解析营业时间失败",
			zap.String("salon_id", salonID), zap.String("date", date), zap.Error(err))
		return nil, err
	}

	normalized, err := s.policy.ValidateBlockedTimes(h, times)
	if err != nil {
		metrics.IncUnavailabilityWrite("rejected")
		return nil, err
	}

	if err := s.repo.Unavailability.ReplaceForDay(ctx, staffID, d, normalized); err != nil {
		metrics.IncUnavailabilityWrite("error")
		s.logger.Error("写入员工不可用时间失败",
			zap.String("staff_id", staffID), zap.String("date", date), zap.Error(err))
		return nil, err
	}
	metrics.IncUnavailabilityWrite("saved")

	s.logger.Info("员工不可用时间已更新",
		zap.String("staff_id", staffID),
		zap.String("date", date),
		zap.Bool("all_day", len(normalized) == 0),
		zap.Strings("times", normalized),
	)

	return &dto.UnavailabilityResponse{
		StaffID: staffID,
		Date:    d.String(),
		AllDay:  len(normalized) == 0,
		Times:   nonNilTimes(normalized),
	}, nil
}

// ────────────────────── Clear ──────────────────────

func (s *availabilityService) ClearUnavailability(ctx context.Context, ownerID, salonID, staffID, date string) error {
	d, err := availability.ParseDate(date)
	if err != nil {
		return err
	}
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return err
	}
	if _, err := staffOfSalon(ctx, s.repo, s.logger, salonID, staffID); err != nil {
		return err
	}

	if err := s.repo.Unavailability.DeleteForDay(ctx, staffID, d); err != nil {
		s.logger.Error("清除员工不可用时间失败",
			zap.String("staff_id", staffID), zap.String("date", date), zap.Error(err))
		return err
	}
	metrics.IncUnavailabilityWrite("cleared")
	return nil
}

// ────────────────────── Get ──────────────────────

func (s *availabilityService) GetUnavailability(ctx context.Context, ownerID, salonID, staffID, date string) (*dto.UnavailabilityResponse, error) {
	d, err := availability.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return nil, err
	}
	if _, err := staffOfSalon(ctx, s.repo, s.logger, salonID, staffID); err != nil {
		return nil, err
	}

	day, err := loadStaffDay(ctx, s.repo, staffID, d)
	if err != nil {
		s.logger.Error("查询员工不可用时间失败",
			zap.String("staff_id", staffID), zap.String("date", date), zap.Error(err))
		return nil, err
	}

	return &dto.UnavailabilityResponse{
		StaffID: staffID,
		Date:    d.String(),
		AllDay:  day.allDay,
		Times:   nonNilTimes(day.times),
	}, nil
}

func nonNilTimes(times []string) []string {
	if times == nil {
		return []string{}
	}
	return times
}
