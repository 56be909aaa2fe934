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
)

// ── 营业时间模块业务错误 ──

var (
	ErrWeeklyEntryNotFound = errors.New("该星期未设置营业时间")
	ErrSpecialDayNotFound  = errors.New("该日期未设置特殊营业时间")
)

// HoursService 营业时间业务接口
type HoursService interface {
	// SetWeeklyHours 按 (salon, weekday) 插入或覆盖
	SetWeeklyHours(ctx context.Context, ownerID, salonID string, weekday int, req *dto.HoursRequest) (*dto.WeeklyHoursResponse, error)
	// DeleteWeeklyHours 删除后该星期恢复默认营业时间
	DeleteWeeklyHours(ctx context.Context, ownerID, salonID string, weekday int) error
	// ListWeeklyHours 返回 7 天，未设置的星期按默认值补全
	ListWeeklyHours(ctx context.Context, salonID string) ([]dto.WeeklyHoursResponse, error)

	SetSpecialDay(ctx context.Context, ownerID, salonID, date string, req *dto.HoursRequest) (*dto.SpecialDayResponse, error)
	DeleteSpecialDay(ctx context.Context, ownerID, salonID, date string) error
	// ListSpecialDays from 为空时返回全部
	ListSpecialDays(ctx context.Context, salonID, from string) ([]dto.SpecialDayResponse, error)

	GetResolvedHours(ctx context.Context, salonID, date string) (*dto.ResolvedHoursResponse, error)
	GetHoursSummary(ctx context.Context, salonID string) (*dto.HoursSummaryResponse, error)
}

type hoursService struct {
	repo     *repository.Repository
	policy   availability.Policy
	clock    availability.Clock
	resolver hoursResolver
	logger   *zap.Logger
}

// NewHoursService 创建 HoursService 实例
func NewHoursService(repo *repository.Repository, policy availability.Policy, clock availability.Clock, logger *zap.Logger) HoursService {
	return &hoursService{
		repo:     repo,
		policy:   policy,
		clock:    clock,
		resolver: hoursResolver{repo: repo, policy: policy},
		logger:   logger,
	}
}

// windowFromRequest 写入侧校验，休息日不保存时间
func windowFromRequest(req *dto.HoursRequest) (start, end *string, err error) {
	if req.Closed {
		return nil, nil, nil
	}
	if err := availability.ValidateWindow(false, req.StartTime, req.EndTime); err != nil {
		return nil, nil, err
	}
	return req.StartTime, req.EndTime, nil
}

// ────────────────────── Weekly ──────────────────────

func (s *hoursService) SetWeeklyHours(ctx context.Context, ownerID, salonID string, weekday int, req *dto.HoursRequest) (*dto.WeeklyHoursResponse, error) {
	if err := availability.ValidateWeekday(weekday); err != nil {
		return nil, err
	}
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return nil, err
	}
	start, end, err := windowFromRequest(req)
	if err != nil {
		return nil, err
	}

	entry := &model.WeeklySchedule{
		SalonID:   salonID,
		Weekday:   weekday,
		Closed:    req.Closed,
		StartTime: start,
		EndTime:   end,
	}
	if err := s.repo.WeeklySchedule.Upsert(ctx, entry); err != nil {
		s.logger.Error("保存每周营业时间失败",
			zap.String("salon_id", salonID), zap.Int("weekday", weekday), zap.Error(err))
		return nil, err
	}

	return &dto.WeeklyHoursResponse{
		Weekday:    weekday,
		Day:        availability.DayName(weekday),
		Configured: true,
		Hours:      s.policy.ResolveHours(entry, nil),
	}, nil
}

func (s *hoursService) DeleteWeeklyHours(ctx context.Context, ownerID, salonID string, weekday int) error {
	if err := availability.ValidateWeekday(weekday); err != nil {
		return err
	}
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return err
	}
	if err := s.repo.WeeklySchedule.Delete(ctx, salonID, weekday); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWeeklyEntryNotFound
		}
		s.logger.Error("删除每周营业时间失败",
			zap.String("salon_id", salonID), zap.Int("weekday", weekday), zap.Error(err))
		return err
	}
	return nil
}

func (s *hoursService) ListWeeklyHours(ctx context.Context, salonID string) ([]dto.WeeklyHoursResponse, error) {
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}
	entries, err := s.repo.WeeklySchedule.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("查询每周营业时间失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}

	configured := make(map[int]bool, len(entries))
	for _, e := range entries {
		configured[e.Weekday] = true
	}
	week := s.policy.NormalizeWeek(entries)

	result := make([]dto.WeeklyHoursResponse, 0, 7)
	for d := 0; d < 7; d++ {
		result = append(result, dto.WeeklyHoursResponse{
			Weekday:    d,
			Day:        availability.DayName(d),
			Configured: configured[d],
			Hours:      week[d],
		})
	}
	return result, nil
}

// ────────────────────── Special days ──────────────────────

func (s *hoursService) SetSpecialDay(ctx context.Context, ownerID, salonID, date string, req *dto.HoursRequest) (*dto.SpecialDayResponse, error) {
	d, err := availability.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return nil, err
	}
	start, end, err := windowFromRequest(req)
	if err != nil {
		return nil, err
	}

	day := &model.SpecialDay{
		SalonID:   salonID,
		Date:      d,
		Closed:    req.Closed,
		StartTime: start,
		EndTime:   end,
	}
	if err := s.repo.SpecialDay.Upsert(ctx, day); err != nil {
		s.logger.Error("保存特殊营业时间失败",
			zap.String("salon_id", salonID), zap.String("date", date), zap.Error(err))
		return nil, err
	}

	resp := s.toSpecialDayResponse(day)
	return &resp, nil
}

func (s *hoursService) DeleteSpecialDay(ctx context.Context, ownerID, salonID, date string) error {
	d, err := availability.ParseDate(date)
	if err != nil {
		return err
	}
	if _, err := ownedSalon(ctx, s.repo, s.logger, salonID, ownerID); err != nil {
		return err
	}
	if err := s.repo.SpecialDay.Delete(ctx, salonID, d); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSpecialDayNotFound
		}
		s.logger.Error("删除特殊营业时间失败",
			zap.String("salon_id", salonID), zap.String("date", date), zap.Error(err))
		return err
	}
	return nil
}

func (s *hoursService) ListSpecialDays(ctx context.Context, salonID, from string) ([]dto.SpecialDayResponse, error) {
	var fromDate *model.Date
	if from != "" {
		d, err := availability.ParseDate(from)
		if err != nil {
			return nil, err
		}
		fromDate = &d
	}
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}

	days, err := s.repo.SpecialDay.ListBySalon(ctx, salonID, fromDate)
	if err != nil {
		s.logger.Error("查询特殊营业时间失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SpecialDayResponse, 0, len(days))
	for i := range days {
		result = append(result, s.toSpecialDayResponse(&days[i]))
	}
	return result, nil
}

func (s *hoursService) toSpecialDayResponse(day *model.SpecialDay) dto.SpecialDayResponse {
	h := s.policy.ResolveHours(nil, day)
	return dto.SpecialDayResponse{
		Date:  day.Date.String(),
		Hours: h,
		Label: day.Date.String() + " " + availability.FormatHours(h),
	}
}

// ────────────────────── Resolved / Summary ──────────────────────

func (s *hoursService) GetResolvedHours(ctx context.Context, salonID, date string) (*dto.ResolvedHoursResponse, error) {
	d, err := availability.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}

	h, err := s.resolver.resolve(ctx, salonID, d)
	if err != nil {
		s.logger.Error("解析营业时间失败",
			zap.String("salon_id", salonID), zap.String("date", date), zap.Error(err))
		return nil, err
	}

	weekday := availability.DateWeekday(d)
	return &dto.ResolvedHoursResponse{
		Date:    d.String(),
		Weekday: weekday,
		Day:     availability.DayName(weekday),
		Hours:   h,
		Label:   availability.FormatHours(h),
	}, nil
}

func (s *hoursService) GetHoursSummary(ctx context.Context, salonID string) (*dto.HoursSummaryResponse, error) {
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}
	entries, err := s.repo.WeeklySchedule.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("查询每周营业时间失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	today := s.clock.Today()
	days, err := s.repo.SpecialDay.ListBySalon(ctx, salonID, &today)
	if err != nil {
		s.logger.Error("查询特殊营业时间失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}

	return &dto.HoursSummaryResponse{
		WeeklyHours:         availability.CompressWeek(s.policy.NormalizeWeek(entries)),
		UpcomingSpecialDays: s.policy.UpcomingSpecialDays(days, today),
	}, nil
}
