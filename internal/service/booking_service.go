package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"stylio/backend/internal/availability"
	"stylio/backend/internal/dto"
	"stylio/backend/internal/repository"
	"stylio/backend/pkg/metrics"
)

// ── 预约模块业务错误 ──

var (
	ErrStaffUnavailable = errors.New("该员工此时段不可预约")
	ErrStaffNoSkill     = errors.New("该员工不提供此服务")
)

// 预约受理提示
const bookingReceivedMessage = "Booking received"

// BookingService 预约业务接口
//
// 预约只做校验与记录，不落库、不处理并发冲突。
type BookingService interface {
	GetBookingOptions(ctx context.Context, salonID string) (*dto.BookingOptionsResponse, error)
	// CheckSlot 指定 time 时判断该时段能否预约；否则列出当天全部可预约时段
	CheckSlot(ctx context.Context, salonID string, q *dto.SlotQuery) (*dto.SlotCheckResponse, error)
	SubmitBooking(ctx context.Context, salonID, userID string, req *dto.BookingRequest) (*dto.BookingResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	store    ImageStore
	policy   availability.Policy
	resolver hoursResolver
	logger   *zap.Logger
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(repo *repository.Repository, store ImageStore, policy availability.Policy, logger *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		store:    store,
		policy:   policy,
		resolver: hoursResolver{repo: repo, policy: policy},
		logger:   logger,
	}
}

// ────────────────────── Options ──────────────────────

func (s *bookingService) GetBookingOptions(ctx context.Context, salonID string) (*dto.BookingOptionsResponse, error) {
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}
	services, err := s.repo.Catalog.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("列出服务项目失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	staff, err := s.repo.Staff.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("列出员工失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}

	resp := &dto.BookingOptionsResponse{
		Services:      make([]dto.ServiceResponse, 0, len(services)),
		Staff:         make([]dto.StaffResponse, 0, len(staff)),
		StaffServices: make(map[string][]string, len(staff)),
	}
	for i := range services {
		resp.Services = append(resp.Services, toServiceResponse(&services[i]))
	}
	for i := range staff {
		st := toStaffResponse(s.store, &staff[i])
		resp.Staff = append(resp.Staff, st)
		resp.StaffServices[st.ID] = st.ServiceIDs
	}
	return resp, nil
}

// ────────────────────── CheckSlot ──────────────────────

func (s *bookingService) CheckSlot(ctx context.Context, salonID string, q *dto.SlotQuery) (*dto.SlotCheckResponse, error) {
	d, err := availability.ParseDate(q.Date)
	if err != nil {
		return nil, err
	}
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}

	h, err := s.resolver.resolve(ctx, salonID, d)
	if err != nil {
		s.logger.Error("解析营业时间失败",
			zap.String("salon_id", salonID), zap.String("date", q.Date), zap.Error(err))
		return nil, err
	}

	var day staffDay
	if q.StaffID != "" {
		if _, err := staffOfSalon(ctx, s.repo, s.logger, salonID, q.StaffID); err != nil {
			return nil, err
		}
		if day, err = loadStaffDay(ctx, s.repo, q.StaffID, d); err != nil {
			s.logger.Error("查询员工不可用时间失败", zap.String("staff_id", q.StaffID), zap.Error(err))
			return nil, err
		}
	}

	resp := &dto.SlotCheckResponse{Date: d.String(), Hours: h, Time: q.Time}

	if q.Time == "" {
		resp.Slots = s.policy.BookableSlots(h, day.allDay, day.times)
		resp.Bookable = len(resp.Slots) > 0
		if !resp.Bookable {
			switch {
			case h.Closed:
				resp.Reason = dto.ReasonClosed
			case day.allDay:
				resp.Reason = dto.ReasonStaffUnavailable
			case len(s.policy.BookableSlots(h, false, nil)) == 0:
				// 营业窗口内没有任何时段标签
				resp.Reason = dto.ReasonOutsideHours
			default:
				resp.Reason = dto.ReasonStaffUnavailable
			}
		}
		return resp, nil
	}

	resp.Reason = s.slotReason(h, day, q.Time)
	resp.Bookable = resp.Reason == ""
	return resp, nil
}

// slotReason 返回不可预约的原因，可预约时返回空串
// 判断顺序与员工不可用时间的写入校验一致
func (s *bookingService) slotReason(h availability.Hours, day staffDay, t string) string {
	switch {
	case h.Closed:
		return dto.ReasonClosed
	case !s.policy.IsSlot(t):
		return dto.ReasonInvalidSlot
	case !h.Contains(t):
		return dto.ReasonOutsideHours
	case day.blocks(t):
		return dto.ReasonStaffUnavailable
	}
	return ""
}

// ────────────────────── Submit ──────────────────────

func (s *bookingService) SubmitBooking(ctx context.Context, salonID, userID string, req *dto.BookingRequest) (*dto.BookingResponse, error) {
	d, err := availability.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}

	svc, err := s.repo.Catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("查询服务项目失败", zap.String("service_id", req.ServiceID), zap.Error(err))
		return nil, err
	}
	if svc.SalonID != salonID {
		return nil, ErrServiceNotFound
	}

	var day staffDay
	if req.StaffID != "" {
		staff, err := staffOfSalon(ctx, s.repo, s.logger, salonID, req.StaffID)
		if err != nil {
			return nil, err
		}
		hasSkill := false
		for _, sk := range staff.Skills {
			if sk.ServiceID == svc.ServiceID {
				hasSkill = true
				break
			}
		}
		if !hasSkill {
			return nil, ErrStaffNoSkill
		}
		if day, err = loadStaffDay(ctx, s.repo, req.StaffID, d); err != nil {
			s.logger.Error("查询员工不可用时间失败", zap.String("staff_id", req.StaffID), zap.Error(err))
			return nil, err
		}
	}

	h, err := s.resolver.resolve(ctx, salonID, d)
	if err != nil {
		s.logger.Error("解析营业时间失败",
			zap.String("salon_id", salonID), zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}

	switch s.slotReason(h, day, req.Time) {
	case dto.ReasonClosed:
		metrics.IncBookingRequest("rejected")
		return nil, availability.ErrDayClosed
	case dto.ReasonInvalidSlot:
		metrics.IncBookingRequest("rejected")
		return nil, &availability.SlotError{Err: availability.ErrInvalidTimeSlot, Time: req.Time}
	case dto.ReasonOutsideHours:
		metrics.IncBookingRequest("rejected")
		return nil, &availability.SlotError{Err: availability.ErrOutsideWorkingHours, Time: req.Time}
	case dto.ReasonStaffUnavailable:
		metrics.IncBookingRequest("rejected")
		return nil, ErrStaffUnavailable
	}

	metrics.IncBookingRequest("accepted")
	s.logger.Info("收到预约请求",
		zap.String("salon_id", salonID),
		zap.String("service_id", req.ServiceID),
		zap.String("staff_id", req.StaffID),
		zap.String("date", d.String()),
		zap.String("time", req.Time),
		zap.String("user_id", userID),
		zap.String("customer_name", req.CustomerName),
	)

	return &dto.BookingResponse{OK: true, Message: bookingReceivedMessage}, nil
}
