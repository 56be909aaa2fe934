package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"stylio/backend/config"
	"stylio/backend/internal/api/handler"
	"stylio/backend/internal/api/middleware"
	"stylio/backend/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// checker、limiter 为 nil 时分别跳过黑名单检查、使用进程内限流
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	checker middleware.TokenChecker,
	limiter middleware.RateLimiter,
	uploadDir string,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 / 指标 / 静态图片 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	r.Static(cfg.Upload.PublicPrefix, uploadDir)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, logger))
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 公开浏览
		salons := v1.Group("/salons")
		{
			salons.GET("", h.Salon.ListSalons)
			salons.GET("/:id", h.Salon.GetSalon)
			salons.GET("/:id/services", h.Catalog.ListServices)
			salons.GET("/:id/staff", h.Catalog.ListStaff)
			salons.GET("/:id/photos", h.Photo.ListPhotos)
			salons.GET("/:id/reviews", h.Review.ListReviews)

			salons.GET("/:id/hours", h.Hours.GetResolvedHours)
			salons.GET("/:id/hours/summary", h.Hours.GetHoursSummary)
			salons.GET("/:id/hours/weekly", h.Hours.ListWeeklyHours)
			salons.GET("/:id/hours/special", h.Hours.ListSpecialDays)
			salons.GET("/:id/calendar.ics", h.Export.ExportSpecialDaysICS)

			salons.GET("/:id/booking/options", h.Booking.GetBookingOptions)
			salons.GET("/:id/booking/slots", h.Booking.CheckSlot)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			authorized.POST("/salons/:id/reviews", h.Review.AddReview)
			authorized.POST("/salons/:id/bookings", h.Booking.SubmitBooking)

			// 店主管理（Service 层再校验沙龙归属）
			owner := authorized.Group("/owner/salons")
			owner.Use(middleware.RoleAuth("owner"))
			{
				owner.GET("", h.Salon.ListMySalons)
				owner.POST("", h.Salon.CreateSalon)
				owner.PUT("/:id", h.Salon.UpdateSalon)
				owner.DELETE("/:id", h.Salon.DeleteSalon)

				owner.POST("/:id/services", h.Catalog.AddService)
				owner.DELETE("/:id/services/:service_id", h.Catalog.DeleteService)

				owner.POST("/:id/staff", h.Catalog.AddStaff)
				owner.DELETE("/:id/staff/:staff_id", h.Catalog.DeleteStaff)
				owner.PUT("/:id/staff/:staff_id/skills", h.Catalog.SetStaffSkills)
				owner.POST("/:id/staff/:staff_id/photo", h.Catalog.UploadStaffPhoto)
				owner.DELETE("/:id/staff/:staff_id/photo", h.Catalog.DeleteStaffPhoto)

				owner.GET("/:id/staff/:staff_id/unavailability/:date", h.Availability.GetUnavailability)
				owner.PUT("/:id/staff/:staff_id/unavailability/:date", h.Availability.SetUnavailability)
				owner.DELETE("/:id/staff/:staff_id/unavailability/:date", h.Availability.ClearUnavailability)

				owner.POST("/:id/photos", h.Photo.UploadPhoto)
				owner.PUT("/:id/photos/:photo_id/main", h.Photo.SetMainPhoto)
				owner.DELETE("/:id/photos/:photo_id", h.Photo.DeletePhoto)

				owner.PUT("/:id/hours/weekly/:weekday", h.Hours.SetWeeklyHours)
				owner.DELETE("/:id/hours/weekly/:weekday", h.Hours.DeleteWeeklyHours)
				owner.PUT("/:id/hours/special/:date", h.Hours.SetSpecialDay)
				owner.DELETE("/:id/hours/special/:date", h.Hours.DeleteSpecialDay)

				owner.GET("/:id/export/schedule.xlsx", h.Export.ExportSchedule)
			}
		}
	}

	return r
}
