package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stylio/backend/config"
	"stylio/backend/internal/api/handler"
	"stylio/backend/internal/api/middleware"
	"stylio/backend/internal/api/router"
	"stylio/backend/internal/availability"
	"stylio/backend/internal/model"
	"stylio/backend/internal/repository"
	"stylio/backend/internal/service"
	"stylio/backend/pkg/database"
	"stylio/backend/pkg/jwt"
	applogger "stylio/backend/pkg/logger"
	"stylio/backend/pkg/metrics"
	"stylio/backend/pkg/redis"
	"stylio/backend/pkg/storage"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("STYLIO_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库并迁移
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	if err := database.Migrate(db, cfg.Database.Driver, logger, model.All()...); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	// 接口变量只在连接成功时赋值，避免出现带类型的 nil
	var (
		rdb       *redis.Client
		blacklist service.TokenBlacklist
		checker   middleware.TokenChecker
		limiter   middleware.RateLimiter
	)
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单不可用，限流改为进程内", zap.Error(err))
		rdb = nil
	} else {
		blacklist, checker, limiter = rdb, rdb, rdb
	}

	// 5. JWT / 图片存储 / 指标
	jwtMgr := jwt.NewManager(&cfg.Auth)

	store, err := storage.NewLocal(&cfg.Upload, logger)
	if err != nil {
		logger.Fatal("初始化图片存储失败", zap.Error(err))
	}

	if cfg.Metrics.Enabled {
		metrics.Register()
	}

	// 6. 营业时间规则与时钟
	policy, err := availability.NewPolicy(
		cfg.Booking.DefaultOpen,
		cfg.Booking.DefaultClose,
		cfg.Booking.SlotFirst,
		cfg.Booking.SlotLast,
		cfg.Booking.SlotStepMinutes,
		cfg.Booking.UpcomingSpecialDays,
	)
	if err != nil {
		logger.Fatal("营业时间配置无效", zap.Error(err))
	}
	clock := availability.SystemClock{Location: cfg.Booking.Location()}

	if err := middleware.RegisterValidators(); err != nil {
		logger.Fatal("注册校验规则失败", zap.Error(err))
	}

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, store, policy, clock, logger)
	h := handler.NewHandler(svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, checker, limiter, store.BaseDir(), logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
