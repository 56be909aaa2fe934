package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stylio/backend/pkg/metrics"
	"stylio/backend/pkg/response"
)

// RateLimiter 固定窗口计数限流（Redis 实现）
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error)
}

// RateLimit 速率限制中间件
// limit: 窗口内允许的最大请求数；window: 窗口时长
// rl 为 nil 或 Redis 出错时使用进程内令牌桶兜底
func RateLimit(rl RateLimiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	local := newLocalLimiter(limit, window)

	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		allowed := false
		handled := false

		if rl != nil {
			key := fmt.Sprintf("%s:%s", ip, c.FullPath())
			ok, count, err := rl.CheckRateLimit(c.Request.Context(), key, limit, window)
			if err != nil {
				logger.Warn("Redis 限流失败，使用本地限流", zap.Error(err))
			} else {
				allowed, handled = ok, true
				remaining := int64(limit) - count
				if remaining < 0 {
					remaining = 0
				}
				c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			}
		}
		if !handled {
			allowed = local.get(ip).Allow()
		}

		if !allowed {
			metrics.IncRateLimited()
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ── 进程内兜底 ──

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

type localLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	r       rate.Limit
	burst   int
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	l := &localLimiter{clients: make(map[string]*limiterEntry), burst: limit}
	if limit > 0 && window > 0 {
		l.r = rate.Every(window / time.Duration(limit))
	}
	return l
}

func (l *localLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if e, ok := l.clients[ip]; ok {
		e.seen = now
		return e.lim
	}
	// 顺带清理三分钟未出现的客户端
	for k, e := range l.clients {
		if now.Sub(e.seen) > 3*time.Minute {
			delete(l.clients, k)
		}
	}
	lim := rate.NewLimiter(l.r, l.burst)
	l.clients[ip] = &limiterEntry{lim: lim, seen: now}
	return lim
}
