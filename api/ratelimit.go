package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter begrenzt Login-Versuche pro Client-IP (Token Bucket).
type loginLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
	logger  *zap.Logger
	now     func() time.Time
}

func newLoginLimiter(perSecond float64, burst int, logger *zap.Logger) *loginLimiter {
	return &loginLimiter{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(perSecond),
		burst:   burst,
		logger:  logger,
		now:     time.Now,
	}
}

func (l *loginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[ip]
	if !ok {
		l.evictIdle(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// evictIdle entfernt Clients, die länger als limiterIdleTTL still waren.
// Aufrufer hält l.mu.
func (l *loginLimiter) evictIdle(now time.Time) {
	for ip, cl := range l.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(l.clients, ip)
		}
	}
}

func (l *loginLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.rate <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if !l.allow(ip) {
			l.logger.Warn("Login rate limit exceeded", zap.String("ip", ip))
			c.Header("Retry-After", "1")
			abortWithError(c, http.StatusTooManyRequests, "rate_limited", "too many login attempts")
			return
		}
		c.Next()
	}
}
