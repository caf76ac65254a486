package handlers

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/services"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/metrics"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// AdminAuthMiddleware пускает дальше только администратора с действующей сессией.
// Без сессии запрос перенаправляется на страницу входа.
func AdminAuthMiddleware(authService *services.AuthService, render *Renderer, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(sessionCookie)

		admin, err := authService.Authenticate(token)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				log.Errorw("failed to authenticate admin", "error", err)
			}
			if token != "" {
				render.setCookie(c, sessionCookie, "", -1)
			}
			c.Redirect(http.StatusFound, adminLoginPath)
			c.Abort()
			return
		}

		// Сохраняем администратора в контексте запроса
		c.Set(adminContextKey, admin)
		c.Next()
	}
}

// RequestLogger пишет в лог каждый обработанный запрос
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Errorw("http request", fields...)
		case status >= http.StatusBadRequest:
			log.Warnw("http request", fields...)
		default:
			log.Infow("http request", fields...)
		}
	}
}

// MetricsMiddleware считает запросы и их длительность по шаблону маршрута
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// SecurityHeaders выставляет базовые заголовки безопасности
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "SAMEORIGIN")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// LoginLimiter ограничивает число попыток входа с одного адреса
type LoginLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter создает ограничитель на perMinute попыток в минуту.
// При perMinute <= 0 ограничение выключено и возвращается nil.
func NewLoginLimiter(perMinute int) *LoginLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &LoginLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow сообщает, можно ли выполнить еще одну попытку входа с адреса key
func (l *LoginLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.idle {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.idle {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}
