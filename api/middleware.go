package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RateLimitMiddleware implements per-client rate limiting
func RateLimitMiddleware(rps int) gin.HandlerFunc {
	limiters := &sync.Map{}

	return func(c *gin.Context) {
		ip := c.ClientIP()

		limiterInterface, _ := limiters.LoadOrStore(ip, rate.NewLimiter(rate.Limit(rps), rps*2))
		limiter := limiterInterface.(*rate.Limiter)

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Rate limit exceeded",
				Code:  CodeRateLimit,
			})
			return
		}

		c.Next()
	}
}

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if query := c.Request.URL.RawQuery; query != "" {
			path = path + "?" + query
		}

		c.Next()

		status := c.Writer.Status()
		keyvals := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", keyvals...)
			return
		}
		logger.Debug("request served", keyvals...)
	}
}

// MetricsMiddleware records request counts and latency by route
func MetricsMiddleware() gin.HandlerFunc {
	m := NewAPIMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.Latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// RequestSizeLimitMiddleware caps the request body at limit bytes
func RequestSizeLimitMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
