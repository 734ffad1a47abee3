package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckResult represents the result of an individual health check
type CheckResult struct {
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Latency string            `json:"latency,omitempty"`
	Details map[string]uint64 `json:"details,omitempty"`
}

// CheckFunc is a function that performs a health check
type CheckFunc func(ctx context.Context) CheckResult

// HealthChecker runs registered checks and caches the combined result.
type HealthChecker struct {
	version        string
	checks         map[string]CheckFunc
	mu             sync.RWMutex
	checkTimeout   time.Duration
	cacheTimeout   time.Duration
	cachedResponse *HealthResponse
	lastCheck      time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string, cacheTimeout time.Duration) *HealthChecker {
	return &HealthChecker{
		version:      version,
		checks:       make(map[string]CheckFunc),
		checkTimeout: 5 * time.Second,
		cacheTimeout: cacheTimeout,
	}
}

// RegisterCheck registers a new health check
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[name] = check
	hc.cachedResponse = nil
}

// PerformChecks runs all registered health checks
func (hc *HealthChecker) PerformChecks(ctx context.Context) *HealthResponse {
	hc.mu.RLock()
	if hc.cachedResponse != nil && time.Since(hc.lastCheck) < hc.cacheTimeout {
		cached := hc.cachedResponse
		hc.mu.RUnlock()
		return cached
	}
	checks := make(map[string]CheckFunc, len(hc.checks))
	for name, check := range hc.checks {
		checks[name] = check
	}
	hc.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, check := range checks {
		wg.Add(1)
		go func(n string, c CheckFunc) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, hc.checkTimeout)
			defer cancel()

			start := time.Now()
			result := c(checkCtx)
			if result.Latency == "" {
				result.Latency = time.Since(start).String()
			}

			mu.Lock()
			results[n] = result
			mu.Unlock()
		}(name, check)
	}

	wg.Wait()

	overallStatus := StatusHealthy
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
			break
		}
		if result.Status == StatusDegraded {
			overallStatus = StatusDegraded
		}
	}

	response := &HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Version:   hc.version,
		Checks:    results,
	}

	hc.mu.Lock()
	hc.cachedResponse = response
	hc.lastCheck = time.Now()
	hc.mu.Unlock()

	return response
}

// HealthHandler returns overall health status
func (hc *HealthChecker) HealthHandler(c *gin.Context) {
	response := hc.PerformChecks(c.Request.Context())

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// LivenessHandler is a simple liveness check
func (hc *HealthChecker) LivenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

// ReadinessHandler checks if the service is ready to accept traffic
func (hc *HealthChecker) ReadinessHandler(c *gin.Context) {
	response := hc.PerformChecks(c.Request.Context())

	if response.Status == StatusUnhealthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not_ready",
			"reason":    response.Status,
			"timestamp": time.Now().UTC(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}

// StatsCheck reports the counters returned by stats. A nil stats function
// marks the check unhealthy.
func StatsCheck(stats func() map[string]uint64) CheckFunc {
	return func(ctx context.Context) CheckResult {
		if stats == nil {
			return CheckResult{Status: StatusUnhealthy, Message: "no state loaded"}
		}
		return CheckResult{Status: StatusHealthy, Details: stats()}
	}
}
