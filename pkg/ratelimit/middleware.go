package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"outletdesk/internal/shared/utils/response"
	"outletdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware applies the budget matching the route template of each request
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.Request.Method, c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// fail open: Redis trouble must not take the desk offline
			logger.GetDefault().ErrorWithContext(c.Request.Context(), "rate limit check failed", err, map[string]interface{}{
				"path": c.FullPath(),
			})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(method, path string) RateLimitType {
	write := method != http.MethodGet && method != http.MethodHead

	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/metrics"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	case strings.HasSuffix(path, "/dashboard"),
		strings.HasSuffix(path, "/bookings/export"):
		return RateLimitTypeAnalytics

	// booking creation and settlement touch several rows under lock
	case write && (strings.HasSuffix(path, "/hotel/bookings") ||
		strings.HasSuffix(path, "/checkout") ||
		strings.HasSuffix(path, "/extend")):
		return RateLimitTypeBookingCritical

	case strings.Contains(path, "/bookings"),
		strings.Contains(path, "/orders"),
		strings.Contains(path, "/kot"),
		strings.Contains(path, "/availability"):
		return RateLimitTypeBooking

	case write && (strings.Contains(path, "/hotel/") ||
		strings.Contains(path, "/restaurant/") ||
		strings.Contains(path, "/travel/")):
		return RateLimitTypeAdmin

	case strings.HasPrefix(path, "/swagger"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
