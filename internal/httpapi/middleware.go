package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/domain"
)

const (
	requestIDKey     = "request_id"
	sessionIDKey     = "session_id"
	headerRequestID  = "X-Request-ID"
	headerSessionID  = "X-Session-Id"
	headerShopDomain = "X-Shop-Domain"
	sessionCookie    = "ymm_session"
)

// RequestID tags each request with the caller's X-Request-ID or a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// AccessLog writes one logrus entry per request
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  c.GetString(requestIDKey),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("HTTP request")
		case status >= 400:
			entry.Warn("HTTP request")
		default:
			entry.Debug("HTTP request")
		}
	}
}

// Recovery turns a panic into a 500 with the standard error body
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("request_id", c.GetString(requestIDKey)).Errorf("💥 Panic serving %s: %v", c.Request.URL.Path, r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
			}
		}()
		c.Next()
	}
}

// PublicCORS opens the read-only widget routes to any origin
func PublicCORS(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+headerSessionID+", "+headerShopDomain)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Shop puts the shop domain from ?shop= or X-Shop-Domain on the request context
func Shop() gin.HandlerFunc {
	return func(c *gin.Context) {
		shop := strings.TrimSpace(c.Query("shop"))
		if shop == "" {
			shop = strings.TrimSpace(c.GetHeader(headerShopDomain))
		}
		if shop != "" {
			c.Request = c.Request.WithContext(domain.WithShop(c.Request.Context(), shop))
		}
		c.Next()
	}
}

// Session identifies the storefront visitor by X-Session-Id or the session cookie, issuing a new id when neither is present
func Session(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerSessionID)
		if id == "" {
			id, _ = c.Cookie(sessionCookie)
		}
		if id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, int(ttl.Seconds()), "/", "", false, true)
		}

		c.Set(sessionIDKey, id)
		c.Header(headerSessionID, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
