package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/recipe-service/internal/helper"
	"github.com/tazhibayda/recipe-service/internal/log"
	"github.com/tazhibayda/recipe-service/internal/metrics"
	"github.com/tazhibayda/recipe-service/internal/security"
)

const (
	authUserKey  = "authUser"
	authTokenKey = "authToken"
	requestIDKey = "X-Request-ID"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDKey, id)
		c.Next()
	}
}

// CORS mirrors the permissive header set the frontend expects.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Authorization, Content-Type, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"GET,POST,PUT,PATCH,DELETE,OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.InFlight.Inc()
		// deferred so a panicking handler still decrements the gauge
		// and records the request
		defer func() {
			metrics.InFlight.Dec()

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			metrics.RequestsTotal.
				WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
			metrics.ReqDuration.
				WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		}()
		c.Next()
	}
}

// RequireAuth is the auth guard: signature check, user lookup, then
// membership of the presented token in the user's active set. It only
// reads; revocation happens in the logout handler.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		hdr := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer"})
			return
		}
		tok := strings.TrimSpace(hdr[len("Bearer "):])

		uid, err := security.ParseToken(h.JWTSecret, tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		oid, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		u, err := h.Users.FindUserByID(c.Request.Context(), oid)
		if err != nil || u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if !u.HasToken(tok) {
			log.L().Info("revoked token presented",
				zap.String("uid", uid), zap.String("token", helper.Hash8(tok)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		c.Set(authUserKey, u)
		c.Set(authTokenKey, tok)
		c.Next()
	}
}

// RateLimit throttles the credential endpoints by client IP when redis
// is configured; without redis it is a no-op.
func (h *Handler) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Redis == nil || h.RateLimitPerMin <= 0 {
			c.Next()
			return
		}
		if !h.Redis.Allow(c.Request.Context(), c.ClientIP(), h.RateLimitPerMin) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
