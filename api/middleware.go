package api

import (
	"strings"
	"time"

	"screen-ai/apperr"
	"screen-ai/models"
	"screen-ai/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey    = "request_id"
	currentUserKey  = "current_user"
	requestIDHeader = "X-Request-ID"
)

// requestID übernimmt X-Request-ID vom Client oder vergibt eine neue UUID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		}
		if u := currentUser(c); u != nil {
			fields = append(fields, zap.String("user_id", u.ID))
		}
		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// requireAuth löst das Bearer-Token auf. Fehlendes oder ungültiges Token
// ergibt 401, ein deaktiviertes Konto 403.
func requireAuth(auth *services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Header("WWW-Authenticate", "Bearer")
			respondError(c, log, apperr.Unauthorized("Not authenticated"))
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if apperr.Is(err, apperr.KindUnauthorized) {
				c.Header("WWW-Authenticate", "Bearer")
			}
			respondError(c, log, err)
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
