package server

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gatherkit/gatherkit/internal/requestcache"
	"github.com/gatherkit/gatherkit/internal/requestid"
	"go.uber.org/zap"
)

const contextUserIDKey = "user_id"

// RequestID assigns a correlation id to every request, honoring one
// supplied by a trusted proxy.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(requestid.With(c.Request.Context(), id))
		c.Next()
	}
}

// RequestCache installs the per-request memoization map so repeated
// role lookups within one request hit the database once.
func RequestCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(requestcache.With(c.Request.Context(), requestcache.New()))
		c.Next()
	}
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", requestid.FromContext(c.Request.Context())),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.Last().Error()))
		}
		log.Info("request", fields...)
	}
}

// AuthRequired resolves the session cookie to a user id and aborts with
// 401 when absent or invalid.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Next()
	}
}

// OptionalAuth resolves the session when a cookie is present but lets
// anonymous requests through. Used on routes that serve published
// content publicly.
func (s *Server) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := s.sessions.ReadToken(c); ok {
			if session, err := s.authsvc.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(contextUserIDKey, session.UserID)
			}
		}
		c.Next()
	}
}

// currentUserID returns the authenticated user, or 0 on anonymous
// requests.
func currentUserID(c *gin.Context) snowflake.ID {
	value, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0
	}
	id, _ := value.(snowflake.ID)
	return id
}
