package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/models"
	"github.com/vnkhanh/eventcall-server/utils"
)

const (
	CtxSession = "session"
	CtxManager = "manager"
)

// AuthSession kiểm tra Authorization: Bearer <jwt>, lấy session token từ
// claims, khôi phục phiên qua kv store và nạp manager từ DB vào context.
// Manager trong bảng managers là nguồn sự thật, không tin bản trong session.
func AuthSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		rawToken := strings.TrimSpace(authHeader[7:])

		claims, err := utils.VerifyToken(rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		session, err := utils.LoadSession(claims.SessionToken)
		if err != nil {
			if errors.Is(err, models.ErrSessionExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message": models.ErrSessionExpired.Error(),
					"code":    "SESSION_EXPIRED",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid session"})
			return
		}

		var manager models.Manager
		if err := config.DB.First(&manager, "id = ?", session.ManagerID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Manager not found"})
			return
		}

		// Inject vào context
		c.Set(CtxSession, *session)
		c.Set(CtxManager, manager)

		c.Next()
	}
}

// OptionalAuth nạp phiên nếu có, bỏ qua trong im lặng nếu không.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.Next()
			return
		}
		claims, err := utils.VerifyToken(strings.TrimSpace(authHeader[7:]))
		if err != nil {
			c.Next()
			return
		}
		session, err := utils.LoadSession(claims.SessionToken)
		if err != nil {
			c.Next()
			return
		}
		var manager models.Manager
		if err := config.DB.First(&manager, "id = ?", session.ManagerID).Error; err == nil {
			c.Set(CtxSession, *session)
			c.Set(CtxManager, manager)
		}
		c.Next()
	}
}
