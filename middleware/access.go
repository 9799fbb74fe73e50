package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/models"
)

const CtxEvent = "eventObj"

// CheckEventAccess: yêu cầu phiên đang hoạt động và event id trong
// authorized_events của phiên. Loại mã đăng nhập không cộng thêm quyền:
// phiên Event code chỉ thấy đúng event của nó.
func CheckEventAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxSession)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Chưa đăng nhập"})
			return
		}
		session := v.(models.Session)

		eventID := c.Param("id")
		if eventID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "ID không hợp lệ"})
			return
		}

		if !session.CanAccessEvent(eventID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": models.ErrAccessDenied.Error()})
			return
		}

		var event models.Event
		if err := config.DB.First(&event, "id = ?", eventID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Sự kiện không tồn tại"})
			return
		}

		// Đưa event vào context để controller dùng tiếp
		c.Set(CtxEvent, event)
		c.Next()
	}
}
