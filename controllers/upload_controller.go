package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/middleware"
	"github.com/vnkhanh/eventcall-server/models"
	"github.com/vnkhanh/eventcall-server/utils"
)

// UploadEventCover nhận ảnh bìa, đẩy lên Supabase và gắn URL vào sự kiện.
func UploadEventCover(c *gin.Context) {
	event := c.MustGet(middleware.CtxEvent).(models.Event)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Không nhận được file"})
		return
	}

	// chỉ nhận ảnh, tối đa 5MB
	if fileHeader.Size > 5<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File vượt quá kích thước cho phép"})
		return
	}

	fileID := fmt.Sprintf("%s_%d", event.ID, time.Now().UnixNano())
	publicURL, err := utils.UploadToSupabase(fileHeader, fileHeader.Filename, fileID, "covers", "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Upload thất bại", "error": err.Error()})
		return
	}

	if err := config.DB.Model(&models.Event{}).
		Where("id = ?", event.ID).
		Update("cover_url", publicURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không lưu được URL ảnh"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Upload thành công",
		"url":     publicURL,
	})
}
