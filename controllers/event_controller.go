package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/middleware"
	"github.com/vnkhanh/eventcall-server/models"
	"github.com/vnkhanh/eventcall-server/utils"
)

type createEventReq struct {
	Title       string  `json:"title" binding:"required,min=1"`
	Date        string  `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string  `json:"time"`                    // HH:MM
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Settings    *string `json:"settings"` // JSON tuỳ chọn
}

func CreateEvent(c *gin.Context) {
	manager := c.MustGet(middleware.CtxManager).(models.Manager)

	var req createEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Payload không hợp lệ", "error": err.Error()})
		return
	}

	settingsJSON := ""
	if req.Settings != nil {
		s, err := utils.ParseEventSettings([]byte(*req.Settings))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
			return
		}
		if settingsJSON, err = utils.EventSettingsJSON(s); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể lưu settings"})
			return
		}
	}

	event := models.Event{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Date:         req.Date,
		Time:         req.Time,
		Location:     req.Location,
		Description:  req.Description,
		SettingsJSON: settingsJSON,
		CreatedBy:    manager.Email,
	}

	if err := config.DB.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo sự kiện"})
		return
	}

	// Người tạo tự động có quyền với sự kiện mới
	manager.AddAuthorizedEvent(event.ID)
	config.DB.Model(&models.Manager{}).Where("id = ?", manager.ID).
		Update("authorized_events", manager.EventsJSON)

	c.JSON(http.StatusCreated, gin.H{"message": "Tạo sự kiện thành công", "data": event})
}

// GetEvent public theo id — khách cần xem sự kiện để RSVP.
func GetEvent(c *gin.Context) {
	id := c.Param("id")

	var event models.Event
	if err := config.DB.First(&event, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Sự kiện không tồn tại"})
		return
	}

	settings, err := utils.ParseEventSettings([]byte(event.SettingsJSON))
	if err != nil {
		settings = &utils.EventSettings{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       event,
		"settings":   settings,
		"ask_reason": settings.AskReasonEnabled(),
	})
}

// ListMyEvents trả về các sự kiện trong phạm vi của phiên hiện tại.
func ListMyEvents(c *gin.Context) {
	session := c.MustGet(middleware.CtxSession).(models.Session)

	events := []models.Event{}
	if len(session.AuthorizedEvents) > 0 {
		if err := config.DB.Where("id IN ?", session.AuthorizedEvents).
			Order("date ASC, time ASC").Find(&events).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Không lấy được danh sách sự kiện"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": events, "total": len(events)})
}

type updateEventReq struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

func UpdateEvent(c *gin.Context) {
	event := c.MustGet(middleware.CtxEvent).(models.Event)

	var req updateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Payload không hợp lệ", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Time != nil {
		updates["time"] = *req.Time
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Không có gì để cập nhật"})
		return
	}

	if err := config.DB.Model(&models.Event{}).
		Where("id = ?", event.ID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cập nhật thất bại"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// UpdateEventSettings merge patch vào settings hiện có (PATCH semantics).
func UpdateEventSettings(c *gin.Context) {
	event := c.MustGet(middleware.CtxEvent).(models.Event)

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Không đọc được payload"})
		return
	}

	base, err := utils.ParseEventSettings([]byte(event.SettingsJSON))
	if err != nil {
		base = &utils.EventSettings{}
	}
	patch, err := utils.ParseEventSettings(raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	merged := utils.MergeEventSettings(base, patch)
	out, err := utils.EventSettingsJSON(merged)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể lưu settings"})
		return
	}

	if err := config.DB.Model(&models.Event{}).
		Where("id = ?", event.ID).
		Update("settings_json", out).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cập nhật thất bại"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": merged})
}

func GetEventSettings(c *gin.Context) {
	event := c.MustGet(middleware.CtxEvent).(models.Event)
	settings, err := utils.ParseEventSettings([]byte(event.SettingsJSON))
	if err != nil {
		settings = &utils.EventSettings{}
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type addCoManagerReq struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

// AddCoManager thêm đồng quản lý cho sự kiện. Email chưa có tài khoản sẽ
// được đăng ký ngầm; event id thêm theo ngữ nghĩa set.
func AddCoManager(c *gin.Context) {
	event := c.MustGet(middleware.CtxEvent).(models.Event)

	var req addCoManagerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.ErrInvalidEmail.Error()})
		return
	}

	var target models.Manager
	var masterCode string
	if err := config.DB.First(&target, "email = ?", email).Error; err != nil {
		created, code, regErr := registerManager(email, req.Name)
		if regErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo tài khoản đồng quản lý"})
			return
		}
		target = *created
		masterCode = code
	}

	target.AddAuthorizedEvent(event.ID)
	if err := config.DB.Model(&models.Manager{}).Where("id = ?", target.ID).
		Update("authorized_events", target.EventsJSON).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể cập nhật quyền"})
		return
	}

	resp := gin.H{
		"message":    "Đã thêm đồng quản lý",
		"co_manager": managerPublic(&target),
	}
	if masterCode != "" {
		// tài khoản mới: trả master code một lần để chuyển cho người được thêm
		resp["master_code"] = masterCode
	}
	c.JSON(http.StatusOK, resp)
}

type inviteReq struct {
	ExpiresInHours *int `json:"expires_in_hours"`
}

// CreateInviteLink phát hành mã mời và URL dạng <base>/?invite=<code>#join.
func CreateInviteLink(c *gin.Context) {
	event := c.MustGet(middleware.CtxEvent).(models.Event)
	manager := c.MustGet(middleware.CtxManager).(models.Manager)

	var req inviteReq
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	code := utils.GenerateCode(models.CodeKindInvite)

	invite := models.Invite{
		Code:       code,
		EventID:    event.ID,
		EventTitle: event.Title,
		CreatedBy:  manager.Email,
		Status:     "pending",
	}
	if req.ExpiresInHours != nil && *req.ExpiresInHours > 0 {
		exp := time.Now().Add(time.Duration(*req.ExpiresInHours) * time.Hour)
		invite.ExpiresAt = &exp
	}

	if err := config.DB.Create(&invite).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không tạo được lời mời"})
		return
	}

	base := strings.TrimRight(config.App.PublicBaseURL, "/")
	c.JSON(http.StatusCreated, gin.H{
		"code": code,
		"url":  base + "/?invite=" + code + "#join",
		"data": invite,
	})
}

type shareEventCodeReq struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

// ShareEventCode phát hành event code cho một email: người nhận đăng nhập
// bằng (email, code) và chỉ thấy đúng sự kiện này.
func ShareEventCode(c *gin.Context) {
	event := c.MustGet(middleware.CtxEvent).(models.Event)
	manager := c.MustGet(middleware.CtxManager).(models.Manager)

	var req shareEventCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.ErrInvalidEmail.Error()})
		return
	}

	// Người nhận cần bản ghi manager để đăng nhập được
	var target models.Manager
	if err := config.DB.First(&target, "email = ?", email).Error; err != nil {
		if _, _, regErr := registerManager(email, req.Name); regErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo tài khoản"})
			return
		}
	}

	code := utils.GenerateCode(models.CodeKindEvent)
	hash, err := utils.HashCode(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo mã"})
		return
	}

	ec := models.EventCode{
		EventID:   event.ID,
		Email:     email,
		CodeHash:  hash,
		CreatedBy: manager.Email,
	}
	if err := config.DB.Create(&ec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không lưu được mã"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Đã tạo event code",
		"email":   email,
		"code":    code, // chỉ trả một lần
	})
}

// GetEventRSVPs đồng bộ cache từ DB rồi trả về danh sách cho dashboard.
// Đây chính là bước nạp "view trong bộ nhớ" mà phép gộp RSVP đọc.
func GetEventRSVPs(c *gin.Context) {
	event := c.MustGet(middleware.CtxEvent).(models.Event)

	if err := utils.Responses.SyncEvent(config.DB, event.ID); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": models.ErrBackendUnavailable.Error()})
		return
	}

	view := utils.Responses.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"event_id": event.ID,
		"rsvps":    view[event.ID],
		"total":    len(view[event.ID]),
	})
}
