package controllers

import (
	"log"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/middleware"
	"github.com/vnkhanh/eventcall-server/models"
	"github.com/vnkhanh/eventcall-server/utils"
)

type rsvpReq struct {
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Phone         *string           `json:"phone"`
	Attending     *bool             `json:"attending"` // con trỏ: phân biệt "chưa chọn" với false
	GuestCount    int               `json:"guest_count"`
	Reason        *string           `json:"reason"`
	MealChoice    *string           `json:"meal_choice"`
	CustomAnswers map[string]string `json:"custom_answers"`
}

// validateRSVPReq gom các luật của form RSVP; trả lỗi nghiệp vụ đầu tiên.
func validateRSVPReq(req *rsvpReq) error {
	req.Name = strings.TrimSpace(req.Name)
	// đếm ký tự chứ không đếm byte: tên tiếng Việt một chữ vẫn phải bị chặn
	if utf8.RuneCountInString(req.Name) < 2 {
		return models.ErrInvalidName
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if !utils.ValidEmail(req.Email) {
		return models.ErrInvalidEmail
	}
	if req.Attending == nil {
		return models.ErrAttendingUnset
	}
	if req.GuestCount < 0 {
		req.GuestCount = 0
	}
	// không tham dự thì không có khách kèm theo
	if !*req.Attending {
		req.GuestCount = 0
	}
	return nil
}

// SubmitRSVP: khách gửi RSVP công khai cho một sự kiện.
func SubmitRSVP(c *gin.Context) {
	eventID := c.Param("id")

	var event models.Event
	if err := config.DB.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Sự kiện không tồn tại"})
		return
	}

	var req rsvpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dữ liệu gửi không hợp lệ: " + err.Error()})
		return
	}
	if err := validateRSVPReq(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// Hạn chót trả lời (nếu cấu hình)
	if settings, err := utils.ParseEventSettings([]byte(event.SettingsJSON)); err == nil {
		if settings.RSVPDeadline != nil && time.Now().Unix() > *settings.RSVPDeadline {
			c.JSON(http.StatusForbidden, gin.H{"message": "Sự kiện đã đóng nhận RSVP"})
			return
		}
		if settings.MaxGuests.Set && settings.MaxGuests.Value != nil && req.GuestCount > *settings.MaxGuests.Value {
			req.GuestCount = *settings.MaxGuests.Value
		}
	}

	rsvp := models.RSVP{
		RSVPID:     uuid.NewString(),
		EventID:    eventID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Attending:  *req.Attending,
		GuestCount: req.GuestCount,
		Reason:     req.Reason,
		MealChoice: req.MealChoice,
	}
	rsvp.SetCustomAnswers(req.CustomAnswers)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rsvp).Error; err != nil {
			return err
		}
		return tx.Model(&models.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("response_count", gorm.Expr("response_count + 1")).Error
	})
	if err != nil {
		log.Printf("rsvp: không lưu được phản hồi: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": models.ErrBackendUnavailable.Error()})
		return
	}

	// DB ghi xong mới cập nhật view trong bộ nhớ
	utils.Responses.Append(rsvp)

	// Người gửi đang đăng nhập với chính email này thì ghi thêm vào kho
	// pending của họ, để /rsvps/my thấy ngay cả khi view chưa đồng bộ lại
	if v, ok := c.Get(middleware.CtxSession); ok {
		if session, sok := v.(models.Session); sok && strings.EqualFold(session.Email, rsvp.Email) {
			utils.AppendPendingRSVP(utils.KV, rsvp)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Gửi RSVP thành công", "data": rsvp})
}

// GetMyRSVPs gộp RSVP của người đang đăng nhập từ view đồng bộ và kho
// pending, khử trùng theo rsvp_id (bản server thắng), sắp theo ngày giờ
// sự kiện tăng dần.
func GetMyRSVPs(c *gin.Context) {
	session := c.MustGet(middleware.CtxSession).(models.Session)

	merged := utils.AggregateUserRSVPs(session.Email, utils.Responses.Snapshot(), utils.KV)
	sortRSVPsByEventStart(merged)

	c.JSON(http.StatusOK, gin.H{"data": merged, "total": len(merged)})
}

// sortRSVPsByEventStart: sắp theo date+time của sự kiện; RSVP không resolve
// được sự kiện giữ nguyên thứ tự tương đối (stable sort, xếp cuối).
func sortRSVPsByEventStart(rsvps []models.RSVP) {
	starts := make(map[string]time.Time)
	resolved := make(map[string]bool)
	for _, r := range rsvps {
		if _, seen := resolved[r.EventID]; seen {
			continue
		}
		var event models.Event
		if err := config.DB.First(&event, "id = ?", r.EventID).Error; err != nil {
			resolved[r.EventID] = false
			continue
		}
		if t, ok := event.StartsAt(); ok {
			starts[r.EventID] = t
			resolved[r.EventID] = true
		} else {
			resolved[r.EventID] = false
		}
	}

	sort.SliceStable(rsvps, func(i, j int) bool {
		ti, iok := starts[rsvps[i].EventID]
		tj, jok := starts[rsvps[j].EventID]
		if iok && jok {
			return ti.Before(tj)
		}
		// chỉ một bên resolve được thì bên đó đứng trước
		return iok && !jok
	})
}

// GetRSVPForEdit mở một RSVP để sửa: tìm trong view trước, rơi về kho
// pending; kèm cờ ask_reason của sự kiện để client biết hiện trường lý do.
func GetRSVPForEdit(c *gin.Context) {
	session := c.MustGet(middleware.CtxSession).(models.Session)
	rsvpID := c.Param("rsvpId")
	eventID := c.Query("event_id")

	rsvp, ok := locateRSVP(rsvpID, eventID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": models.ErrRSVPNotFound.Error()})
		return
	}
	if !strings.EqualFold(rsvp.Email, session.Email) {
		c.JSON(http.StatusForbidden, gin.H{"message": models.ErrAccessDenied.Error()})
		return
	}

	askReason := false
	var event models.Event
	if err := config.DB.First(&event, "id = ?", rsvp.EventID).Error; err == nil {
		if settings, perr := utils.ParseEventSettings([]byte(event.SettingsJSON)); perr == nil {
			askReason = settings.AskReasonEnabled()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       rsvp,
		"ask_reason": askReason,
	})
}

// locateRSVP: view trong bộ nhớ trước (đồng bộ lại event nếu biết id),
// sau đó kho pending.
func locateRSVP(rsvpID, eventID string) (models.RSVP, bool) {
	if r, ok := utils.Responses.Find(rsvpID); ok {
		return r, true
	}
	if eventID != "" {
		if err := utils.Responses.SyncEvent(config.DB, eventID); err == nil {
			if r, ok := utils.Responses.Find(rsvpID); ok {
				return r, true
			}
		}
	}
	// kho pending cục bộ
	for _, key := range utils.KV.Keys(utils.PendingKeyPrefix) {
		var pending []models.RSVP
		if !utils.GetJSON(utils.KV, key, &pending) {
			continue
		}
		for _, r := range pending {
			if r.RSVPID == rsvpID {
				return r, true
			}
		}
	}
	return models.RSVP{}, false
}

// UpdateRSVP lưu bản sửa qua ba kho theo thứ tự nghiêm ngặt: DB trước —
// lỗi thì dừng và không đụng kho nào khác; rồi view trong bộ nhớ; rồi
// entry pending nếu có.
func UpdateRSVP(c *gin.Context) {
	session := c.MustGet(middleware.CtxSession).(models.Session)
	rsvpID := c.Param("rsvpId")

	var req rsvpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dữ liệu gửi không hợp lệ: " + err.Error()})
		return
	}

	original, ok := locateRSVP(rsvpID, c.Query("event_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": models.ErrRSVPNotFound.Error()})
		return
	}
	if !strings.EqualFold(original.Email, session.Email) {
		c.JSON(http.StatusForbidden, gin.H{"message": models.ErrAccessDenied.Error()})
		return
	}

	if err := validateRSVPReq(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// Shallow-merge các trường form lên bản gốc
	now := time.Now()
	updated := original
	updated.Name = req.Name
	updated.Email = req.Email
	updated.Attending = *req.Attending
	updated.GuestCount = req.GuestCount
	if req.Phone != nil {
		updated.Phone = req.Phone
	}
	if req.Reason != nil {
		updated.Reason = req.Reason
	}
	if req.MealChoice != nil {
		updated.MealChoice = req.MealChoice
	}
	if req.CustomAnswers != nil {
		updated.SetCustomAnswers(req.CustomAnswers)
	}
	updated.LastModified = &now
	updated.IsUpdate = true

	// 1) Backend là nguồn sự thật: lỗi thì không kho cục bộ nào được chạm tới
	if err := config.DB.Save(&updated).Error; err != nil {
		log.Printf("rsvp: backend từ chối bản sửa %s: %v", rsvpID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": models.ErrBackendUnavailable.Error()})
		return
	}

	// 2) View trong bộ nhớ
	utils.Responses.Update(updated)

	// 3) Entry pending nếu tồn tại
	utils.UpdatePendingRSVP(utils.KV, updated)

	// Trả về danh sách đã gộp lại cho màn hình của user
	merged := utils.AggregateUserRSVPs(updated.Email, utils.Responses.Snapshot(), utils.KV)
	sortRSVPsByEventStart(merged)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật RSVP thành công",
		"data":    updated,
		"rsvps":   merged,
	})
}
