package utils

import (
	"sync"

	"gorm.io/gorm"

	"github.com/vnkhanh/eventcall-server/models"
)

// ResponseCache là bản đồ eventID -> RSVPs đồng bộ từ DB, phục vụ dashboard
// và phép gộp RSVP. DB vẫn là nguồn sự thật; cache chỉ là lớp đọc.
type ResponseCache struct {
	mu      sync.RWMutex
	byEvent map[string][]models.RSVP
}

// Responses là cache dùng chung của tiến trình.
var Responses = NewResponseCache()

func NewResponseCache() *ResponseCache {
	return &ResponseCache{byEvent: make(map[string][]models.RSVP)}
}

// SyncEvent nạp lại toàn bộ RSVP của một event từ DB.
func (c *ResponseCache) SyncEvent(db *gorm.DB, eventID string) error {
	var rsvps []models.RSVP
	if err := db.Where("event_id = ?", eventID).Order("created_at ASC").Find(&rsvps).Error; err != nil {
		return err
	}
	c.ReplaceEvent(eventID, rsvps)
	return nil
}

func (c *ResponseCache) ReplaceEvent(eventID string, rsvps []models.RSVP) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byEvent[eventID] = rsvps
}

func (c *ResponseCache) Append(rsvp models.RSVP) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byEvent[rsvp.EventID] = append(c.byEvent[rsvp.EventID], rsvp)
}

// Update thay bản ghi có cùng rsvp_id tại chỗ; trả về false nếu không có.
func (c *ResponseCache) Update(rsvp models.RSVP) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.byEvent[rsvp.EventID]
	for i := range list {
		if list[i].RSVPID == rsvp.RSVPID {
			list[i] = rsvp
			return true
		}
	}
	return false
}

// Find tìm RSVP theo id trên mọi event.
func (c *ResponseCache) Find(rsvpID string) (models.RSVP, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, list := range c.byEvent {
		for _, r := range list {
			if r.RSVPID == rsvpID {
				return r, true
			}
		}
	}
	return models.RSVP{}, false
}

// Snapshot trả về bản sao nông của view hiện tại.
func (c *ResponseCache) Snapshot() map[string][]models.RSVP {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]models.RSVP, len(c.byEvent))
	for k, v := range c.byEvent {
		list := make([]models.RSVP, len(v))
		copy(list, v)
		out[k] = list
	}
	return out
}
