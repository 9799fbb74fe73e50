package utils

import (
	"strings"
	"time"

	"github.com/vnkhanh/eventcall-server/models"
)

const PendingKeyPrefix = "eventcall_pending_rsvps_"

func PendingKey(eventID string) string { return PendingKeyPrefix + eventID }

// AggregateUserRSVPs gộp RSVP của một email từ hai nguồn: view đồng bộ từ
// server và kho pending cục bộ. Khi trùng rsvp_id, bản trong view thắng.
// Entry pending hỏng được bỏ qua (GetJSON đã log), không làm hỏng phép gộp.
func AggregateUserRSVPs(email string, view map[string][]models.RSVP, store Store) []models.RSVP {
	email = strings.ToLower(email)
	seen := make(map[string]bool)
	var out []models.RSVP

	for _, rsvps := range view {
		for _, r := range rsvps {
			if strings.ToLower(r.Email) != email {
				continue
			}
			out = append(out, r)
			seen[r.RSVPID] = true
		}
	}

	for _, key := range store.Keys(PendingKeyPrefix) {
		var pending []models.RSVP
		if !GetJSON(store, key, &pending) {
			continue
		}
		for _, r := range pending {
			if strings.ToLower(r.Email) != email || seen[r.RSVPID] {
				continue
			}
			out = append(out, r)
			seen[r.RSVPID] = true
		}
	}

	return out
}

// PendingTTL: entry pending sống 7 ngày nếu không được đụng tới.
const PendingTTL = 7 * 24 * time.Hour

// AppendPendingRSVP ghi thêm một RSVP vào entry pending của event (tạo entry
// nếu chưa có); TTL được làm mới.
func AppendPendingRSVP(store Store, rsvp models.RSVP) {
	key := PendingKey(rsvp.EventID)
	var pending []models.RSVP
	GetJSON(store, key, &pending)
	pending = append(pending, rsvp)
	_ = SetJSON(store, key, pending, PendingTTL)
}

// UpdatePendingRSVP thay bản ghi cùng rsvp_id trong entry pending của event,
// nếu entry đó tồn tại; TTL được làm mới.
func UpdatePendingRSVP(store Store, rsvp models.RSVP) {
	key := PendingKey(rsvp.EventID)
	var pending []models.RSVP
	if !GetJSON(store, key, &pending) {
		return
	}
	changed := false
	for i := range pending {
		if pending[i].RSVPID == rsvp.RSVPID {
			pending[i] = rsvp
			changed = true
		}
	}
	if changed {
		_ = SetJSON(store, key, pending, PendingTTL)
	}
}
