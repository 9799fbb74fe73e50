package models

import "time"

// CodeKind phân loại mã truy cập; quyết định phạm vi của session.
type CodeKind string

const (
	CodeKindMaster CodeKind = "master"
	CodeKindEvent  CodeKind = "event"
	CodeKindInvite CodeKind = "invite"
)

// Session không phải bảng gorm: được serialize JSON và lưu qua kv store
// với TTL trùng expires_at.
type Session struct {
	Token            string    `json:"token"`
	ManagerID        string    `json:"manager_id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name"`
	AuthorizedEvents []string  `json:"authorized_events"`
	CodeKind         CodeKind  `json:"code_kind"`
	LoginTime        time.Time `json:"login_time"`
	ExpiresAt        time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// CanAccessEvent chỉ dựa trên authorized_events; code kind không cộng thêm
// quyền gì ngoài phạm vi đã mã hoá trong danh sách.
func (s *Session) CanAccessEvent(eventID string) bool {
	for _, id := range s.AuthorizedEvents {
		if id == eventID {
			return true
		}
	}
	return false
}
