package models

import (
	"encoding/json"
	"time"
)

type Manager struct {
	ID             string     `gorm:"column:id;primaryKey;size:64" json:"id"`
	Email          string     `gorm:"column:email;size:100;uniqueIndex;not null" json:"email"`
	DisplayName    string     `gorm:"column:display_name;size:100;not null" json:"display_name"`
	MasterCodeHash string     `gorm:"column:master_code_hash;type:text" json:"-"` // ẩn khi trả JSON
	EventsJSON     string     `gorm:"column:authorized_events;type:text" json:"-"`
	Role           string     `gorm:"column:role;size:20;default:'manager'" json:"role"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastLogin      *time.Time `gorm:"column:last_login" json:"last_login"`
}

func (Manager) TableName() string {
	return "managers"
}

// AuthorizedEvents giải mã danh sách event id từ cột JSON.
// Dữ liệu hỏng được coi như danh sách rỗng.
func (m *Manager) AuthorizedEvents() []string {
	if m.EventsJSON == "" {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(m.EventsJSON), &ids); err != nil {
		return []string{}
	}
	return ids
}

func (m *Manager) SetAuthorizedEvents(ids []string) {
	b, _ := json.Marshal(ids)
	m.EventsJSON = string(b)
}

// AddAuthorizedEvent thêm event id theo ngữ nghĩa set (không trùng lặp).
func (m *Manager) AddAuthorizedEvent(eventID string) {
	ids := m.AuthorizedEvents()
	for _, id := range ids {
		if id == eventID {
			return
		}
	}
	m.SetAuthorizedEvents(append(ids, eventID))
}
