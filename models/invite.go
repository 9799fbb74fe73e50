package models

import "time"

type Invite struct {
	Code       string     `gorm:"column:code;primaryKey;size:32" json:"code"`
	EventID    string     `gorm:"column:event_id;size:64;index;not null" json:"event_id"`
	EventTitle string     `gorm:"column:event_title;size:255" json:"event_title"`
	CreatedBy  string     `gorm:"column:created_by;size:100;not null" json:"created_by"`
	Status     string     `gorm:"column:status;size:20;default:'pending'" json:"status"` // pending | accepted
	AcceptedBy *string    `gorm:"column:accepted_by;size:100" json:"accepted_by"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ExpiresAt  *time.Time `gorm:"column:expires_at" json:"expires_at"`
}

func (Invite) TableName() string {
	return "invites"
}

func (i *Invite) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}
