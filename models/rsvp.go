package models

import (
	"encoding/json"
	"time"
)

type RSVP struct {
	RSVPID       string     `gorm:"column:rsvp_id;primaryKey;size:36" json:"rsvp_id"`
	EventID      string     `gorm:"column:event_id;size:64;index;not null" json:"event_id"`
	Name         string     `gorm:"column:name;size:100;not null" json:"name"`
	Email        string     `gorm:"column:email;size:100;index;not null" json:"email"`
	Phone        *string    `gorm:"column:phone;size:20" json:"phone,omitempty"`
	Attending    bool       `gorm:"column:attending;not null" json:"attending"`
	GuestCount   int        `gorm:"column:guest_count;default:0" json:"guest_count"`
	Reason       *string    `gorm:"column:reason;type:text" json:"reason,omitempty"`
	MealChoice   *string    `gorm:"column:meal_choice;size:100" json:"meal_choice,omitempty"`
	AnswersJSON  string     `gorm:"column:custom_answers;type:text" json:"-"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"timestamp"`
	LastModified *time.Time `gorm:"column:last_modified" json:"last_modified,omitempty"`
	IsUpdate     bool       `gorm:"column:is_update;default:false" json:"is_update"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

// CustomAnswers giải mã câu trả lời tuỳ chỉnh; dữ liệu hỏng coi như rỗng.
func (r *RSVP) CustomAnswers() map[string]string {
	out := map[string]string{}
	if r.AnswersJSON == "" {
		return out
	}
	if err := json.Unmarshal([]byte(r.AnswersJSON), &out); err != nil {
		return map[string]string{}
	}
	return out
}

func (r *RSVP) SetCustomAnswers(answers map[string]string) {
	if answers == nil {
		answers = map[string]string{}
	}
	b, _ := json.Marshal(answers)
	r.AnswersJSON = string(b)
}
