package models

import "time"

type Event struct {
	ID            string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	Title         string    `gorm:"column:title;size:255;not null" json:"title"`
	Date          string    `gorm:"column:date;size:10" json:"date"` // YYYY-MM-DD
	Time          string    `gorm:"column:time;size:5" json:"time"`  // HH:MM
	Location      string    `gorm:"column:location;size:255" json:"location"`
	Description   string    `gorm:"column:description;type:text" json:"description"`
	SettingsJSON  string    `gorm:"column:settings_json;type:text" json:"-"`
	CoverURL      *string   `gorm:"column:cover_url;size:255" json:"cover_url"`
	CreatedBy     string    `gorm:"column:created_by;size:100;not null" json:"created_by"` // email người tạo
	ResponseCount int       `gorm:"column:response_count;default:0" json:"response_count"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	RSVPs      []RSVP      `gorm:"foreignKey:EventID" json:"-"`
	EventCodes []EventCode `gorm:"foreignKey:EventID" json:"-"`
}

func (Event) TableName() string {
	return "events"
}

// StartsAt ghép date + time để sắp xếp; ok=false khi thiếu hoặc sai định dạng.
func (e *Event) StartsAt() (time.Time, bool) {
	if e.Date == "" {
		return time.Time{}, false
	}
	layout := "2006-01-02"
	value := e.Date
	if e.Time != "" {
		layout = "2006-01-02 15:04"
		value = e.Date + " " + e.Time
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// EventCode là mã truy cập theo từng sự kiện, cấp cho một email cụ thể.
// Chỉ lưu hash, mã gốc trả về đúng một lần lúc tạo.
type EventCode struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   string    `gorm:"column:event_id;size:64;index;not null" json:"event_id"`
	Email     string    `gorm:"column:email;size:100;index;not null" json:"email"`
	CodeHash  string    `gorm:"column:code_hash;type:text;not null" json:"-"`
	CreatedBy string    `gorm:"column:created_by;size:100" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (EventCode) TableName() string {
	return "event_codes"
}
