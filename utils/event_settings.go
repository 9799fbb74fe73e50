package utils

import (
	"encoding/json"
	"errors"
)

type NullableInt struct {
	Set   bool
	Value *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	// null
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	// số
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n NullableInt) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// CustomQuestion là câu hỏi thêm trên form RSVP.
type CustomQuestion struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type EventSettings struct {
	AskReason       *bool            `json:"ask_reason,omitempty"`       // hỏi lý do khi từ chối
	MealOptions     []string         `json:"meal_options,omitempty"`     // lựa chọn suất ăn
	CustomQuestions []CustomQuestion `json:"custom_questions,omitempty"` // câu hỏi tuỳ chỉnh
	MaxGuests       NullableInt      `json:"max_guests,omitempty"`       // trần số khách kèm theo (nil = không giới hạn)
	RSVPDeadline    *int64           `json:"rsvp_deadline,omitempty"`    // hạn chót trả lời (unix seconds)
}

func (s *EventSettings) AskReasonEnabled() bool {
	return s != nil && s.AskReason != nil && *s.AskReason
}

// ValidateEventSettings với clamp cho MaxGuests
func ValidateEventSettings(s *EventSettings) error {
	if s == nil {
		return errors.New("settings rỗng")
	}
	if s.MaxGuests.Set && s.MaxGuests.Value != nil {
		if *s.MaxGuests.Value < 0 {
			v := 0
			s.MaxGuests.Value = &v
		}
	}
	return nil
}

func ParseEventSettings(raw []byte) (*EventSettings, error) {
	if len(raw) == 0 {
		return &EventSettings{}, nil
	}
	var s EventSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("settings không phải JSON hợp lệ")
	}
	if err := ValidateEventSettings(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func MergeEventSettings(base *EventSettings, patch *EventSettings) *EventSettings {
	if base == nil {
		base = &EventSettings{}
	}
	if patch == nil {
		patch = &EventSettings{}
	}
	out := *base

	if patch.AskReason != nil {
		out.AskReason = patch.AskReason
	}
	if patch.MealOptions != nil {
		out.MealOptions = patch.MealOptions
	}
	if patch.CustomQuestions != nil {
		out.CustomQuestions = patch.CustomQuestions
	}
	// Nếu client có gửi max_guests (dù null hay số) thì overwrite
	if patch.MaxGuests.Set {
		out.MaxGuests = patch.MaxGuests
	}
	if patch.RSVPDeadline != nil {
		out.RSVPDeadline = patch.RSVPDeadline
	}
	return &out
}

func EventSettingsJSON(s *EventSettings) (string, error) {
	if s == nil {
		s = &EventSettings{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
