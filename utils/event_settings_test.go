package utils

import (
	"encoding/json"
	"testing"
)

func TestNullableIntUnmarshal(t *testing.T) {
	type payload struct {
		MaxGuests NullableInt `json:"max_guests"`
	}

	// không gửi field -> Set = false
	var absent payload
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatal(err)
	}
	if absent.MaxGuests.Set {
		t.Error("không gửi field mà Set = true")
	}

	// gửi null -> Set = true, Value = nil (bỏ giới hạn)
	var null payload
	if err := json.Unmarshal([]byte(`{"max_guests":null}`), &null); err != nil {
		t.Fatal(err)
	}
	if !null.MaxGuests.Set || null.MaxGuests.Value != nil {
		t.Errorf("null: Set=%v Value=%v", null.MaxGuests.Set, null.MaxGuests.Value)
	}

	// gửi số -> Set = true, Value = số đó
	var num payload
	if err := json.Unmarshal([]byte(`{"max_guests":3}`), &num); err != nil {
		t.Fatal(err)
	}
	if !num.MaxGuests.Set || num.MaxGuests.Value == nil || *num.MaxGuests.Value != 3 {
		t.Errorf("số: Set=%v Value=%v", num.MaxGuests.Set, num.MaxGuests.Value)
	}
}

func TestParseEventSettingsClamp(t *testing.T) {
	s, err := ParseEventSettings([]byte(`{"max_guests":-5}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxGuests.Value == nil || *s.MaxGuests.Value != 0 {
		t.Errorf("max_guests âm phải clamp về 0, got %v", s.MaxGuests.Value)
	}

	if _, err := ParseEventSettings([]byte(`{oops`)); err == nil {
		t.Error("JSON hỏng phải trả lỗi")
	}

	empty, err := ParseEventSettings(nil)
	if err != nil || empty == nil {
		t.Fatalf("settings rỗng phải ra struct mặc định, err=%v", err)
	}
}

func TestMergeEventSettings(t *testing.T) {
	yes := true
	three := 3
	base := &EventSettings{
		AskReason:   &yes,
		MealOptions: []string{"chay", "mặn"},
		MaxGuests:   NullableInt{Set: true, Value: &three},
	}

	// patch rỗng giữ nguyên base
	out := MergeEventSettings(base, &EventSettings{})
	if !out.AskReasonEnabled() || len(out.MealOptions) != 2 {
		t.Error("patch rỗng không được đụng vào base")
	}
	if out.MaxGuests.Value == nil || *out.MaxGuests.Value != 3 {
		t.Error("patch rỗng không được đụng max_guests")
	}

	// patch max_guests = null phải gỡ giới hạn
	out = MergeEventSettings(base, &EventSettings{MaxGuests: NullableInt{Set: true, Value: nil}})
	if out.MaxGuests.Value != nil {
		t.Error("max_guests null phải overwrite thành không giới hạn")
	}

	// patch từng field
	no := false
	out = MergeEventSettings(base, &EventSettings{AskReason: &no, MealOptions: []string{"hải sản"}})
	if out.AskReasonEnabled() {
		t.Error("ask_reason phải bị patch thành false")
	}
	if len(out.MealOptions) != 1 || out.MealOptions[0] != "hải sản" {
		t.Errorf("meal_options = %v", out.MealOptions)
	}

	// merge không được sửa base
	if !*base.AskReason {
		t.Error("merge làm thay đổi base")
	}
}
