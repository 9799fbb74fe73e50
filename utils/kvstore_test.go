package utils

import (
	"testing"
	"time"
)

func TestMemStoreSetGetRemove(t *testing.T) {
	s := NewMemStore()

	if _, ok := s.Get("missing"); ok {
		t.Error("key chưa set mà Get trả về ok")
	}

	if err := s.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set lỗi: %v", err)
	}
	got, ok := s.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("Get = (%q, %v), muốn (v, true)", got, ok)
	}

	s.Remove("k")
	if _, ok := s.Get("k"); ok {
		t.Error("key đã Remove mà vẫn đọc được")
	}
	// Remove lần nữa vô hại
	s.Remove("k")
}

func TestMemStoreTTL(t *testing.T) {
	s := NewMemStore()
	if err := s.Set("short", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set lỗi: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := s.Get("short"); ok {
		t.Error("entry quá hạn mà Get vẫn trả về ok")
	}
}

func TestMemStoreKeysPrefix(t *testing.T) {
	s := NewMemStore()
	s.Set("eventcall_pending_rsvps_e1", []byte("[]"), time.Minute)
	s.Set("eventcall_pending_rsvps_e2", []byte("[]"), time.Minute)
	s.Set("other_key", []byte("x"), time.Minute)
	s.Set("eventcall_pending_rsvps_old", []byte("[]"), -time.Second) // đã hết hạn

	keys := s.Keys("eventcall_pending_rsvps_")
	if len(keys) != 2 {
		t.Errorf("Keys trả về %d key, muốn 2: %v", len(keys), keys)
	}
}

func TestGetJSONCorruptEntry(t *testing.T) {
	s := NewMemStore()
	s.Set("bad", []byte("{not-json"), time.Minute)

	var out map[string]string
	if GetJSON(s, "bad", &out) {
		t.Error("entry hỏng phải được coi như absent")
	}
	// entry hỏng bị dọn luôn
	if _, ok := s.Get("bad"); ok {
		t.Error("entry hỏng phải bị xoá sau lần đọc")
	}
}

func TestSetJSONRoundTrip(t *testing.T) {
	s := NewMemStore()

	type payload struct {
		Name  string   `json:"name"`
		Items []string `json:"items"`
	}
	in := payload{Name: "test", Items: []string{"a", "b"}}

	if err := SetJSON(s, "p", in, time.Minute); err != nil {
		t.Fatalf("SetJSON lỗi: %v", err)
	}
	var out payload
	if !GetJSON(s, "p", &out) {
		t.Fatal("GetJSON không tìm thấy entry vừa ghi")
	}
	if out.Name != in.Name || len(out.Items) != 2 || out.Items[0] != "a" {
		t.Errorf("round-trip sai: %+v", out)
	}
}

func TestMemStorePurge(t *testing.T) {
	s := NewMemStore()
	s.Set("live", []byte("1"), time.Minute)
	s.Set("dead", []byte("1"), -time.Second)

	s.Purge()

	if _, ok := s.Get("live"); !ok {
		t.Error("Purge xoá nhầm entry còn hạn")
	}
	if len(s.Keys("dead")) != 0 {
		t.Error("Purge không dọn entry quá hạn")
	}
}
