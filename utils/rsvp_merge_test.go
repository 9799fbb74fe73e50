package utils

import (
	"testing"
	"time"

	"github.com/vnkhanh/eventcall-server/models"
)

func mkRSVP(id, eventID, email, name string) models.RSVP {
	return models.RSVP{RSVPID: id, EventID: eventID, Email: email, Name: name, Attending: true}
}

func TestAggregateUserRSVPs(t *testing.T) {
	tt := []struct {
		name    string
		email   string
		view    map[string][]models.RSVP
		pending map[string][]models.RSVP
		wantIDs []string
		// id -> name mong đợi, để kiểm tra bản nào thắng khi trùng id
		wantNames map[string]string
	}{
		{
			name:  "không có pending thì trả đúng các match trong view",
			email: "u@x.vn",
			view: map[string][]models.RSVP{
				"e1": {mkRSVP("r1", "e1", "u@x.vn", "Bản server"), mkRSVP("r9", "e1", "khac@x.vn", "Người khác")},
			},
			wantIDs:   []string{"r1"},
			wantNames: map[string]string{"r1": "Bản server"},
		},
		{
			name:  "trùng rsvp_id thì bản trong view thắng, bản pending khác id vẫn vào",
			email: "u@x.vn",
			view: map[string][]models.RSVP{
				"e1": {mkRSVP("r1", "e1", "u@x.vn", "Bản server")},
			},
			pending: map[string][]models.RSVP{
				"e1": {mkRSVP("r1", "e1", "u@x.vn", "Bản pending đã sửa"), mkRSVP("r2", "e1", "u@x.vn", "Chỉ có pending")},
			},
			wantIDs:   []string{"r1", "r2"},
			wantNames: map[string]string{"r1": "Bản server", "r2": "Chỉ có pending"},
		},
		{
			name:  "so email không phân biệt hoa thường",
			email: "U@X.VN",
			view: map[string][]models.RSVP{
				"e1": {mkRSVP("r1", "e1", "u@x.vn", "A")},
			},
			pending: map[string][]models.RSVP{
				"e2": {mkRSVP("r2", "e2", "U@x.Vn", "B")},
			},
			wantIDs: []string{"r1", "r2"},
		},
		{
			name:    "không nguồn nào có gì",
			email:   "u@x.vn",
			view:    map[string][]models.RSVP{},
			wantIDs: []string{},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemStore()
			for eventID, rsvps := range tc.pending {
				if err := SetJSON(store, PendingKey(eventID), rsvps, time.Minute); err != nil {
					t.Fatalf("SetJSON lỗi: %v", err)
				}
			}

			got := AggregateUserRSVPs(tc.email, tc.view, store)

			if len(got) != len(tc.wantIDs) {
				t.Fatalf("gộp ra %d RSVP, muốn %d: %+v", len(got), len(tc.wantIDs), got)
			}
			byID := map[string]models.RSVP{}
			for _, r := range got {
				byID[r.RSVPID] = r
			}
			for _, id := range tc.wantIDs {
				r, ok := byID[id]
				if !ok {
					t.Errorf("thiếu rsvp_id %q trong kết quả", id)
					continue
				}
				if want, check := tc.wantNames[id]; check && r.Name != want {
					t.Errorf("rsvp %q có name %q, muốn %q", id, r.Name, want)
				}
			}
		})
	}
}

func TestAggregateSkipsCorruptPending(t *testing.T) {
	store := NewMemStore()
	store.Set(PendingKey("e1"), []byte("{corrupt"), time.Minute)
	if err := SetJSON(store, PendingKey("e2"), []models.RSVP{mkRSVP("r2", "e2", "u@x.vn", "OK")}, time.Minute); err != nil {
		t.Fatalf("SetJSON lỗi: %v", err)
	}

	got := AggregateUserRSVPs("u@x.vn", nil, store)
	if len(got) != 1 || got[0].RSVPID != "r2" {
		t.Errorf("entry hỏng phải bị bỏ qua, entry tốt vẫn vào: %+v", got)
	}
}

func TestAppendPendingRSVP(t *testing.T) {
	store := NewMemStore()

	// chưa có entry: tạo mới
	first := mkRSVP("r1", "e1", "u@x.vn", "Đầu tiên")
	AppendPendingRSVP(store, first)
	var pending []models.RSVP
	if !GetJSON(store, PendingKey("e1"), &pending) || len(pending) != 1 {
		t.Fatalf("entry pending phải được tạo với một bản ghi: %+v", pending)
	}

	// đã có entry: nối thêm, không ghi đè
	second := mkRSVP("r2", "e1", "u@x.vn", "Thứ hai")
	AppendPendingRSVP(store, second)
	pending = nil
	if !GetJSON(store, PendingKey("e1"), &pending) || len(pending) != 2 {
		t.Fatalf("entry pending phải có hai bản ghi: %+v", pending)
	}
	if pending[0].RSVPID != "r1" || pending[1].RSVPID != "r2" {
		t.Errorf("thứ tự nối thêm sai: %+v", pending)
	}
}

func TestUpdatePendingRSVP(t *testing.T) {
	store := NewMemStore()
	orig := mkRSVP("r1", "e1", "u@x.vn", "Cũ")
	if err := SetJSON(store, PendingKey("e1"), []models.RSVP{orig}, time.Minute); err != nil {
		t.Fatalf("SetJSON lỗi: %v", err)
	}

	edited := orig
	edited.Name = "Mới"
	edited.GuestCount = 2
	UpdatePendingRSVP(store, edited)

	var pending []models.RSVP
	if !GetJSON(store, PendingKey("e1"), &pending) {
		t.Fatal("entry pending biến mất sau update")
	}
	if pending[0].Name != "Mới" || pending[0].GuestCount != 2 {
		t.Errorf("entry pending chưa được thay: %+v", pending[0])
	}

	// event không có entry pending: không tạo mới
	other := mkRSVP("r5", "e9", "u@x.vn", "X")
	UpdatePendingRSVP(store, other)
	if _, ok := store.Get(PendingKey("e9")); ok {
		t.Error("UpdatePendingRSVP không được tạo entry mới")
	}
}
