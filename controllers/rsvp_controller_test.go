package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/middleware"
	"github.com/vnkhanh/eventcall-server/models"
	"github.com/vnkhanh/eventcall-server/utils"
)

func boolPtr(b bool) *bool { return &b }

func TestValidateRSVPReq(t *testing.T) {
	tt := []struct {
		name      string
		req       rsvpReq
		wantErr   error
		wantGuest int
	}{
		{
			name:    "tên một chữ cái",
			req:     rsvpReq{Name: "A", Email: "a@x.vn", Attending: boolPtr(true)},
			wantErr: models.ErrInvalidName,
		},
		{
			// một ký tự nhiều byte vẫn chỉ là một ký tự
			name:    "tên một ký tự có dấu",
			req:     rsvpReq{Name: "Đ", Email: "a@x.vn", Attending: boolPtr(true)},
			wantErr: models.ErrInvalidName,
		},
		{
			name:    "tên toàn khoảng trắng",
			req:     rsvpReq{Name: "   ", Email: "a@x.vn", Attending: boolPtr(true)},
			wantErr: models.ErrInvalidName,
		},
		{
			name: "tên hai ký tự có dấu hợp lệ",
			req:  rsvpReq{Name: "  Đà  ", Email: "a@x.vn", Attending: boolPtr(true), GuestCount: 1},
			wantGuest: 1,
		},
		{
			name:    "email sai định dạng",
			req:     rsvpReq{Name: "Nguyễn Văn A", Email: "khong-phai-email", Attending: boolPtr(true)},
			wantErr: models.ErrInvalidEmail,
		},
		{
			name:    "chưa chọn tham dự",
			req:     rsvpReq{Name: "Nguyễn Văn A", Email: "a@x.vn"},
			wantErr: models.ErrAttendingUnset,
		},
		{
			name:      "số khách âm về 0",
			req:       rsvpReq{Name: "Nguyễn Văn A", Email: "a@x.vn", Attending: boolPtr(true), GuestCount: -3},
			wantGuest: 0,
		},
		{
			name:      "không tham dự thì số khách bị ép về 0",
			req:       rsvpReq{Name: "Nguyễn Văn A", Email: "a@x.vn", Attending: boolPtr(false), GuestCount: 4},
			wantGuest: 0,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := validateRSVPReq(&tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, muốn %v", err, tc.wantErr)
			}
			if err == nil && tc.req.GuestCount != tc.wantGuest {
				t.Errorf("guest_count = %d, muốn %d", tc.req.GuestCount, tc.wantGuest)
			}
		})
	}
}

// newUnreachableDB mở kết nối gorm tới một cổng không có gì lắng nghe: mọi
// câu lệnh sẽ lỗi lúc thực thi, dùng để giả lập backend sập.
func newUnreachableDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=eventcall dbname=eventcall sslmode=disable"), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("không mở được kết nối lazy: %v", err)
	}
	return db
}

// Backend từ chối bản sửa thì cả view trong bộ nhớ lẫn entry pending đều
// phải giữ nguyên bản gốc.
func TestUpdateRSVPBackendFailureLeavesLocalStores(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.LoadApp()
	config.DB = newUnreachableDB(t)
	utils.KV = utils.NewMemStore()
	utils.Responses = utils.NewResponseCache()

	original := models.RSVP{
		RSVPID:     "r1",
		EventID:    "ev1",
		Name:       "Nguyễn Văn A",
		Email:      "a@x.vn",
		Attending:  true,
		GuestCount: 1,
	}
	utils.Responses.ReplaceEvent("ev1", []models.RSVP{original})
	if err := utils.SetJSON(utils.KV, utils.PendingKey("ev1"), []models.RSVP{original}, utils.PendingTTL); err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.PUT("/api/rsvps/:rsvpId", func(c *gin.Context) {
		c.Set(middleware.CtxSession, models.Session{ManagerID: "m1", Email: "a@x.vn"})
	}, UpdateRSVP)

	body := bytes.NewBufferString(`{"name":"Nguyễn Văn B","email":"a@x.vn","attending":true,"guest_count":2}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/rsvps/r1", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, muốn %d", w.Code, http.StatusServiceUnavailable)
	}

	// 1) view trong bộ nhớ chưa bị chạm tới
	got, ok := utils.Responses.Find("r1")
	if !ok {
		t.Fatal("bản ghi biến mất khỏi view")
	}
	if got.Name != "Nguyễn Văn A" || got.GuestCount != 1 || got.IsUpdate {
		t.Errorf("view bị sửa dù backend lỗi: %+v", got)
	}

	// 2) entry pending chưa bị chạm tới
	var pending []models.RSVP
	if !utils.GetJSON(utils.KV, utils.PendingKey("ev1"), &pending) {
		t.Fatal("entry pending biến mất")
	}
	if len(pending) != 1 || pending[0].Name != "Nguyễn Văn A" {
		t.Errorf("pending bị sửa dù backend lỗi: %+v", pending)
	}
}
