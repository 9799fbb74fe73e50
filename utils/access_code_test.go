package utils

import (
	"strings"
	"testing"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/models"
)

func TestGenerateCodeRoundTrip(t *testing.T) {
	config.LoadApp()

	kinds := []models.CodeKind{
		models.CodeKindMaster,
		models.CodeKindEvent,
		models.CodeKindInvite,
	}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			code := GenerateCode(kind)
			if !ValidateCode(code) {
				t.Fatalf("mã sinh ra không qua được validate: %q", code)
			}
			got, ok := CodeKindOf(code)
			if !ok {
				t.Fatalf("không phân loại được mã %q", code)
			}
			if got != kind {
				t.Errorf("CodeKindOf(%q) = %q, muốn %q", code, got, kind)
			}
		})
	}
}

func TestRandomCodeBody(t *testing.T) {
	for i := 0; i < 200; i++ {
		body := randomCodeBody(CodeBodyLen)
		if len(body) != CodeBodyLen {
			t.Fatalf("thân mã dài %d, muốn %d", len(body), CodeBodyLen)
		}
		for _, ch := range body {
			if !strings.ContainsRune(codeAlphabet, ch) {
				t.Fatalf("ký tự %q ngoài bảng chữ trong %q", ch, body)
			}
		}
	}
}

func TestValidateCode(t *testing.T) {
	config.LoadApp()

	tt := []struct {
		name string
		code string
		want bool
	}{
		{name: "master ok", code: "MGR-ABC1234567", want: true},
		{name: "event ok", code: "EVT-0000000000", want: true},
		{name: "invite ok", code: "INV-ZZZZZZZZZZ", want: true},
		{name: "prefix lạ", code: "XYZ-ABC1234567", want: false},
		{name: "thân quá ngắn", code: "MGR-ABC", want: false},
		{name: "thân quá dài", code: "MGR-ABC12345678", want: false},
		{name: "ký tự thường", code: "MGR-abc1234567", want: false},
		{name: "rỗng", code: "", want: false},
		{name: "chỉ prefix", code: "INV-", want: false},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateCode(tc.code); got != tc.want {
				t.Errorf("ValidateCode(%q) = %v, muốn %v", tc.code, got, tc.want)
			}
		})
	}
}

func TestNewManagerID(t *testing.T) {
	config.LoadApp()

	id := NewManagerID()
	if !strings.HasPrefix(id, config.App.MasterPrefix) {
		t.Errorf("id %q thiếu prefix %q", id, config.App.MasterPrefix)
	}
	if id != strings.ToUpper(id) {
		t.Errorf("id %q phải viết hoa toàn bộ", id)
	}
	if id == NewManagerID() {
		t.Error("hai id sinh liên tiếp không được trùng nhau")
	}
}
