package utils

import (
	"crypto/rand"
	"log"
	mrand "math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/models"
)

// Mã truy cập: prefix theo loại + CodeBodyLen ký tự A-Z0-9.
const (
	CodeBodyLen  = 10
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func codePrefix(kind models.CodeKind) string {
	switch kind {
	case models.CodeKindMaster:
		return config.App.MasterPrefix
	case models.CodeKindEvent:
		return config.App.EventPrefix
	case models.CodeKindInvite:
		return config.App.InvitePrefix
	}
	return ""
}

// GenerateCode sinh mã truy cập mới cho loại đã cho. Nguồn ngẫu nhiên chính
// là crypto/rand; chỉ khi nguồn này lỗi mới rơi về math/rand, kèm cảnh báo.
func GenerateCode(kind models.CodeKind) string {
	return codePrefix(kind) + randomCodeBody(CodeBodyLen)
}

func randomCodeBody(n int) string {
	// 252 = 36 * 7: loại byte >= 252 để phép chia dư không thiên lệch
	// về các ký tự đầu bảng chữ
	const rejectFrom = 252

	out := make([]byte, 0, n)
	buf := make([]byte, 2*n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			log.Printf("crypto/rand lỗi, rơi về nguồn ngẫu nhiên yếu: %v", err)
			weak := mrand.New(mrand.NewSource(time.Now().UnixNano()))
			b := make([]byte, n)
			for i := range b {
				b[i] = codeAlphabet[weak.Intn(len(codeAlphabet))]
			}
			return string(b)
		}
		for _, v := range buf {
			if v >= rejectFrom {
				continue
			}
			out = append(out, codeAlphabet[int(v)%len(codeAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out)
}

// ValidateCode kiểm tra cấu trúc: prefix đã biết + phần thân đúng bảng chữ và độ dài.
func ValidateCode(code string) bool {
	_, ok := CodeKindOf(code)
	return ok
}

// CodeKindOf phân loại mã theo prefix; ok=false khi prefix lạ hoặc thân sai cấu trúc.
func CodeKindOf(code string) (models.CodeKind, bool) {
	for _, kind := range []models.CodeKind{models.CodeKindMaster, models.CodeKindEvent, models.CodeKindInvite} {
		prefix := codePrefix(kind)
		if prefix == "" || !strings.HasPrefix(code, prefix) {
			continue
		}
		if validCodeBody(strings.TrimPrefix(code, prefix)) {
			return kind, true
		}
	}
	return "", false
}

func validCodeBody(body string) bool {
	if len(body) != CodeBodyLen {
		return false
	}
	for i := 0; i < len(body); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(body[i])) {
			return false
		}
	}
	return true
}

// NewManagerID sinh id manager: prefix master + timestamp base36 + 6 ký tự
// base36 ngẫu nhiên, viết hoa toàn bộ.
func NewManagerID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := randomCodeBody(6)
	return strings.ToUpper(config.App.MasterPrefix + ts + suffix)
}
