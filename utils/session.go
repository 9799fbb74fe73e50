package utils

import (
	"log"
	"time"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/models"
)

const (
	SessionKeyPrefix  = "eventcall_session:"
	RememberKeyPrefix = "eventcall_remember:"
)

func SessionKey(token string) string  { return SessionKeyPrefix + token }
func RememberKey(token string) string { return RememberKeyPrefix + token }

// NewSession dựng session cho manager với phạm vi events và loại mã đã dùng.
func NewSession(m *models.Manager, kind models.CodeKind, events []string, token string) models.Session {
	now := time.Now()
	return models.Session{
		Token:            token,
		ManagerID:        m.ID,
		Email:            m.Email,
		DisplayName:      m.DisplayName,
		AuthorizedEvents: events,
		CodeKind:         kind,
		LoginTime:        now,
		ExpiresAt:        now.Add(config.App.SessionTimeout),
	}
}

// RememberTTL trả về TTL cho bản remember-me: sessionTimeout nhưng không
// bao giờ vượt trần 4 giờ, bất kể cấu hình.
func RememberTTL() time.Duration {
	if config.App.SessionTimeout < config.App.RememberCap {
		return config.App.SessionTimeout
	}
	return config.App.RememberCap
}

// SaveSession ghi session qua kv store với TTL khớp expires_at; nếu remember
// thì ghi thêm bản sao có hạn bị cắt trần.
func SaveSession(s models.Session, remember bool) error {
	if err := SetJSON(KV, SessionKey(s.Token), s, config.App.SessionTimeout); err != nil {
		return err
	}
	if remember && config.App.RememberEnabled {
		capped := s
		capped.ExpiresAt = s.LoginTime.Add(RememberTTL())
		if err := SetJSON(KV, RememberKey(s.Token), capped, RememberTTL()); err != nil {
			return err
		}
	}
	return nil
}

// LoadSession khôi phục phiên theo token: ưu tiên session key, sau đó
// remember key (nếu bật). Phiên quá hạn bị xoá và trả về ErrSessionExpired.
func LoadSession(token string) (*models.Session, error) {
	var s models.Session
	found := GetJSON(KV, SessionKey(token), &s)
	if !found && config.App.RememberEnabled {
		found = GetJSON(KV, RememberKey(token), &s)
	}
	if !found {
		return nil, models.ErrSessionExpired
	}
	if s.Expired(time.Now()) {
		DropSession(token)
		log.Printf("session %s... hết hạn, đăng xuất", shortToken(token))
		return nil, models.ErrSessionExpired
	}
	return &s, nil
}

// DropSession xoá cả hai bản lưu; gọi nhiều lần vô hại.
func DropSession(token string) {
	KV.Remove(SessionKey(token))
	KV.Remove(RememberKey(token))
}

func shortToken(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}

// StartSessionWatchdog quét phiên hết hạn mỗi interval (mặc định 60s theo
// hợp đồng: độ chính xác trong vòng một phút quanh expires_at).
func StartSessionWatchdog(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			purgeExpiredSessions()
			purgeExpiredInvites()
		}
	}()
}

// purgeExpiredInvites dọn lời mời quá hạn chưa ai nhận.
func purgeExpiredInvites() {
	if config.DB == nil {
		return
	}
	res := config.DB.Delete(&models.Invite{},
		"expires_at IS NOT NULL AND expires_at <= ? AND status = ?", time.Now(), "pending")
	if res.RowsAffected > 0 {
		log.Printf("watchdog: đã dọn %d lời mời quá hạn", res.RowsAffected)
	}
}

func purgeExpiredSessions() {
	now := time.Now()
	for _, prefix := range []string{SessionKeyPrefix, RememberKeyPrefix} {
		for _, key := range KV.Keys(prefix) {
			var s models.Session
			if !GetJSON(KV, key, &s) {
				continue
			}
			if s.Expired(now) {
				KV.Remove(key)
				log.Printf("watchdog: phiên %s... hết hạn, đã dọn", shortToken(s.Token))
			}
		}
	}
}
