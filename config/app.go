package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig gom các tham số vận hành của EventCall; đọc từ env một lần
// trong main, phần còn lại của code dùng qua config.App.
type AppConfig struct {
	CSRFCookieName string
	CSRFRotate     time.Duration // <= 0 tắt xoay token
	AllowedOrigins []string      // rỗng = cho phép tất cả

	MasterPrefix string
	EventPrefix  string
	InvitePrefix string

	SessionTimeout  time.Duration
	RememberEnabled bool
	RememberCap     time.Duration // trần cứng cho remember-me

	PublicBaseURL  string
	GoogleClientID string
}

var App AppConfig

func LoadApp() {
	App = AppConfig{
		CSRFCookieName:  getenv("CSRF_COOKIE_NAME", "eventcall_csrf"),
		CSRFRotate:      getenvMs("CSRF_ROTATE_MS", 30*time.Minute),
		AllowedOrigins:  splitCSV(os.Getenv("ALLOWED_ORIGINS")),
		MasterPrefix:    getenv("MANAGER_PREFIX", "MGR-"),
		EventPrefix:     getenv("EVENT_PREFIX", "EVT-"),
		InvitePrefix:    getenv("INVITE_PREFIX", "INV-"),
		SessionTimeout:  getenvMs("SESSION_TIMEOUT_MS", 30*time.Minute),
		RememberEnabled: getenvBool("REMEMBER_ME_ENABLED", true),
		RememberCap:     4 * time.Hour,
		PublicBaseURL:   getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		GoogleClientID:  os.Getenv("GOOGLE_CLIENT_ID"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getenvMs đọc giá trị millisecond; số âm được giữ nguyên (dùng để tắt tính năng).
func getenvMs(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
