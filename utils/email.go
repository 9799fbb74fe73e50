package utils

import (
	"regexp"
	"strings"
)

// Pattern thực dụng: non-space @ non-space . non-space
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// DisplayNameFromEmail suy tên hiển thị mặc định từ local part,
// tách theo ". _ -" và viết hoa chữ đầu mỗi từ.
func DisplayNameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
