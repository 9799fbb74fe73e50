package middleware

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/utils"
)

const (
	HeaderCSRF    = "X-CSRF-Token"
	FormFieldCSRF = "csrf_token"
	CtxCSRFToken  = "csrfToken"

	// marker theo dõi tuổi token; TTL = chu kỳ xoay nên marker biến mất
	// đúng lúc token đến hạn thay.
	csrfIssuedPrefix = "eventcall_csrf_issued:"
)

// CSRFProtect cài pattern double-submit: cookie và trường gửi kèm
// (header hoặc hidden field) phải trùng nhau trên mọi request thay đổi
// trạng thái. Token được cấp lần đầu chạm và xoay theo chu kỳ cấu hình.
func CSRFProtect() gin.HandlerFunc {
	return func(c *gin.Context) {
		if stateChanging(c.Request.Method) {
			if origin := c.GetHeader("Origin"); origin != "" && !OriginAllowed(origin) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Origin không được chấp nhận"})
				return
			}
			// So khớp với cookie của chính request này: một submission đang
			// bay vẫn mang cặp (cookie cũ, field cũ) khớp nhau, nên xoay
			// token không làm hỏng nó.
			cookie, err := c.Cookie(config.App.CSRFCookieName)
			submitted := c.GetHeader(HeaderCSRF)
			if submitted == "" {
				submitted = c.PostForm(FormFieldCSRF)
			}
			if err != nil || cookie == "" || submitted == "" || submitted != cookie {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "CSRF token không hợp lệ"})
				return
			}
		}

		token := ensureToken(c)
		c.Set(CtxCSRFToken, token)
		c.Next()
	}
}

// ensureToken cấp token nếu chưa có, xoay nếu đã quá tuổi, và ghi cookie.
func ensureToken(c *gin.Context) string {
	rotate := config.App.CSRFRotate
	current, err := c.Cookie(config.App.CSRFCookieName)

	fresh := false
	if err != nil || current == "" {
		current = mustNewToken()
		fresh = true
	} else if rotate > 0 {
		if _, ok := utils.KV.Get(csrfIssuedPrefix + current); !ok {
			current = mustNewToken()
			fresh = true
			log.Printf("csrf: token đã xoay theo chu kỳ %s", rotate)
		}
	}

	if fresh {
		if rotate > 0 {
			_ = utils.KV.Set(csrfIssuedPrefix+current, []byte("1"), rotate)
		}
		writeCookie(c, current)
	}
	return current
}

func mustNewToken() string {
	token, err := utils.NewSecureToken()
	if err != nil {
		// NewSecureToken chỉ lỗi khi crypto/rand hỏng; không có nguồn thay thế
		// chấp nhận được cho CSRF nên panic để fail sớm.
		panic(err)
	}
	return token
}

func writeCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	secure := c.Request.TLS != nil
	// MaxAge 0: cookie phiên, mất khi đóng tab
	c.SetCookie(config.App.CSRFCookieName, token, 0, "/", "", secure, false)
}

func stateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// OriginAllowed: danh sách rỗng là mặc định cho phép (có chủ đích);
// host dev cục bộ luôn được chấp nhận.
func OriginAllowed(origin string) bool {
	if len(config.App.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range config.App.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	if u, err := url.Parse(origin); err == nil {
		host := u.Hostname()
		if host == "localhost" || host == "127.0.0.1" {
			return true
		}
	}
	return false
}
