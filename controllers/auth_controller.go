package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"

	"github.com/vnkhanh/eventcall-server/config"
	"github.com/vnkhanh/eventcall-server/middleware"
	"github.com/vnkhanh/eventcall-server/models"
	"github.com/vnkhanh/eventcall-server/utils"
)

type DangKyReq struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

// Register tạo manager mới và trả master code đúng một lần.
// DB chỉ giữ bcrypt hash của code.
func Register(c *gin.Context) {
	var req DangKyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.ErrInvalidEmail.Error()})
		return
	}

	var count int64
	config.DB.Model(&models.Manager{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Email đã tồn tại"})
		return
	}

	manager, masterCode, err := registerManager(email, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo tài khoản"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"manager":     managerPublic(manager),
		"master_code": masterCode, // chỉ trả ở đây, không bao giờ đọc lại được
	})
}

// registerManager sinh id, master code và ghi bản ghi manager.
// Trả về code gốc để hiển thị một lần.
func registerManager(email, name string) (*models.Manager, string, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = utils.DisplayNameFromEmail(email)
	}

	masterCode := utils.GenerateCode(models.CodeKindMaster)
	hash, err := utils.HashCode(masterCode)
	if err != nil {
		return nil, "", err
	}

	m := models.Manager{
		ID:             utils.NewManagerID(),
		Email:          email,
		DisplayName:    name,
		MasterCodeHash: hash,
		Role:           "manager",
	}
	m.SetAuthorizedEvents([]string{})

	if err := config.DB.Create(&m).Error; err != nil {
		return nil, "", err
	}
	return &m, masterCode, nil
}

type DangNhapReq struct {
	Email      string `json:"email" binding:"required"`
	AccessCode string `json:"access_code" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// Login xác thực bằng mã truy cập. Phạm vi phiên phụ thuộc loại mã:
// master = toàn bộ sự kiện của manager, event/invite = đúng một sự kiện.
func Login(c *gin.Context) {
	var req DangNhapReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.ErrInvalidEmail.Error()})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.AccessCode))
	kind, ok := utils.CodeKindOf(code)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": models.ErrInvalidCode.Error()})
		return
	}

	var (
		manager *models.Manager
		events  []string
		err     error
	)
	switch kind {
	case models.CodeKindMaster:
		manager, events, err = loginWithMasterCode(email, code)
	case models.CodeKindEvent:
		manager, events, err = loginWithEventCode(email, code)
	case models.CodeKindInvite:
		manager, events, err = loginWithInviteCode(email, code)
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": models.ErrInvalidCode.Error()})
		return
	}

	token, err := utils.NewSecureToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo phiên"})
		return
	}

	session := utils.NewSession(manager, kind, events, token)
	if err := utils.SaveSession(session, req.RememberMe); err != nil {
		log.Printf("login: không lưu được phiên: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": models.ErrBackendUnavailable.Error()})
		return
	}

	now := time.Now()
	config.DB.Model(&models.Manager{}).Where("id = ?", manager.ID).Update("last_login", now)

	jwtToken, err := utils.GenerateToken(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   jwtToken,
		"manager": managerPublic(manager),
		"session": gin.H{
			"code_kind":         session.CodeKind,
			"authorized_events": session.AuthorizedEvents,
			"login_time":        session.LoginTime,
			"expires_at":        session.ExpiresAt,
		},
	})
}

func loginWithMasterCode(email, code string) (*models.Manager, []string, error) {
	var m models.Manager
	if err := config.DB.First(&m, "email = ?", email).Error; err != nil {
		return nil, nil, models.ErrInvalidCode
	}
	if !utils.VerifyCode(m.MasterCodeHash, code) {
		return nil, nil, models.ErrInvalidCode
	}
	return &m, m.AuthorizedEvents(), nil
}

// loginWithEventCode: event code cấp cho (email, event) cụ thể; chỉ lưu hash
// nên phải duyệt các code của email đó và so bcrypt từng cái.
func loginWithEventCode(email, code string) (*models.Manager, []string, error) {
	var codes []models.EventCode
	if err := config.DB.Where("email = ?", email).Find(&codes).Error; err != nil {
		return nil, nil, models.ErrInvalidCode
	}
	var eventID string
	for _, ec := range codes {
		if utils.VerifyCode(ec.CodeHash, code) {
			eventID = ec.EventID
			break
		}
	}
	if eventID == "" {
		return nil, nil, models.ErrInvalidCode
	}

	var m models.Manager
	if err := config.DB.First(&m, "email = ?", email).Error; err != nil {
		return nil, nil, models.ErrInvalidCode
	}
	return &m, []string{eventID}, nil
}

// loginWithInviteCode: chấp nhận lời mời lần đầu sẽ đăng ký manager nếu cần
// và thêm sự kiện vào authorized_events của họ.
func loginWithInviteCode(email, code string) (*models.Manager, []string, error) {
	var invite models.Invite
	if err := config.DB.First(&invite, "code = ?", code).Error; err != nil {
		return nil, nil, models.ErrInvalidCode
	}
	if invite.Expired(time.Now()) {
		return nil, nil, models.ErrInvalidCode
	}
	// Lời mời đã có người khác nhận thì không dùng lại được
	if invite.Status == "accepted" && invite.AcceptedBy != nil && *invite.AcceptedBy != email {
		return nil, nil, models.ErrInvalidCode
	}

	var m models.Manager
	if err := config.DB.First(&m, "email = ?", email).Error; err != nil {
		created, _, regErr := registerManager(email, "")
		if regErr != nil {
			return nil, nil, models.ErrInvalidCode
		}
		m = *created
	}

	m.AddAuthorizedEvent(invite.EventID)
	if err := config.DB.Model(&models.Manager{}).Where("id = ?", m.ID).
		Update("authorized_events", m.EventsJSON).Error; err != nil {
		return nil, nil, models.ErrInvalidCode
	}

	if invite.Status != "accepted" {
		config.DB.Model(&models.Invite{}).Where("code = ?", invite.Code).
			Updates(map[string]interface{}{"status": "accepted", "accepted_by": email})
	}

	return &m, []string{invite.EventID}, nil
}

// Logout xoá phiên khỏi kv store. Gọi lặp lại vô hại: token không còn
// cũng trả về thành công.
func Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		if claims, err := utils.VerifyToken(strings.TrimSpace(authHeader[7:])); err == nil {
			utils.DropSession(claims.SessionToken)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã đăng xuất"})
}

// Me khôi phục phiên từ bearer token (AuthSession đã làm việc nặng).
func Me(c *gin.Context) {
	session := c.MustGet(middleware.CtxSession).(models.Session)
	manager := c.MustGet(middleware.CtxManager).(models.Manager)

	c.JSON(http.StatusOK, gin.H{
		"manager": managerPublic(&manager),
		"session": gin.H{
			"code_kind":         session.CodeKind,
			"authorized_events": session.AuthorizedEvents,
			"login_time":        session.LoginTime,
			"expires_at":        session.ExpiresAt,
		},
	})
}

type GoogleLoginReq struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLoginHandler: đăng nhập manager bằng Google ID token; tài khoản mới
// được đăng ký ngầm và nhận master code trong response (một lần duy nhất).
func GoogleLoginHandler(c *gin.Context) {
	var req GoogleLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, config.App.GoogleClientID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Google token không hợp lệ"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	email = utils.NormalizeEmail(email)
	if !utils.ValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.ErrInvalidEmail.Error()})
		return
	}
	name, _ := payload.Claims["name"].(string)

	var masterCode string
	var manager models.Manager
	if err := config.DB.First(&manager, "email = ?", email).Error; err != nil {
		created, code, regErr := registerManager(email, name)
		if regErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo tài khoản"})
			return
		}
		manager = *created
		masterCode = code
	}

	token, err := utils.NewSecureToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo phiên"})
		return
	}
	session := utils.NewSession(&manager, models.CodeKindMaster, manager.AuthorizedEvents(), token)
	if err := utils.SaveSession(session, false); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": models.ErrBackendUnavailable.Error()})
		return
	}

	now := time.Now()
	config.DB.Model(&models.Manager{}).Where("id = ?", manager.ID).Update("last_login", now)

	jwtToken, err := utils.GenerateToken(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Không thể tạo token"})
		return
	}

	resp := gin.H{
		"token":   jwtToken,
		"manager": managerPublic(&manager),
	}
	if masterCode != "" {
		resp["master_code"] = masterCode
	}
	c.JSON(http.StatusOK, resp)
}

// GetCSRFToken: bootstrap cho client double-submit — trả token hiện tại,
// cookie đã được middleware ghi kèm.
func GetCSRFToken(c *gin.Context) {
	token := c.GetString(middleware.CtxCSRFToken)
	c.JSON(http.StatusOK, gin.H{"csrf_token": token})
}

func managerPublic(m *models.Manager) gin.H {
	return gin.H{
		"id":                m.ID,
		"email":             m.Email,
		"display_name":      m.DisplayName,
		"role":              m.Role,
		"authorized_events": m.AuthorizedEvents(),
		"created_at":        m.CreatedAt,
		"last_login":        m.LastLogin,
	}
}
