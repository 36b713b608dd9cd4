package shared

import (
	"fmt"
	"strings"

	"github.com/fulfill-next/internal/cache"
	"github.com/fulfill-next/internal/config"
	"github.com/fulfill-next/internal/http/response"
	"github.com/fulfill-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 登录 / 会话相关接口
type AuthHandler struct {
	AuthService    *service.AuthService
	CaptchaService *service.CaptchaService
	UserService    *service.UserService
	Security       config.SecurityConfig
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService *service.AuthService, captchaService *service.CaptchaService, userService *service.UserService, security config.SecurityConfig) *AuthHandler {
	return &AuthHandler{
		AuthService:    authService,
		CaptchaService: captchaService,
		UserService:    userService,
		Security:       security,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

var loginErrorRules = []MappedHandlerError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized},
	{Target: service.ErrUserDisabled, Code: response.CodeForbidden},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest},
}

var changePasswordErrorRules = []MappedHandlerError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeBadRequest},
	{Target: service.ErrPasswordTooWeak, Code: response.CodeBadRequest},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound},
}

// Captcha 下发图片验证码挑战
func (h *AuthHandler) Captcha(c *gin.Context) {
	if !h.CaptchaService.Enabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		RequestLog(c).Errorw("captcha_generate_failed", "error", err)
		response.Internal(c, "captcha generation failed")
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// Login 账号密码登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	identifier := fmt.Sprintf("%s:%s", c.ClientIP(), email)

	rl := h.Security.LoginRateLimit
	result, err := cache.CheckLoginRateLimit(c.Request.Context(), identifier, rl.MaxAttempts, rl.WindowSeconds, rl.BlockSeconds)
	if err != nil {
		RequestLog(c).Warnw("login_rate_limit_check_failed", "error", err)
	} else if !result.Allowed {
		RequestLog(c).Warnw("login_rate_limited", "identifier", identifier, "attempts", result.Attempts)
		response.TooManyRequests(c, "too many login attempts, try again later")
		return
	}

	if err := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode); err != nil {
		RespondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "login failed")
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "login failed")
		return
	}
	cache.ResetLoginRateLimit(c.Request.Context(), identifier)

	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

// Me 返回当前登录用户
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := CurrentActor(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetUser(actor, actor.UserID)
	if err != nil {
		RespondWithMappedError(c, err, changePasswordErrorRules, response.CodeInternal, "profile fetch failed")
		return
	}
	response.Success(c, user)
}

// ChangePassword 修改当前用户密码（修改后旧令牌全部失效）
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := CurrentActor(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	if err := h.AuthService.ChangePassword(actor.UserID, req.OldPassword, req.NewPassword); err != nil {
		RespondWithMappedError(c, err, changePasswordErrorRules, response.CodeInternal, "password change failed")
		return
	}
	response.SuccessWithMsg(c, "password changed", nil)
}
