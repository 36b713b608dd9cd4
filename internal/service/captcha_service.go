package service

import (
	"sync"
	"time"

	"github.com/fulfill-next/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 登录验证码服务
// 内存存储，按配置开关生效；关闭时 Verify 直接放行。
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu    sync.Mutex
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// Enabled 判断验证码是否启用
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if !s.Enabled() {
		return nil, ErrCaptchaInvalid
	}

	driver := base64Captcha.NewDriverDigit(
		s.height(),
		s.width(),
		s.length(),
		0.7,
		s.cfg.NoiseCount,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.ensureStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{CaptchaID: id, ImageBase64: b64s}, nil
}

// Verify 校验验证码（一次性，校验后即失效）
func (s *CaptchaService) Verify(captchaID, code string) error {
	if !s.Enabled() {
		return nil
	}
	if captchaID == "" || code == "" {
		return ErrCaptchaInvalid
	}
	if !s.ensureStore().Verify(captchaID, code, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		maxStore := s.cfg.MaxStore
		if maxStore <= 0 {
			maxStore = base64Captcha.GCLimitNumber
		}
		expire := time.Duration(s.cfg.ExpireSeconds) * time.Second
		if expire <= 0 {
			expire = 5 * time.Minute
		}
		s.store = base64Captcha.NewMemoryStore(maxStore, expire)
	}
	return s.store
}

func (s *CaptchaService) length() int {
	if s.cfg.Length > 0 {
		return s.cfg.Length
	}
	return 4
}

func (s *CaptchaService) width() int {
	if s.cfg.Width > 0 {
		return s.cfg.Width
	}
	return 240
}

func (s *CaptchaService) height() int {
	if s.cfg.Height > 0 {
		return s.cfg.Height
	}
	return 80
}
