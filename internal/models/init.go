package models

import (
	"strings"

	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultPlatformAdmin 初始化默认平台管理员账号
func InitDefaultPlatformAdmin(email, password string) error {
	var count int64
	DB.Model(&User{}).Where("role = ?", constants.RolePlatformAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	if email == "" {
		email = "admin@fulfill.local"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		DisplayName:  "Platform Admin",
		Role:         constants.RolePlatformAdmin,
		Status:       constants.UserStatusActive,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_platform_admin_created_with_default_password", "email", admin.Email)
		logger.Warnw("default_platform_admin_password_change_required", "email", admin.Email)
	} else {
		logger.Warnw("default_platform_admin_created", "email", admin.Email, "password_hidden", true)
	}
	return nil
}
