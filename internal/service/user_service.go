package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fulfill-next/internal/cache"
	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/logger"
	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/repository"
)

// ErrUserLimitReached 商户成员数量达到订阅上限
var ErrUserLimitReached = errors.New("user limit for subscription plan reached")

// UserService 用户管理服务（平台用户与商户成员共用）
type UserService struct {
	userRepo         repository.UserRepository
	merchantRepo     repository.MerchantRepository
	warehouseRepo    repository.WarehouseRepository
	subscriptionRepo repository.SubscriptionRepository
	authService      *AuthService
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo repository.UserRepository, merchantRepo repository.MerchantRepository, warehouseRepo repository.WarehouseRepository, subscriptionRepo repository.SubscriptionRepository, authService *AuthService) *UserService {
	return &UserService{
		userRepo:         userRepo,
		merchantRepo:     merchantRepo,
		warehouseRepo:    warehouseRepo,
		subscriptionRepo: subscriptionRepo,
		authService:      authService,
	}
}

// CreateUserInput 创建用户输入
type CreateUserInput struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role" binding:"required"`
	MerchantID  uint   `json:"merchant_id"`
	WarehouseID uint   `json:"warehouse_id"`
}

// UpdateUserInput 更新用户输入
type UpdateUserInput struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	WarehouseID *uint   `json:"warehouse_id"`
	Status      *string `json:"status"`
}

// CreateUser 创建用户
// 平台管理员可建任意角色；商户管理员只能在本商户内建员工角色。
func (s *UserService) CreateUser(actor Actor, input CreateUserInput) (*models.User, error) {
	role := strings.TrimSpace(input.Role)
	switch role {
	case constants.RolePlatformAdmin:
		if !actor.IsPlatformAdmin() {
			return nil, ErrForbidden
		}
		input.MerchantID = 0
		input.WarehouseID = 0
	case constants.RoleMerchantAdmin, constants.RoleMerchantStaff, constants.RoleWarehouseStaff:
		if input.MerchantID == 0 {
			return nil, ErrRoleInvalid
		}
		if !actor.CanAccessMerchant(input.MerchantID) {
			return nil, ErrForbidden
		}
		if !actor.IsPlatformAdmin() && !actor.IsMerchantAdmin() {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrRoleInvalid
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	if input.MerchantID > 0 {
		merchant, err := s.merchantRepo.GetByID(input.MerchantID)
		if err != nil {
			return nil, err
		}
		if merchant == nil {
			return nil, ErrMerchantNotFound
		}
		if err := s.checkUserLimit(input.MerchantID); err != nil {
			return nil, err
		}
	}
	if role == constants.RoleWarehouseStaff && input.WarehouseID > 0 {
		warehouse, err := s.warehouseRepo.GetByID(input.WarehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil || warehouse.MerchantID != input.MerchantID {
			return nil, ErrWarehouseNotFound
		}
	}

	if err := s.authService.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	hash, err := s.authService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Role:         role,
		MerchantID:   input.MerchantID,
		WarehouseID:  input.WarehouseID,
		Status:       constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	logger.Infow("user_created", "user_id", user.ID, "role", user.Role, "merchant_id", user.MerchantID)
	return user, nil
}

// GetUser 获取用户
func (s *UserService) GetUser(actor Actor, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !actor.IsPlatformAdmin() && user.ID != actor.UserID {
		if user.MerchantID == 0 || user.MerchantID != actor.MerchantID {
			return nil, ErrForbidden
		}
	}
	return user, nil
}

// ListUsers 查询用户列表（非平台管理员限定本商户）
func (s *UserService) ListUsers(actor Actor, filter repository.UserListFilter) ([]models.User, int64, error) {
	if !actor.IsPlatformAdmin() {
		if actor.MerchantID == 0 {
			return nil, 0, ErrForbidden
		}
		filter.MerchantID = actor.MerchantID
	}
	return s.userRepo.List(filter)
}

// UpdateUser 更新用户资料
func (s *UserService) UpdateUser(actor Actor, id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsPlatformAdmin() && !actor.IsMerchantAdmin() {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if input.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*input.DisplayName)
	}
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		if role == constants.RolePlatformAdmin && !actor.IsPlatformAdmin() {
			return nil, ErrForbidden
		}
		switch role {
		case constants.RolePlatformAdmin, constants.RoleMerchantAdmin,
			constants.RoleMerchantStaff, constants.RoleWarehouseStaff:
			updates["role"] = role
		default:
			return nil, ErrRoleInvalid
		}
	}
	if input.WarehouseID != nil {
		if *input.WarehouseID > 0 {
			warehouse, err := s.warehouseRepo.GetByID(*input.WarehouseID)
			if err != nil {
				return nil, err
			}
			if warehouse == nil || warehouse.MerchantID != user.MerchantID {
				return nil, ErrWarehouseNotFound
			}
		}
		updates["warehouse_id"] = *input.WarehouseID
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
			return nil, ErrRoleInvalid
		}
		updates["status"] = status
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.userRepo.Update(id, updates); err != nil {
		return nil, err
	}
	_ = cache.DelUserAuthState(context.Background(), id)
	return s.GetUser(actor, id)
}

// DeleteUser 删除用户（禁止删除自己）
func (s *UserService) DeleteUser(actor Actor, id uint) error {
	if id == actor.UserID {
		return ErrForbidden
	}
	user, err := s.GetUser(actor, id)
	if err != nil {
		return err
	}
	if !actor.IsPlatformAdmin() && !actor.IsMerchantAdmin() {
		return ErrForbidden
	}
	if err := s.userRepo.Delete(user.ID); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(context.Background(), user.ID)
	logger.Infow("user_deleted", "user_id", user.ID, "actor_user_id", actor.UserID)
	return nil
}

// DisableUser 禁用用户并立即失效其令牌
func (s *UserService) DisableUser(actor Actor, id uint) error {
	user, err := s.GetUser(actor, id)
	if err != nil {
		return err
	}
	if !actor.IsPlatformAdmin() && !actor.IsMerchantAdmin() {
		return ErrForbidden
	}
	now := time.Now()
	if err := s.userRepo.Update(user.ID, map[string]interface{}{
		"status":               constants.UserStatusDisabled,
		"token_invalid_before": now,
		"updated_at":           now,
	}); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(context.Background(), user.ID)
	logger.Warnw("user_disabled", "user_id", user.ID, "actor_user_id", actor.UserID)
	return nil
}

// checkUserLimit 校验商户订阅的成员数量上限
func (s *UserService) checkUserLimit(merchantID uint) error {
	subscription, err := s.subscriptionRepo.GetByMerchant(merchantID)
	if err != nil {
		return err
	}
	if subscription == nil || subscription.Plan == nil || subscription.Plan.MaxUsers <= 0 {
		return nil
	}
	count, err := s.userRepo.CountByMerchant(merchantID)
	if err != nil {
		return err
	}
	if count >= int64(subscription.Plan.MaxUsers) {
		return ErrUserLimitReached
	}
	return nil
}
