package service

import (
	"strings"

	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/logger"
	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/repository"
)

// MerchantService 商户管理服务（平台侧）
type MerchantService struct {
	merchantRepo repository.MerchantRepository
}

// NewMerchantService 创建商户管理服务
func NewMerchantService(merchantRepo repository.MerchantRepository) *MerchantService {
	return &MerchantService{merchantRepo: merchantRepo}
}

// CreateMerchantInput 创建商户输入
type CreateMerchantInput struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

// UpdateMerchantInput 更新商户输入
type UpdateMerchantInput struct {
	Name         *string `json:"name"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Status       *string `json:"status"`
}

// CreateMerchant 创建商户
func (s *MerchantService) CreateMerchant(input CreateMerchantInput) (*models.Merchant, error) {
	code := strings.TrimSpace(input.Code)
	existing, err := s.merchantRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMerchantCodeExists
	}

	merchant := &models.Merchant{
		Code:         code,
		Name:         strings.TrimSpace(input.Name),
		ContactName:  strings.TrimSpace(input.ContactName),
		ContactEmail: strings.ToLower(strings.TrimSpace(input.ContactEmail)),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		Status:       constants.MerchantStatusActive,
	}
	if err := s.merchantRepo.Create(merchant); err != nil {
		return nil, err
	}
	logger.Infow("merchant_created", "merchant_id", merchant.ID, "code", merchant.Code)
	return merchant, nil
}

// GetMerchant 获取商户详情（含当前订阅）
func (s *MerchantService) GetMerchant(id uint) (*models.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}
	return merchant, nil
}

// ListMerchants 查询商户列表
func (s *MerchantService) ListMerchants(filter repository.MerchantListFilter) ([]models.Merchant, int64, error) {
	return s.merchantRepo.List(filter)
}

// UpdateMerchant 更新商户资料
func (s *MerchantService) UpdateMerchant(id uint, input UpdateMerchantInput) (*models.Merchant, error) {
	merchant, err := s.GetMerchant(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.ContactName != nil {
		updates["contact_name"] = strings.TrimSpace(*input.ContactName)
	}
	if input.ContactEmail != nil {
		updates["contact_email"] = strings.ToLower(strings.TrimSpace(*input.ContactEmail))
	}
	if input.ContactPhone != nil {
		updates["contact_phone"] = strings.TrimSpace(*input.ContactPhone)
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if status != constants.MerchantStatusActive && status != constants.MerchantStatusSuspended {
			return nil, ErrMerchantStatusInvalid
		}
		updates["status"] = status
	}
	if len(updates) == 0 {
		return merchant, nil
	}
	if err := s.merchantRepo.Update(id, updates); err != nil {
		return nil, err
	}
	return s.GetMerchant(id)
}

// SuspendMerchant 暂停商户
func (s *MerchantService) SuspendMerchant(id uint) (*models.Merchant, error) {
	if _, err := s.GetMerchant(id); err != nil {
		return nil, err
	}
	if err := s.merchantRepo.Update(id, map[string]interface{}{"status": constants.MerchantStatusSuspended}); err != nil {
		return nil, err
	}
	logger.Warnw("merchant_suspended", "merchant_id", id)
	return s.GetMerchant(id)
}

// ActivateMerchant 恢复商户
func (s *MerchantService) ActivateMerchant(id uint) (*models.Merchant, error) {
	if _, err := s.GetMerchant(id); err != nil {
		return nil, err
	}
	if err := s.merchantRepo.Update(id, map[string]interface{}{"status": constants.MerchantStatusActive}); err != nil {
		return nil, err
	}
	logger.Infow("merchant_activated", "merchant_id", id)
	return s.GetMerchant(id)
}
