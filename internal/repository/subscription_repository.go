package repository

import (
	"errors"
	"strings"

	"github.com/fulfill-next/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository 订阅数据访问接口
type SubscriptionRepository interface {
	CreatePlan(plan *models.SubscriptionPlan) error
	GetPlanByID(id uint) (*models.SubscriptionPlan, error)
	GetPlanByCode(code string) (*models.SubscriptionPlan, error)
	ListPlans(activeOnly bool) ([]models.SubscriptionPlan, error)
	UpdatePlan(id uint, updates map[string]interface{}) error
	GetByMerchant(merchantID uint) (*models.Subscription, error)
	Upsert(subscription *models.Subscription) error
}

// GormSubscriptionRepository GORM 实现
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository 创建订阅仓库
func NewSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// CreatePlan 创建订阅套餐
func (r *GormSubscriptionRepository) CreatePlan(plan *models.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

// GetPlanByID 根据 ID 获取套餐
func (r *GormSubscriptionRepository) GetPlanByID(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// GetPlanByCode 根据编码获取套餐
func (r *GormSubscriptionRepository) GetPlanByCode(code string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.Where("code = ?", strings.TrimSpace(code)).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// ListPlans 查询套餐列表
func (r *GormSubscriptionRepository) ListPlans(activeOnly bool) ([]models.SubscriptionPlan, error) {
	query := r.db.Model(&models.SubscriptionPlan{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var plans []models.SubscriptionPlan
	if err := query.Order("monthly_fee ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// UpdatePlan 更新套餐
func (r *GormSubscriptionRepository) UpdatePlan(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.SubscriptionPlan{}).Where("id = ?", id).Updates(updates).Error
}

// GetByMerchant 获取商户当前订阅
func (r *GormSubscriptionRepository) GetByMerchant(merchantID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	if err := r.db.Preload("Plan").Where("merchant_id = ?", merchantID).First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscription, nil
}

// Upsert 创建或替换商户订阅
func (r *GormSubscriptionRepository) Upsert(subscription *models.Subscription) error {
	existing, err := r.GetByMerchant(subscription.MerchantID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(subscription).Error
	}
	subscription.ID = existing.ID
	subscription.CreatedAt = existing.CreatedAt
	return r.db.Save(subscription).Error
}
