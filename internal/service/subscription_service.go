package service

import (
	"strings"
	"time"

	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/logger"
	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/repository"

	"github.com/shopspring/decimal"
)

// SubscriptionService 订阅管理服务（平台侧）
type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	merchantRepo     repository.MerchantRepository
}

// NewSubscriptionService 创建订阅管理服务
func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository, merchantRepo repository.MerchantRepository) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		merchantRepo:     merchantRepo,
	}
}

// CreatePlanInput 创建套餐输入
type CreatePlanInput struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
	MaxOrders     int             `json:"max_orders"`
	MaxUsers      int             `json:"max_users"`
	MaxWarehouses int             `json:"max_warehouses"`
}

// UpdatePlanInput 更新套餐输入
type UpdatePlanInput struct {
	Name          *string          `json:"name"`
	MonthlyFee    *decimal.Decimal `json:"monthly_fee"`
	MaxOrders     *int             `json:"max_orders"`
	MaxUsers      *int             `json:"max_users"`
	MaxWarehouses *int             `json:"max_warehouses"`
	Active        *bool            `json:"active"`
}

// AssignSubscriptionInput 指派商户订阅输入
type AssignSubscriptionInput struct {
	MerchantID uint       `json:"merchant_id" binding:"required"`
	PlanID     uint       `json:"plan_id" binding:"required"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// CreatePlan 创建订阅套餐
func (s *SubscriptionService) CreatePlan(input CreatePlanInput) (*models.SubscriptionPlan, error) {
	code := strings.TrimSpace(input.Code)
	existing, err := s.subscriptionRepo.GetPlanByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPlanCodeExists
	}

	plan := &models.SubscriptionPlan{
		Code:          code,
		Name:          strings.TrimSpace(input.Name),
		MonthlyFee:    models.NewMoneyFromDecimal(input.MonthlyFee),
		MaxOrders:     input.MaxOrders,
		MaxUsers:      input.MaxUsers,
		MaxWarehouses: input.MaxWarehouses,
		Active:        true,
	}
	if err := s.subscriptionRepo.CreatePlan(plan); err != nil {
		return nil, err
	}
	logger.Infow("subscription_plan_created", "plan_id", plan.ID, "code", plan.Code)
	return plan, nil
}

// GetPlan 获取套餐
func (s *SubscriptionService) GetPlan(id uint) (*models.SubscriptionPlan, error) {
	plan, err := s.subscriptionRepo.GetPlanByID(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans 查询套餐列表
func (s *SubscriptionService) ListPlans(activeOnly bool) ([]models.SubscriptionPlan, error) {
	return s.subscriptionRepo.ListPlans(activeOnly)
}

// UpdatePlan 更新套餐
func (s *SubscriptionService) UpdatePlan(id uint, input UpdatePlanInput) (*models.SubscriptionPlan, error) {
	plan, err := s.GetPlan(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.MonthlyFee != nil {
		updates["monthly_fee"] = models.NewMoneyFromDecimal(*input.MonthlyFee)
	}
	if input.MaxOrders != nil {
		updates["max_orders"] = *input.MaxOrders
	}
	if input.MaxUsers != nil {
		updates["max_users"] = *input.MaxUsers
	}
	if input.MaxWarehouses != nil {
		updates["max_warehouses"] = *input.MaxWarehouses
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return plan, nil
	}
	if err := s.subscriptionRepo.UpdatePlan(id, updates); err != nil {
		return nil, err
	}
	return s.GetPlan(id)
}

// AssignSubscription 为商户指派（或切换）订阅套餐
func (s *SubscriptionService) AssignSubscription(input AssignSubscriptionInput) (*models.Subscription, error) {
	merchant, err := s.merchantRepo.GetByID(input.MerchantID)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}
	if _, err := s.GetPlan(input.PlanID); err != nil {
		return nil, err
	}

	subscription := &models.Subscription{
		MerchantID: input.MerchantID,
		PlanID:     input.PlanID,
		Status:     constants.SubscriptionStatusActive,
		StartsAt:   time.Now(),
		ExpiresAt:  input.ExpiresAt,
	}
	if err := s.subscriptionRepo.Upsert(subscription); err != nil {
		return nil, err
	}
	logger.Infow("merchant_subscription_assigned",
		"merchant_id", input.MerchantID,
		"plan_id", input.PlanID,
	)
	return s.subscriptionRepo.GetByMerchant(input.MerchantID)
}

// GetMerchantSubscription 获取商户当前订阅
func (s *SubscriptionService) GetMerchantSubscription(merchantID uint) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetByMerchant(merchantID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, ErrPlanNotFound
	}
	return subscription, nil
}
