package service

import (
	"strings"

	"github.com/fulfill-next/internal/logger"
	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/repository"
)

// WarehouseService 仓库与物流商管理服务
type WarehouseService struct {
	warehouseRepo repository.WarehouseRepository
	partnerRepo   repository.LogisticsPartnerRepository
	stockRepo     repository.StockRepository
}

// NewWarehouseService 创建仓库管理服务
func NewWarehouseService(warehouseRepo repository.WarehouseRepository, partnerRepo repository.LogisticsPartnerRepository, stockRepo repository.StockRepository) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		partnerRepo:   partnerRepo,
		stockRepo:     stockRepo,
	}
}

// CreateWarehouseInput 创建仓库输入
type CreateWarehouseInput struct {
	MerchantID uint
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// UpdateWarehouseInput 更新仓库输入
type UpdateWarehouseInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Country *string `json:"country"`
	Active  *bool   `json:"active"`
}

// CreateWarehouse 创建仓库
func (s *WarehouseService) CreateWarehouse(actor Actor, input CreateWarehouseInput) (*models.Warehouse, error) {
	if !actor.CanAccessMerchant(input.MerchantID) {
		return nil, ErrForbidden
	}
	code := strings.TrimSpace(input.Code)
	existing, err := s.warehouseRepo.GetByCode(input.MerchantID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrWarehouseCodeExists
	}

	warehouse := &models.Warehouse{
		MerchantID: input.MerchantID,
		Code:       code,
		Name:       strings.TrimSpace(input.Name),
		Address:    strings.TrimSpace(input.Address),
		City:       strings.TrimSpace(input.City),
		Country:    strings.TrimSpace(input.Country),
		Active:     true,
	}
	if err := s.warehouseRepo.Create(warehouse); err != nil {
		return nil, err
	}
	logger.Infow("warehouse_created", "warehouse_id", warehouse.ID, "merchant_id", warehouse.MerchantID, "code", warehouse.Code)
	return warehouse, nil
}

// GetWarehouse 获取仓库
func (s *WarehouseService) GetWarehouse(actor Actor, id uint) (*models.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, ErrWarehouseNotFound
	}
	if !actor.CanAccessMerchant(warehouse.MerchantID) {
		return nil, ErrForbidden
	}
	return warehouse, nil
}

// ListWarehouses 查询商户仓库
func (s *WarehouseService) ListWarehouses(actor Actor, merchantID uint) ([]models.Warehouse, error) {
	if !actor.CanAccessMerchant(merchantID) {
		return nil, ErrForbidden
	}
	return s.warehouseRepo.ListByMerchant(merchantID)
}

// UpdateWarehouse 更新仓库
func (s *WarehouseService) UpdateWarehouse(actor Actor, id uint, input UpdateWarehouseInput) (*models.Warehouse, error) {
	warehouse, err := s.GetWarehouse(actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		updates["city"] = strings.TrimSpace(*input.City)
	}
	if input.Country != nil {
		updates["country"] = strings.TrimSpace(*input.Country)
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return warehouse, nil
	}
	if err := s.warehouseRepo.Update(id, updates); err != nil {
		return nil, err
	}
	return s.GetWarehouse(actor, id)
}

// DeleteWarehouse 删除仓库
// 仓库内仍有实物库存时拒绝删除。
func (s *WarehouseService) DeleteWarehouse(actor Actor, id uint) error {
	warehouse, err := s.GetWarehouse(actor, id)
	if err != nil {
		return err
	}
	count, err := s.stockRepo.CountByWarehouse(warehouse.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrWarehouseHasStock
	}
	if err := s.warehouseRepo.Delete(warehouse.ID); err != nil {
		return err
	}
	logger.Infow("warehouse_deleted", "warehouse_id", warehouse.ID, "merchant_id", warehouse.MerchantID)
	return nil
}

// CreateLogisticsPartnerInput 创建物流商输入
type CreateLogisticsPartnerInput struct {
	MerchantID          uint
	Code                string `json:"code" binding:"required"`
	Name                string `json:"name" binding:"required"`
	TrackingURLTemplate string `json:"tracking_url_template"`
	ContactPhone        string `json:"contact_phone"`
}

// UpdateLogisticsPartnerInput 更新物流商输入
type UpdateLogisticsPartnerInput struct {
	Name                *string `json:"name"`
	TrackingURLTemplate *string `json:"tracking_url_template"`
	ContactPhone        *string `json:"contact_phone"`
	Active              *bool   `json:"active"`
}

// CreateLogisticsPartner 创建物流商
func (s *WarehouseService) CreateLogisticsPartner(actor Actor, input CreateLogisticsPartnerInput) (*models.LogisticsPartner, error) {
	if !actor.CanAccessMerchant(input.MerchantID) {
		return nil, ErrForbidden
	}
	partner := &models.LogisticsPartner{
		MerchantID:          input.MerchantID,
		Code:                strings.TrimSpace(input.Code),
		Name:                strings.TrimSpace(input.Name),
		TrackingURLTemplate: strings.TrimSpace(input.TrackingURLTemplate),
		ContactPhone:        strings.TrimSpace(input.ContactPhone),
		Active:              true,
	}
	if err := s.partnerRepo.Create(partner); err != nil {
		return nil, err
	}
	logger.Infow("logistics_partner_created", "partner_id", partner.ID, "merchant_id", partner.MerchantID)
	return partner, nil
}

// GetLogisticsPartner 获取物流商
func (s *WarehouseService) GetLogisticsPartner(actor Actor, id uint) (*models.LogisticsPartner, error) {
	partner, err := s.partnerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrLogisticsPartnerNotFound
	}
	if !actor.CanAccessMerchant(partner.MerchantID) {
		return nil, ErrForbidden
	}
	return partner, nil
}

// ListLogisticsPartners 查询商户物流商
func (s *WarehouseService) ListLogisticsPartners(actor Actor, merchantID uint) ([]models.LogisticsPartner, error) {
	if !actor.CanAccessMerchant(merchantID) {
		return nil, ErrForbidden
	}
	return s.partnerRepo.ListByMerchant(merchantID)
}

// UpdateLogisticsPartner 更新物流商
func (s *WarehouseService) UpdateLogisticsPartner(actor Actor, id uint, input UpdateLogisticsPartnerInput) (*models.LogisticsPartner, error) {
	partner, err := s.GetLogisticsPartner(actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.TrackingURLTemplate != nil {
		updates["tracking_url_template"] = strings.TrimSpace(*input.TrackingURLTemplate)
	}
	if input.ContactPhone != nil {
		updates["contact_phone"] = strings.TrimSpace(*input.ContactPhone)
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return partner, nil
	}
	if err := s.partnerRepo.Update(id, updates); err != nil {
		return nil, err
	}
	return s.GetLogisticsPartner(actor, id)
}

// DeleteLogisticsPartner 删除物流商
func (s *WarehouseService) DeleteLogisticsPartner(actor Actor, id uint) error {
	partner, err := s.GetLogisticsPartner(actor, id)
	if err != nil {
		return err
	}
	return s.partnerRepo.Delete(partner.ID)
}
