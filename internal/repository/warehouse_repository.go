package repository

import (
	"errors"
	"strings"

	"github.com/fulfill-next/internal/models"

	"gorm.io/gorm"
)

// WarehouseRepository 仓库数据访问接口
type WarehouseRepository interface {
	Create(warehouse *models.Warehouse) error
	GetByID(id uint) (*models.Warehouse, error)
	GetByCode(merchantID uint, code string) (*models.Warehouse, error)
	ListByMerchant(merchantID uint) ([]models.Warehouse, error)
	Update(id uint, updates map[string]interface{}) error
	Delete(id uint) error
}

// GormWarehouseRepository GORM 实现
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewWarehouseRepository 创建仓库数据仓库
func NewWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// Create 创建仓库
func (r *GormWarehouseRepository) Create(warehouse *models.Warehouse) error {
	return r.db.Create(warehouse).Error
}

// GetByID 根据 ID 获取仓库
func (r *GormWarehouseRepository) GetByID(id uint) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &warehouse, nil
}

// GetByCode 根据商户与编码获取仓库
func (r *GormWarehouseRepository) GetByCode(merchantID uint, code string) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.Where("merchant_id = ? AND code = ?", merchantID, strings.TrimSpace(code)).First(&warehouse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &warehouse, nil
}

// ListByMerchant 查询商户全部仓库
func (r *GormWarehouseRepository) ListByMerchant(merchantID uint) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	if err := r.db.Where("merchant_id = ?", merchantID).Order("code ASC").Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// Update 更新仓库
func (r *GormWarehouseRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Warehouse{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 软删除仓库
func (r *GormWarehouseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Warehouse{}, id).Error
}

// LogisticsPartnerRepository 物流商数据访问接口
type LogisticsPartnerRepository interface {
	Create(partner *models.LogisticsPartner) error
	GetByID(id uint) (*models.LogisticsPartner, error)
	ListByMerchant(merchantID uint) ([]models.LogisticsPartner, error)
	Update(id uint, updates map[string]interface{}) error
	Delete(id uint) error
}

// GormLogisticsPartnerRepository GORM 实现
type GormLogisticsPartnerRepository struct {
	db *gorm.DB
}

// NewLogisticsPartnerRepository 创建物流商仓库
func NewLogisticsPartnerRepository(db *gorm.DB) *GormLogisticsPartnerRepository {
	return &GormLogisticsPartnerRepository{db: db}
}

// Create 创建物流商
func (r *GormLogisticsPartnerRepository) Create(partner *models.LogisticsPartner) error {
	return r.db.Create(partner).Error
}

// GetByID 根据 ID 获取物流商
func (r *GormLogisticsPartnerRepository) GetByID(id uint) (*models.LogisticsPartner, error) {
	var partner models.LogisticsPartner
	if err := r.db.First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// ListByMerchant 查询商户全部物流商
func (r *GormLogisticsPartnerRepository) ListByMerchant(merchantID uint) ([]models.LogisticsPartner, error) {
	var partners []models.LogisticsPartner
	if err := r.db.Where("merchant_id = ?", merchantID).Order("code ASC").Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// Update 更新物流商
func (r *GormLogisticsPartnerRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.LogisticsPartner{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 软删除物流商
func (r *GormLogisticsPartnerRepository) Delete(id uint) error {
	return r.db.Delete(&models.LogisticsPartner{}, id).Error
}
