package repository

import (
	"errors"
	"strings"

	"github.com/fulfill-next/internal/models"

	"gorm.io/gorm"
)

// MerchantRepository 商户数据访问接口
type MerchantRepository interface {
	Create(merchant *models.Merchant) error
	GetByID(id uint) (*models.Merchant, error)
	GetByCode(code string) (*models.Merchant, error)
	List(filter MerchantListFilter) ([]models.Merchant, int64, error)
	Update(id uint, updates map[string]interface{}) error
}

// GormMerchantRepository GORM 实现
type GormMerchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository 创建商户仓库
func NewMerchantRepository(db *gorm.DB) *GormMerchantRepository {
	return &GormMerchantRepository{db: db}
}

// Create 创建商户
func (r *GormMerchantRepository) Create(merchant *models.Merchant) error {
	return r.db.Create(merchant).Error
}

// GetByID 根据 ID 获取商户
func (r *GormMerchantRepository) GetByID(id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.Preload("Subscription").Preload("Subscription.Plan").First(&merchant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

// GetByCode 根据编码获取商户
func (r *GormMerchantRepository) GetByCode(code string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.Where("code = ?", strings.TrimSpace(code)).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &merchant, nil
}

// List 分页查询商户
func (r *GormMerchantRepository) List(filter MerchantListFilter) ([]models.Merchant, int64, error) {
	query := r.db.Model(&models.Merchant{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("code LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var merchants []models.Merchant
	query = applyPagination(query.Order("created_at DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&merchants).Error; err != nil {
		return nil, 0, err
	}
	return merchants, total, nil
}

// Update 更新商户
func (r *GormMerchantRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Merchant{}).Where("id = ?", id).Updates(updates).Error
}
