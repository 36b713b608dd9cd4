package repository

import (
	"errors"
	"strings"

	"github.com/fulfill-next/internal/models"

	"gorm.io/gorm"
)

// StockRepository 库存数据访问接口
type StockRepository interface {
	GetByID(id uint) (*models.StockItem, error)
	GetByProductWarehouse(productID, warehouseID uint) (*models.StockItem, error)
	ListByProduct(productID uint) ([]models.StockItem, error)
	ListByMerchant(merchantID uint, page, pageSize int) ([]models.StockItem, int64, error)
	ListLowStock(merchantID uint) ([]models.StockItem, error)
	CountByWarehouse(warehouseID uint) (int64, error)
	Create(item *models.StockItem) error
	UpdateQuantities(id uint, updates map[string]interface{}) error
	CreateMovement(movement *models.StockMovement) error
	ListMovements(filter StockMovementListFilter) ([]models.StockMovement, int64, error)
	WithTx(tx *gorm.DB) *GormStockRepository
}

// GormStockRepository GORM 实现
type GormStockRepository struct {
	db *gorm.DB
}

// NewStockRepository 创建库存仓库
func NewStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStockRepository) WithTx(tx *gorm.DB) *GormStockRepository {
	if tx == nil {
		return r
	}
	return &GormStockRepository{db: tx}
}

// GetByID 根据 ID 获取库存行
func (r *GormStockRepository) GetByID(id uint) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByProductWarehouse 获取商品在指定仓库的库存行
func (r *GormStockRepository) GetByProductWarehouse(productID, warehouseID uint) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByProduct 获取商品在所有仓库的库存行
func (r *GormStockRepository) ListByProduct(productID uint) ([]models.StockItem, error) {
	var items []models.StockItem
	if err := r.db.Where("product_id = ?", productID).Order("warehouse_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListByMerchant 分页查询商户库存
func (r *GormStockRepository) ListByMerchant(merchantID uint, page, pageSize int) ([]models.StockItem, int64, error) {
	query := r.db.Model(&models.StockItem{}).Where("merchant_id = ?", merchantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.StockItem
	query = applyPagination(query.Order("product_id ASC, warehouse_id ASC"), page, pageSize)
	if err := query.Preload("Product").Preload("Warehouse").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListLowStock 查询可售库存不高于补货阈值的库存行
func (r *GormStockRepository) ListLowStock(merchantID uint) ([]models.StockItem, error) {
	var items []models.StockItem
	err := r.db.Where("merchant_id = ? AND reorder_level > 0 AND available_quantity <= reorder_level", merchantID).
		Preload("Product").Preload("Warehouse").
		Order("available_quantity ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CountByWarehouse 统计仓库内仍有库存的行数
func (r *GormStockRepository) CountByWarehouse(warehouseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.StockItem{}).
		Where("warehouse_id = ? AND quantity > 0", warehouseID).
		Count(&count).Error
	return count, err
}

// Create 创建库存行
func (r *GormStockRepository) Create(item *models.StockItem) error {
	return r.db.Create(item).Error
}

// UpdateQuantities 更新库存数量字段
func (r *GormStockRepository) UpdateQuantities(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.StockItem{}).Where("id = ?", id).Updates(updates).Error
}

// CreateMovement 追加库存流水
func (r *GormStockRepository) CreateMovement(movement *models.StockMovement) error {
	return r.db.Create(movement).Error
}

// ListMovements 查询库存流水
func (r *GormStockRepository) ListMovements(filter StockMovementListFilter) ([]models.StockMovement, int64, error) {
	query := r.db.Model(&models.StockMovement{})
	if filter.StockItemID > 0 {
		query = query.Where("stock_item_id = ?", filter.StockItemID)
	}
	if movementType := strings.TrimSpace(filter.MovementType); movementType != "" {
		query = query.Where("movement_type = ?", movementType)
	}
	if referenceType := strings.TrimSpace(filter.ReferenceType); referenceType != "" {
		query = query.Where("reference_type = ?", referenceType)
	}
	if filter.ReferenceID > 0 {
		query = query.Where("reference_id = ?", filter.ReferenceID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []models.StockMovement
	query = applyPagination(query.Order("created_at DESC, id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
