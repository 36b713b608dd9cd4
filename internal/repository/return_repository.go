package repository

import (
	"errors"
	"strings"

	"github.com/fulfill-next/internal/models"

	"gorm.io/gorm"
)

// ReturnRepository 退货数据访问接口
type ReturnRepository interface {
	Create(ret *models.Return, items []models.ReturnItem) error
	GetByID(id uint) (*models.Return, error)
	List(filter ReturnListFilter) ([]models.Return, int64, error)
	UpdateStatusVersioned(id uint, fromVersion int, updates map[string]interface{}) (int64, error)
	SumReturnedQuantities(orderID uint) (map[uint]int, error)
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormReturnRepository
}

// GormReturnRepository GORM 实现
type GormReturnRepository struct {
	db *gorm.DB
}

// NewReturnRepository 创建退货仓库
func NewReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReturnRepository) WithTx(tx *gorm.DB) *GormReturnRepository {
	if tx == nil {
		return r
	}
	return &GormReturnRepository{db: tx}
}

// Create 创建退货单与退货明细
func (r *GormReturnRepository) Create(ret *models.Return, items []models.ReturnItem) error {
	if err := r.db.Create(ret).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ReturnID = ret.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取退货单
func (r *GormReturnRepository) GetByID(id uint) (*models.Return, error) {
	var ret models.Return
	if err := r.db.Preload("Items").First(&ret, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

// List 查询退货列表
func (r *GormReturnRepository) List(filter ReturnListFilter) ([]models.Return, int64, error) {
	query := r.db.Model(&models.Return{})
	if filter.MerchantID > 0 {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.OrderID > 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if returnNo := strings.TrimSpace(filter.ReturnNo); returnNo != "" {
		query = query.Where("return_no = ?", returnNo)
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

	var returns []models.Return
	query = applyPagination(query.Order("created_at DESC"), filter.Page, filter.PageSize)
	if err := query.Preload("Items").Find(&returns).Error; err != nil {
		return nil, 0, err
	}
	return returns, total, nil
}

// UpdateStatusVersioned 带乐观锁版本校验的退货单更新
// 返回受影响行数；0 行表示版本冲突或退货单不存在。
func (r *GormReturnRepository) UpdateStatusVersioned(id uint, fromVersion int, updates map[string]interface{}) (int64, error) {
	updates["version"] = fromVersion + 1
	result := r.db.Model(&models.Return{}).
		Where("id = ? AND version = ?", id, fromVersion).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SumReturnedQuantities 汇总某订单已申请退货的数量（按订单项）
// 已拒绝的退货单不占用额度。
func (r *GormReturnRepository) SumReturnedQuantities(orderID uint) (map[uint]int, error) {
	var rows []struct {
		OrderItemID uint
		Total       int
	}
	err := r.db.Model(&models.ReturnItem{}).
		Select("return_items.order_item_id AS order_item_id, SUM(return_items.quantity) AS total").
		Joins("JOIN returns ON returns.id = return_items.return_id").
		Where("returns.order_id = ? AND returns.status <> ? AND returns.deleted_at IS NULL", orderID, "rejected").
		Group("return_items.order_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[uint]int, len(rows))
	for _, row := range rows {
		result[row.OrderItemID] = row.Total
	}
	return result, nil
}

// Delete 软删除退货单
func (r *GormReturnRepository) Delete(id uint) error {
	return r.db.Delete(&models.Return{}, id).Error
}
