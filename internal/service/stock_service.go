package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/repository"

	"gorm.io/gorm"
)

// StockService 库存服务
type StockService struct {
	stockRepo     repository.StockRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	auditService  *AuditService
}

// NewStockService 创建库存服务
func NewStockService(stockRepo repository.StockRepository, productRepo repository.ProductRepository, warehouseRepo repository.WarehouseRepository, auditService *AuditService) *StockService {
	return &StockService{
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		auditService:  auditService,
	}
}

// AdjustStockInput 库存调整输入
type AdjustStockInput struct {
	StockItemID   uint
	Delta         int
	MovementType  string
	ReferenceType string
	ReferenceID   uint
	ActorUserID   uint
	Note          string
}

// AdjustStock 库存调整原语
// 对 quantity 与 available_quantity 同步应用带符号增量，并追加恰好一条库存流水。
// 不做非负校验，增量合法性由调用方负责。
func (s *StockService) AdjustStock(tx *gorm.DB, input AdjustStockInput) (*models.StockItem, error) {
	if input.Delta == 0 || strings.TrimSpace(input.MovementType) == "" {
		return nil, ErrStockAdjustInvalid
	}
	repo := s.stockRepo
	if tx != nil {
		repo = s.stockRepo.WithTx(tx)
	}

	item, err := repo.GetByID(input.StockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrStockItemNotFound
	}

	now := time.Now()
	updates := map[string]interface{}{
		"quantity":           item.Quantity + input.Delta,
		"available_quantity": item.AvailableQuantity + input.Delta,
		"updated_at":         now,
	}
	if err := repo.UpdateQuantities(item.ID, updates); err != nil {
		return nil, err
	}

	movement := &models.StockMovement{
		StockItemID:   item.ID,
		MovementType:  input.MovementType,
		Quantity:      input.Delta,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		ActorUserID:   input.ActorUserID,
		Note:          strings.TrimSpace(input.Note),
		CreatedAt:     now,
	}
	if err := repo.CreateMovement(movement); err != nil {
		return nil, err
	}

	item.Quantity += input.Delta
	item.AvailableQuantity += input.Delta
	item.UpdatedAt = now
	return item, nil
}

// ManualAdjustInput 手工库存调整输入
type ManualAdjustInput struct {
	StockItemID uint
	Delta       int
	Note        string
	RequestID   string
}

// ManualAdjust 商户后台手工调整库存
func (s *StockService) ManualAdjust(actor Actor, input ManualAdjustInput) (*models.StockItem, error) {
	item, err := s.stockRepo.GetByID(input.StockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrStockItemNotFound
	}
	if !actor.CanAccessMerchant(item.MerchantID) {
		return nil, ErrForbidden
	}
	if input.Delta == 0 {
		return nil, ErrStockAdjustInvalid
	}

	movementType := constants.StockMovementTypeStockIn
	if input.Delta < 0 {
		movementType = constants.StockMovementTypeStockOut
	}

	var adjusted *models.StockItem
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		adjusted, err = s.AdjustStock(tx, AdjustStockInput{
			StockItemID:   item.ID,
			Delta:         input.Delta,
			MovementType:  movementType,
			ReferenceType: constants.StockReferenceTypeManual,
			ReferenceID:   0,
			ActorUserID:   actor.UserID,
			Note:          input.Note,
		})
		if err != nil {
			return err
		}
		return s.auditService.RecordTx(tx, AuditRecordInput{
			Actor:      actor,
			MerchantID: item.MerchantID,
			Action:     constants.AuditActionStockAdjust,
			EntityType: "stock_item",
			EntityID:   item.ID,
			RequestID:  input.RequestID,
			NewValues: models.JSON{
				"delta":              input.Delta,
				"quantity":           adjusted.Quantity,
				"available_quantity": adjusted.AvailableQuantity,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return adjusted, nil
}

// CreateStockItemInput 创建库存行输入
type CreateStockItemInput struct {
	ProductID    uint
	WarehouseID  uint
	Quantity     int
	ReorderLevel int
}

// CreateStockItem 为商品在仓库建立库存行
func (s *StockService) CreateStockItem(actor Actor, input CreateStockItemInput) (*models.StockItem, error) {
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !actor.CanAccessMerchant(product.MerchantID) {
		return nil, ErrForbidden
	}

	warehouse, err := s.warehouseRepo.GetByID(input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.MerchantID != product.MerchantID {
		return nil, ErrWarehouseNotFound
	}

	existing, err := s.stockRepo.GetByProductWarehouse(input.ProductID, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrStockItemExists
	}
	if input.Quantity < 0 {
		return nil, ErrStockAdjustInvalid
	}

	item := &models.StockItem{
		MerchantID:        product.MerchantID,
		ProductID:         input.ProductID,
		WarehouseID:       input.WarehouseID,
		Quantity:          input.Quantity,
		AvailableQuantity: input.Quantity,
		ReorderLevel:      input.ReorderLevel,
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.stockRepo.WithTx(tx)
		if err := repo.Create(item); err != nil {
			return err
		}
		if input.Quantity > 0 {
			return repo.CreateMovement(&models.StockMovement{
				StockItemID:   item.ID,
				MovementType:  constants.StockMovementTypeStockIn,
				Quantity:      input.Quantity,
				ReferenceType: constants.StockReferenceTypeManual,
				ActorUserID:   actor.UserID,
				Note:          fmt.Sprintf("Initial stock for product %s", product.SKU),
				CreatedAt:     time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListStock 分页查询商户库存
func (s *StockService) ListStock(actor Actor, merchantID uint, page, pageSize int) ([]models.StockItem, int64, error) {
	if !actor.CanAccessMerchant(merchantID) {
		return nil, 0, ErrForbidden
	}
	return s.stockRepo.ListByMerchant(merchantID, page, pageSize)
}

// ListLowStock 查询低库存报表
func (s *StockService) ListLowStock(actor Actor, merchantID uint) ([]models.StockItem, error) {
	if !actor.CanAccessMerchant(merchantID) {
		return nil, ErrForbidden
	}
	return s.stockRepo.ListLowStock(merchantID)
}

// ListMovements 查询库存流水
func (s *StockService) ListMovements(actor Actor, filter repository.StockMovementListFilter) ([]models.StockMovement, int64, error) {
	if filter.StockItemID > 0 {
		item, err := s.stockRepo.GetByID(filter.StockItemID)
		if err != nil {
			return nil, 0, err
		}
		if item == nil {
			return nil, 0, ErrStockItemNotFound
		}
		if !actor.CanAccessMerchant(item.MerchantID) {
			return nil, 0, ErrForbidden
		}
	} else if !actor.IsPlatformAdmin() && actor.MerchantID == 0 {
		return nil, 0, ErrForbidden
	}
	return s.stockRepo.ListMovements(filter)
}
