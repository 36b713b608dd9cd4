package service

import (
	"strings"

	"github.com/fulfill-next/internal/logger"
	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品管理服务
type ProductService struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
}

// NewProductService 创建商品管理服务
func NewProductService(productRepo repository.ProductRepository, stockRepo repository.StockRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		stockRepo:   stockRepo,
	}
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	MerchantID uint
	SKU        string          `json:"sku" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// UpdateProductInput 更新商品输入
type UpdateProductInput struct {
	Name      *string          `json:"name"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Active    *bool            `json:"active"`
}

// CreateProduct 创建商品（SKU 商户内唯一）
func (s *ProductService) CreateProduct(actor Actor, input CreateProductInput) (*models.Product, error) {
	if !actor.CanAccessMerchant(input.MerchantID) {
		return nil, ErrForbidden
	}
	sku := strings.TrimSpace(input.SKU)
	existing, err := s.productRepo.GetBySKU(input.MerchantID, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProductSKUExists
	}

	product := &models.Product{
		MerchantID: input.MerchantID,
		SKU:        sku,
		Name:       strings.TrimSpace(input.Name),
		UnitPrice:  models.NewMoneyFromDecimal(input.UnitPrice),
		Active:     true,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	logger.Infow("product_created", "product_id", product.ID, "merchant_id", product.MerchantID, "sku", product.SKU)
	return product, nil
}

// GetProduct 获取商品
func (s *ProductService) GetProduct(actor Actor, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !actor.CanAccessMerchant(product.MerchantID) {
		return nil, ErrForbidden
	}
	return product, nil
}

// ListProducts 查询商户商品列表
func (s *ProductService) ListProducts(actor Actor, merchantID uint, keyword string, page, pageSize int) ([]models.Product, int64, error) {
	if !actor.CanAccessMerchant(merchantID) {
		return nil, 0, ErrForbidden
	}
	return s.productRepo.ListByMerchant(merchantID, keyword, page, pageSize)
}

// UpdateProduct 更新商品
func (s *ProductService) UpdateProduct(actor Actor, id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.UnitPrice != nil {
		updates["unit_price"] = models.NewMoneyFromDecimal(*input.UnitPrice)
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return product, nil
	}
	if err := s.productRepo.Update(id, updates); err != nil {
		return nil, err
	}
	return s.GetProduct(actor, id)
}

// DeleteProduct 删除商品（下架）
func (s *ProductService) DeleteProduct(actor Actor, id uint) error {
	product, err := s.GetProduct(actor, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(product.ID); err != nil {
		return err
	}
	logger.Infow("product_deleted", "product_id", product.ID, "merchant_id", product.MerchantID)
	return nil
}

// ListProductStock 查询商品在各仓库的库存行
func (s *ProductService) ListProductStock(actor Actor, productID uint) ([]models.StockItem, error) {
	if _, err := s.GetProduct(actor, productID); err != nil {
		return nil, err
	}
	return s.stockRepo.ListByProduct(productID)
}
