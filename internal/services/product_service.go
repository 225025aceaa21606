// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

var ErrNotProductOwner = errors.New("product belongs to another seller")

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Stock       int      `json:"stock" validate:"min=0"`
	Images      []string `json:"images" validate:"max=10,dive,url"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	Images      []string `json:"images,omitempty" validate:"omitempty,max=10,dive,url"`
}

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) Create(sellerID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product := &models.Product{
		SellerID:       sellerID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		AvailableStock: req.Stock,
		Images:         pq.StringArray(req.Images),
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *ProductService) Update(sellerID, productID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if product.SellerID != sellerID {
		return nil, ErrNotProductOwner
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["available_stock"] = *req.Stock
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}
	return &product, nil
}

// Delete soft-deletes a seller's product. Existing order lines keep
// their price snapshots, so history is unaffected.
func (s *ProductService) Delete(sellerID, productID uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}
	if product.SellerID != sellerID {
		return ErrNotProductOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Cart lines pointing at a dead product would break checkout.
		if err := tx.Where("product_id = ?", productID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to remove cart references: %w", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
}

func (s *ProductService) Get(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Seller").Preload("Seller.User").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// Browse lists products storefront-style with search, seller filter,
// pagination and whitelisted sorting.
// BrowseProductsFilter narrows the public catalog listing.
type BrowseProductsFilter struct {
	SellerID *uuid.UUID
	MinPrice *float64
	MaxPrice *float64
}

func (s *ProductService) Browse(params utils.PaginationParams, filter BrowseProductsFilter) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Product{}).Preload("Seller").Preload("Seller.User")

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", searchTerm, searchTerm)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "price", "rating", "name"})
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	result := utils.CreatePaginationResult(products, total, params)
	return &result, nil
}

// SellerProducts lists a seller's own catalog, including out-of-stock
// entries.
func (s *ProductService) SellerProducts(sellerID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// RestockProduct adds quantity to the available stock atomically.
func (s *ProductService) RestockProduct(sellerID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return errors.New("restock quantity must be positive")
	}

	res := s.db.Model(&models.Product{}).
		Where("id = ? AND seller_id = ?", productID, sellerID).
		UpdateColumn("available_stock", gorm.Expr("available_stock + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to restock product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
