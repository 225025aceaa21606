// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/cache"
	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrProductNotFound  = errors.New("product not found")
)

// CartAddStatus tags the outcome of AddItem so callers can tell a
// successful add from a cross-seller rejection.
type CartAddStatus string

const (
	CartAddAdded                   CartAddStatus = "added"
	CartAddRejectedDifferentSeller CartAddStatus = "rejected_different_seller"
)

type CartAddResult struct {
	Status    CartAddStatus `json:"status"`
	CartCount int64         `json:"cart_count"`
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type CartService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewCartService(db *gorm.DB, cache *cache.Cache) *CartService {
	return &CartService{db: db, cache: cache}
}

// AddItem puts a product in the client's cart. A cart only ever holds
// products of one seller: adding from a second seller is rejected with
// no state change. Adding a product already in the cart increments its
// quantity instead of creating a second line.
func (s *CartService) AddItem(ctx context.Context, clientID uuid.UUID, req *AddCartItemRequest) (*CartAddResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var result CartAddResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var foreign int64
		if err := tx.Model(&models.CartItem{}).
			Joins("JOIN products ON products.id = cart_items.product_id").
			Where("cart_items.client_id = ? AND products.seller_id <> ?", clientID, product.SellerID).
			Count(&foreign).Error; err != nil {
			return fmt.Errorf("failed to check cart seller: %w", err)
		}

		if foreign > 0 {
			result.Status = CartAddRejectedDifferentSeller
			return nil
		}

		var item models.CartItem
		err := tx.Where("client_id = ? AND product_id = ?", clientID, req.ProductID).First(&item).Error
		switch {
		case err == nil:
			if err := tx.Model(&item).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", req.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				ClientID:  clientID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create cart item: %w", err)
			}
		default:
			return fmt.Errorf("database error: %w", err)
		}

		result.Status = CartAddAdded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateCartCount(ctx, clientID)

	count, err := s.Count(ctx, clientID)
	if err != nil {
		return nil, err
	}
	result.CartCount = count

	return &result, nil
}

func (s *CartService) RemoveItem(ctx context.Context, clientID, itemID uuid.UUID) (int64, error) {
	res := s.db.Where("id = ? AND client_id = ?", itemID, clientID).Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrCartItemNotFound
	}

	s.cache.InvalidateCartCount(ctx, clientID)
	return s.Count(ctx, clientID)
}

// SetQuantity overwrites a line's quantity. Stock is not checked here;
// checkout is where availability gets settled.
func (s *CartService) SetQuantity(ctx context.Context, clientID, itemID uuid.UUID, req *UpdateCartItemRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	res := s.db.Model(&models.CartItem{}).
		Where("id = ? AND client_id = ?", itemID, clientID).
		UpdateColumn("quantity", req.Quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}

	s.cache.InvalidateCartCount(ctx, clientID)
	return nil
}

func (s *CartService) Clear(ctx context.Context, clientID uuid.UUID) error {
	if err := s.db.Where("client_id = ?", clientID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.cache.InvalidateCartCount(ctx, clientID)
	return nil
}

func (s *CartService) List(clientID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.db.Preload("Product").Preload("Product.Seller").Preload("Product.Seller.User").
		Where("client_id = ?", clientID).
		Order("created_at").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	return items, nil
}

// Count returns the number of cart lines for a client, cached briefly
// because the storefront polls it on every page.
func (s *CartService) Count(ctx context.Context, clientID uuid.UUID) (int64, error) {
	if count, ok := s.cache.GetCartCount(ctx, clientID); ok {
		return count, nil
	}

	var count int64
	if err := s.db.Model(&models.CartItem{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}

	s.cache.SetCartCount(ctx, clientID, count)
	return count, nil
}
