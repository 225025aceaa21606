// internal/services/seller_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

type UpdateSellerProfileRequest struct {
	Description *string                `json:"description,omitempty" validate:"omitempty,max=2000"`
	Address     *string                `json:"address,omitempty" validate:"omitempty,max=500"`
	Status      *models.SellerStatus   `json:"status,omitempty"`
	Category    *models.SellerCategory `json:"category,omitempty"`
}

type SellerService struct {
	db *gorm.DB
}

func NewSellerService(db *gorm.DB) *SellerService {
	return &SellerService{db: db}
}

// Browse lists storefronts with optional category filter and search
// over the owning user's name.
func (s *SellerService) Browse(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Seller{}).Preload("User").
		Joins("JOIN users ON users.id = sellers.id")

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("users.full_name LIKE ? OR users.username LIKE ?", searchTerm, searchTerm)
	}
	if params.Category != "" {
		query = query.Where("sellers.category = ?", params.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count sellers: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "rating"})
	query = utils.ApplyPagination(query, params)

	var sellers []models.Seller
	if err := query.Find(&sellers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch sellers: %w", err)
	}

	result := utils.CreatePaginationResult(sellers, total, params)
	return &result, nil
}

func (s *SellerService) Get(id uuid.UUID) (*models.Seller, error) {
	var seller models.Seller
	if err := s.db.Preload("User").Preload("Products").
		First(&seller, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &seller, nil
}

func (s *SellerService) UpdateProfile(sellerID uuid.UUID, req *UpdateSellerProfileRequest) (*models.Seller, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var seller models.Seller
	if err := s.db.First(&seller, "id = ?", sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("invalid seller status: %s", *req.Status)
		}
		updates["status"] = *req.Status
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, fmt.Errorf("invalid seller category: %s", *req.Category)
		}
		updates["category"] = *req.Category
	}

	if len(updates) > 0 {
		if err := s.db.Model(&seller).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update seller profile: %w", err)
		}
	}
	return &seller, nil
}

// ToggleFavourite flips a client's favourite flag for a seller,
// creating the row on first use. Returns the new state.
func (s *SellerService) ToggleFavourite(clientID, sellerID uuid.UUID) (bool, error) {
	var exists int64
	if err := s.db.Model(&models.Seller{}).Where("id = ?", sellerID).Count(&exists).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	if exists == 0 {
		return false, ErrSellerNotFound
	}

	var fav models.Favourite
	err := s.db.Where("client_id = ? AND seller_id = ?", clientID, sellerID).First(&fav).Error
	switch {
	case err == nil:
		fav.IsFavourite = !fav.IsFavourite
		if err := s.db.Save(&fav).Error; err != nil {
			return false, fmt.Errorf("failed to toggle favourite: %w", err)
		}
		return fav.IsFavourite, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav = models.Favourite{
			ClientID:    clientID,
			SellerID:    sellerID,
			IsFavourite: true,
		}
		if err := s.db.Create(&fav).Error; err != nil {
			return false, fmt.Errorf("failed to create favourite: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("database error: %w", err)
	}
}

func (s *SellerService) ListFavourites(clientID uuid.UUID) ([]models.Seller, error) {
	var sellers []models.Seller
	if err := s.db.Preload("User").
		Joins("JOIN favourites ON favourites.seller_id = sellers.id").
		Where("favourites.client_id = ? AND favourites.is_favourite = ?", clientID, true).
		Order("favourites.updated_at DESC").
		Find(&sellers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch favourites: %w", err)
	}
	return sellers, nil
}

// SellerStats summarizes a seller's storefront for the dashboard.
type SellerStats struct {
	TotalProducts   int64   `json:"total_products"`
	TotalOrders     int64   `json:"total_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	DeliveredOrders int64   `json:"delivered_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	Rating          float64 `json:"rating"`
	ReviewCount     int64   `json:"review_count"`
}

func (s *SellerService) Stats(sellerID uuid.UUID) (*SellerStats, error) {
	var seller models.Seller
	if err := s.db.First(&seller, "id = ?", sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	stats := &SellerStats{Rating: seller.Rating}

	if err := s.db.Model(&models.Product{}).
		Where("seller_id = ?", sellerID).
		Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to compute seller stats: %w", err)
	}

	if err := s.db.Model(&models.Order{}).
		Where("seller_id = ?", sellerID).
		Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to compute seller stats: %w", err)
	}

	if err := s.db.Model(&models.Order{}).
		Where("seller_id = ? AND status = ?", sellerID, models.OrderStatusPendingDelivery).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to compute seller stats: %w", err)
	}

	if err := s.db.Model(&models.Order{}).
		Where("seller_id = ? AND status = ?", sellerID, models.OrderStatusDelivered).
		Count(&stats.DeliveredOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to compute seller stats: %w", err)
	}

	if err := s.db.Model(&models.Order{}).
		Where("seller_id = ? AND status = ?", sellerID, models.OrderStatusDelivered).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to compute seller stats: %w", err)
	}

	if err := s.db.Model(&models.SellerReview{}).
		Where("seller_id = ?", sellerID).
		Count(&stats.ReviewCount).Error; err != nil {
		return nil, fmt.Errorf("failed to compute seller stats: %w", err)
	}

	return stats, nil
}
