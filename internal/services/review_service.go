// internal/services/review_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrSellerNotFound = errors.New("seller not found")
)

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// ReviewProduct records or replaces a client's rating for a product
// and recomputes the product's aggregate in the same transaction, so
// the stored rating always equals the mean of the live reviews.
func (s *ReviewService) ReviewProduct(clientID, productID uuid.UUID, req *SubmitReviewRequest) (*models.ProductReview, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var review models.ProductReview

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		err := tx.Where("client_id = ? AND product_id = ?", clientID, productID).
			First(&review).Error
		switch {
		case err == nil:
			review.Rating = req.Rating
			review.Comment = req.Comment
			if err := tx.Save(&review).Error; err != nil {
				return fmt.Errorf("failed to update review: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.ProductReview{
				ClientID:  clientID,
				ProductID: productID,
				Rating:    req.Rating,
				Comment:   req.Comment,
			}
			if err := tx.Create(&review).Error; err != nil {
				return fmt.Errorf("failed to create review: %w", err)
			}
		default:
			return fmt.Errorf("database error: %w", err)
		}

		return recomputeProductRating(tx, productID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// ReviewSeller is the seller-level counterpart of ReviewProduct.
func (s *ReviewService) ReviewSeller(clientID, sellerID uuid.UUID, req *SubmitReviewRequest) (*models.SellerReview, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var review models.SellerReview

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var seller models.Seller
		if err := tx.First(&seller, "id = ?", sellerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSellerNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		err := tx.Where("client_id = ? AND seller_id = ?", clientID, sellerID).
			First(&review).Error
		switch {
		case err == nil:
			review.Rating = req.Rating
			review.Comment = req.Comment
			if err := tx.Save(&review).Error; err != nil {
				return fmt.Errorf("failed to update review: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.SellerReview{
				ClientID: clientID,
				SellerID: sellerID,
				Rating:   req.Rating,
				Comment:  req.Comment,
			}
			if err := tx.Create(&review).Error; err != nil {
				return fmt.Errorf("failed to create review: %w", err)
			}
		default:
			return fmt.Errorf("database error: %w", err)
		}

		return recomputeSellerRating(tx, sellerID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (s *ReviewService) ProductReviews(productID uuid.UUID) ([]models.ProductReview, error) {
	var reviews []models.ProductReview
	if err := s.db.Preload("Client").Preload("Client.User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch product reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) SellerReviews(sellerID uuid.UUID) ([]models.SellerReview, error) {
	var reviews []models.SellerReview
	if err := s.db.Preload("Client").Preload("Client.User").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch seller reviews: %w", err)
	}
	return reviews, nil
}

// DeleteProductReview removes a client's own review and refreshes the
// aggregate.
func (s *ReviewService) DeleteProductReview(clientID, productID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("client_id = ? AND product_id = ?", clientID, productID).
			Delete(&models.ProductReview{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete review: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrReviewNotFound
		}
		return recomputeProductRating(tx, productID)
	})
}

func recomputeProductRating(tx *gorm.DB, productID uuid.UUID) error {
	var avg float64
	if err := tx.Model(&models.ProductReview{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error; err != nil {
		return fmt.Errorf("failed to compute product rating: %w", err)
	}
	if err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("rating", avg).Error; err != nil {
		return fmt.Errorf("failed to store product rating: %w", err)
	}
	return nil
}

func recomputeSellerRating(tx *gorm.DB, sellerID uuid.UUID) error {
	var avg float64
	if err := tx.Model(&models.SellerReview{}).
		Where("seller_id = ?", sellerID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error; err != nil {
		return fmt.Errorf("failed to compute seller rating: %w", err)
	}
	if err := tx.Model(&models.Seller{}).
		Where("id = ?", sellerID).
		UpdateColumn("rating", avg).Error; err != nil {
		return fmt.Errorf("failed to store seller rating: %w", err)
	}
	return nil
}
