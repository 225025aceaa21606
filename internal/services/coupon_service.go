// internal/services/coupon_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

var (
	ErrCouponNotFound      = errors.New("invalid coupon code")
	ErrCouponExpired       = errors.New("this coupon has expired")
	ErrCouponInactive      = errors.New("this coupon is not valid now")
	ErrCouponMinimumNotMet = errors.New("order total is below the coupon minimum")
	ErrCouponCodeTaken     = errors.New("this coupon code already exists")
	ErrCouponInUse         = errors.New("coupon is referenced by orders and cannot be deleted")
)

// EvaluateCoupon applies the redemption rules in order, first failure
// wins: expiry, active flag, minimum total. It never mutates the
// coupon; callers subtract the discount themselves.
func EvaluateCoupon(coupon *models.Coupon, orderTotal float64, now time.Time) error {
	if coupon.ExpireDate.Before(now) {
		return ErrCouponExpired
	}
	if !coupon.IsActive {
		return ErrCouponInactive
	}
	if orderTotal < coupon.MinimumTotal {
		return ErrCouponMinimumNotMet
	}
	return nil
}

type CouponVerdict struct {
	OK       bool    `json:"ok"`
	Discount float64 `json:"discount,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}

type CreateCouponRequest struct {
	Code          string    `json:"code" validate:"required,coupon_code"`
	IsActive      *bool     `json:"is_active,omitempty"`
	ExpireDate    time.Time `json:"expire_date" validate:"required"`
	MinimumTotal  float64   `json:"minimum_total" validate:"min=0"`
	DiscountValue float64   `json:"discount_value" validate:"required,gt=0"`
}

type UpdateCouponRequest struct {
	Code          string     `json:"code,omitempty" validate:"omitempty,coupon_code"`
	ExpireDate    *time.Time `json:"expire_date,omitempty"`
	MinimumTotal  *float64   `json:"minimum_total,omitempty" validate:"omitempty,min=0"`
	DiscountValue *float64   `json:"discount_value,omitempty" validate:"omitempty,gt=0"`
}

// CouponStats is the derived usage view for the admin listing; there
// is no usage counter on the coupon row.
type CouponStats struct {
	Coupon       models.Coupon `json:"coupon"`
	TimesUsed    int64         `json:"times_used"`
	TotalSavings float64       `json:"total_savings"`
	LastUsedAt   *time.Time    `json:"last_used_at,omitempty"`
}

type CouponService struct {
	db *gorm.DB
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db}
}

// Validate checks a code against an order total and reports either the
// flat discount or the first failed rule. Read-only by contract.
func (s *CouponService) Validate(code string, orderTotal float64) (*CouponVerdict, error) {
	coupon, err := s.GetByCode(code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return &CouponVerdict{OK: false, Reason: ErrCouponNotFound.Error()}, nil
		}
		return nil, err
	}

	if err := EvaluateCoupon(coupon, orderTotal, time.Now()); err != nil {
		return &CouponVerdict{OK: false, Reason: err.Error()}, nil
	}

	return &CouponVerdict{OK: true, Discount: coupon.DiscountValue}, nil
}

func (s *CouponService) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &coupon, nil
}

func (s *CouponService) Create(req *CreateCouponRequest) (*models.Coupon, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.ExpireDate.Before(time.Now()) {
		return nil, errors.New("expiration date must be in the future")
	}

	var existing models.Coupon
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, ErrCouponCodeTaken
	}

	coupon := &models.Coupon{
		Code:          req.Code,
		IsActive:      true,
		ExpireDate:    req.ExpireDate,
		MinimumTotal:  req.MinimumTotal,
		DiscountValue: req.DiscountValue,
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := s.db.Create(coupon).Error; err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return coupon, nil
}

func (s *CouponService) Update(id uuid.UUID, req *UpdateCouponRequest) (*models.Coupon, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var coupon models.Coupon
	if err := s.db.First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Code != "" && req.Code != coupon.Code {
		var clash models.Coupon
		if err := s.db.Where("code = ? AND id <> ?", req.Code, id).First(&clash).Error; err == nil {
			return nil, ErrCouponCodeTaken
		}
		updates["code"] = req.Code
	}
	if req.ExpireDate != nil {
		updates["expire_date"] = *req.ExpireDate
	}
	if req.MinimumTotal != nil {
		updates["minimum_total"] = *req.MinimumTotal
	}
	if req.DiscountValue != nil {
		updates["discount_value"] = *req.DiscountValue
	}

	if len(updates) > 0 {
		if err := s.db.Model(&coupon).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update coupon: %w", err)
		}
	}

	return &coupon, nil
}

// ToggleActive flips the active flag and returns the new state.
func (s *CouponService) ToggleActive(id uuid.UUID) (bool, error) {
	var coupon models.Coupon
	if err := s.db.First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCouponNotFound
		}
		return false, fmt.Errorf("database error: %w", err)
	}

	coupon.IsActive = !coupon.IsActive
	if err := s.db.Model(&coupon).UpdateColumn("is_active", coupon.IsActive).Error; err != nil {
		return false, fmt.Errorf("failed to toggle coupon: %w", err)
	}
	return coupon.IsActive, nil
}

// Delete removes a coupon that no order references. Referenced coupons
// stay for reporting; deactivate them instead.
func (s *CouponService) Delete(id uuid.UUID) error {
	var coupon models.Coupon
	if err := s.db.First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	var used int64
	if err := s.db.Model(&models.Order{}).Where("coupon_id = ?", id).Count(&used).Error; err != nil {
		return fmt.Errorf("failed to check coupon usage: %w", err)
	}
	if used > 0 {
		return ErrCouponInUse
	}

	if err := s.db.Delete(&coupon).Error; err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	return nil
}

// ListWithStats returns every coupon with usage derived from its
// linked orders.
func (s *CouponService) ListWithStats() ([]CouponStats, error) {
	var coupons []models.Coupon
	if err := s.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch coupons: %w", err)
	}

	stats := make([]CouponStats, 0, len(coupons))
	for _, coupon := range coupons {
		var entry CouponStats
		entry.Coupon = coupon

		if err := s.db.Model(&models.Order{}).
			Where("coupon_id = ?", coupon.ID).
			Count(&entry.TimesUsed).Error; err != nil {
			return nil, fmt.Errorf("failed to count coupon usage: %w", err)
		}
		entry.TotalSavings = float64(entry.TimesUsed) * coupon.DiscountValue

		if entry.TimesUsed > 0 {
			var last models.Order
			if err := s.db.Where("coupon_id = ?", coupon.ID).
				Order("created_at DESC").
				First(&last).Error; err == nil {
				entry.LastUsedAt = &last.CreatedAt
			}
		}

		stats = append(stats, entry)
	}

	return stats, nil
}
