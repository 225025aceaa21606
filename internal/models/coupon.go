// internal/models/coupon.go
package models

import "time"

// Coupon is a flat-value discount rule. Usage is derived from the
// orders that reference it; there is no redemption counter.
type Coupon struct {
	BaseModel
	Code          string    `json:"code" gorm:"uniqueIndex;size:30;not null"`
	IsActive      bool      `json:"is_active" gorm:"not null;default:true"`
	ExpireDate    time.Time `json:"expire_date" gorm:"not null"`
	MinimumTotal  float64   `json:"minimum_total" gorm:"type:decimal(10,2);not null;default:0"`
	DiscountValue float64   `json:"discount_value" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:CouponID"`
}
