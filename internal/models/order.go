// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	BaseModel
	ClientID   uuid.UUID   `json:"client_id" gorm:"type:uuid;not null;index"`
	SellerID   uuid.UUID   `json:"seller_id" gorm:"type:uuid;not null;index"`
	CourierID  *uuid.UUID  `json:"courier_id" gorm:"type:uuid;index"`
	CouponID   *uuid.UUID  `json:"coupon_id" gorm:"type:uuid;index"`
	Status     OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending_delivery';index"`
	ItemsTotal float64     `json:"items_total" gorm:"type:decimal(10,2);not null"`
	Discount   float64     `json:"discount" gorm:"type:decimal(10,2);not null;default:0"`
	TotalPrice float64     `json:"total_price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Client       Client        `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Seller       Seller        `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Courier      *Courier      `json:"courier,omitempty" gorm:"foreignKey:CourierID"`
	Coupon       *Coupon       `json:"coupon,omitempty" gorm:"foreignKey:CouponID"`
	OrderedItems []OrderedItem `json:"ordered_items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderedItem is a line of a persisted order. UnitPrice is the product
// price captured at checkout time, decoupled from later price edits.
type OrderedItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	SellerID  uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Order   Order   `json:"-" gorm:"foreignKey:OrderID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Seller  Seller  `json:"-" gorm:"foreignKey:SellerID"`
}

func (oi *OrderedItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}
