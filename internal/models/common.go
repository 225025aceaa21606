// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		str, strOK := value.(string)
		if !strOK {
			return nil
		}
		bytes = []byte(str)
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeClient  UserType = "client"
	UserTypeSeller  UserType = "seller"
	UserTypeCourier UserType = "courier"
	UserTypeAdmin   UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type SellerStatus string

const (
	SellerStatusOpen       SellerStatus = "open"
	SellerStatusClosed     SellerStatus = "closed"
	SellerStatusComingSoon SellerStatus = "coming_soon"
)

func (s SellerStatus) IsValid() bool {
	switch s {
	case SellerStatusOpen, SellerStatusClosed, SellerStatusComingSoon:
		return true
	}
	return false
}

type SellerCategory string

const (
	SellerCategoryFood        SellerCategory = "food_restaurants"
	SellerCategoryGroceries   SellerCategory = "groceries_supermarkets"
	SellerCategoryPharmacy    SellerCategory = "pharmacy_health"
	SellerCategoryElectronics SellerCategory = "electronics_mobile"
	SellerCategoryFashion     SellerCategory = "fashion_clothing"
	SellerCategoryFurniture   SellerCategory = "home_furniture"
	SellerCategoryStationery  SellerCategory = "stationery_books"
	SellerCategorySports      SellerCategory = "sports_fitness"
	SellerCategoryGifts       SellerCategory = "flowers_gifts"
	SellerCategoryAutomotive  SellerCategory = "automotive"
	SellerCategoryPets        SellerCategory = "pets_animals"
	SellerCategoryOther       SellerCategory = "other_services"
)

func (c SellerCategory) IsValid() bool {
	switch c {
	case SellerCategoryFood, SellerCategoryGroceries, SellerCategoryPharmacy,
		SellerCategoryElectronics, SellerCategoryFashion, SellerCategoryFurniture,
		SellerCategoryStationery, SellerCategorySports, SellerCategoryGifts,
		SellerCategoryAutomotive, SellerCategoryPets, SellerCategoryOther:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPendingDelivery OrderStatus = "pending_delivery"
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// IsTerminal reports whether no further lifecycle transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Next returns the single forward transition from s. Terminal states
// return themselves.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case OrderStatusPendingDelivery:
		return OrderStatusProcessing
	case OrderStatusProcessing:
		return OrderStatusShipped
	case OrderStatusShipped:
		return OrderStatusDelivered
	default:
		return s
	}
}
