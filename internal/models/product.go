// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	SellerID       uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	Name           string         `json:"name" gorm:"size:255;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Price          float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	AvailableStock int            `json:"available_stock" gorm:"not null;default:0"`
	Rating         float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	Images         pq.StringArray `json:"images" gorm:"type:text[]"`

	// Relationships
	Seller       Seller        `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	OrderedItems []OrderedItem `json:"-" gorm:"foreignKey:ProductID"`
}
