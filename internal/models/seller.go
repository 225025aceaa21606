// internal/models/seller.go
package models

import "github.com/google/uuid"

// Seller is the shop profile attached to a user account. It shares the
// user's id, so the account is the root entity and this row is an
// extension of it.
type Seller struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	Description string         `json:"description" gorm:"type:text"`
	Address     string         `json:"address" gorm:"size:255;not null"`
	Status      SellerStatus   `json:"status" gorm:"type:varchar(20);default:'open';index"`
	Category    SellerCategory `json:"category" gorm:"type:varchar(40);not null;index"`
	Rating      float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`

	// Relationships
	User     User      `json:"user,omitempty" gorm:"foreignKey:ID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:SellerID"`
}
