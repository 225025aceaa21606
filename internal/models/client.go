// internal/models/client.go
package models

import "github.com/google/uuid"

// Client is the buyer profile attached to a user account, keyed by the
// same id.
type Client struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Address string    `json:"address" gorm:"size:255;not null"`

	// Relationships
	User      User       `json:"user,omitempty" gorm:"foreignKey:ID"`
	Orders    []Order    `json:"orders,omitempty" gorm:"foreignKey:ClientID"`
	CartItems []CartItem `json:"cart_items,omitempty" gorm:"foreignKey:ClientID"`
}
