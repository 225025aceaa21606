// internal/models/cart.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one pending-purchase line for a client. All lines of a
// client's cart must reference products of the same seller; the cart
// service rejects adds that would break that.
//
// Cart lines are deleted for real on checkout/removal, so no soft-delete
// column here: the (client, product) unique index must not trip over
// tombstones.
type CartItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ClientID  uuid.UUID `json:"client_id" gorm:"type:uuid;not null;index:idx_cart_client_product,unique"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index:idx_cart_client_product,unique"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Client  Client  `json:"-" gorm:"foreignKey:ClientID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}
