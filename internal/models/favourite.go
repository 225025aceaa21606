// internal/models/favourite.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favourite is a toggleable client↔seller bookmark.
type Favourite struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ClientID    uuid.UUID `json:"client_id" gorm:"type:uuid;not null;index:idx_favourite_pair,unique"`
	SellerID    uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index:idx_favourite_pair,unique"`
	IsFavourite bool      `json:"is_favourite" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Client Client `json:"-" gorm:"foreignKey:ClientID"`
	Seller Seller `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

func (f *Favourite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
