// internal/models/review.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductReview is one client's review of a product. A second submission
// from the same client overwrites the first (upsert), so the
// (client, product) pair is unique.
type ProductReview struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ClientID  uuid.UUID `json:"client_id" gorm:"type:uuid;not null;index:idx_product_review_pair,unique"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index:idx_product_review_pair,unique"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Client  Client  `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Product Product `json:"-" gorm:"foreignKey:ProductID"`
}

func (r *ProductReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// SellerReview mirrors ProductReview for shops.
type SellerReview struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ClientID  uuid.UUID `json:"client_id" gorm:"type:uuid;not null;index:idx_seller_review_pair,unique"`
	SellerID  uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index:idx_seller_review_pair,unique"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Client Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Seller Seller `json:"-" gorm:"foreignKey:SellerID"`
}

func (r *SellerReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
