// internal/models/courier.go
package models

import "github.com/google/uuid"

// Courier is the delivery-agent profile attached to a user account,
// keyed by the same id.
type Courier struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	VehicleInfo string    `json:"vehicle_info" gorm:"size:100"`

	// Relationships
	User   User    `json:"user,omitempty" gorm:"foreignKey:ID"`
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:CourierID"`
}
