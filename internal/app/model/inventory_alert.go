package model

import (
	"time"

	"gorm.io/gorm"
)

// InventoryAlert flags a product whose stock has fallen below its
// threshold. Alerts are created and resolved by the inventory sweep job
// and surfaced on the admin dashboard.
type InventoryAlert struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	ProductID  uint           `gorm:"not null;index" json:"product_id"`
	Threshold  int            `gorm:"not null;default:5" json:"threshold"`
	IsResolved bool           `gorm:"default:false" json:"is_resolved"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (InventoryAlert) TableName() string {
	return "inventory_alerts"
}
