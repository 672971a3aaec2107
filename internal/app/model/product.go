package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Price          float64        `gorm:"not null" json:"price"`
	SKU            string         `gorm:"uniqueIndex:idx_products_sku;not null" json:"sku"`
	Category       string         `gorm:"type:varchar(50);index" json:"category"`
	Images         pq.StringArray `gorm:"type:text[]" json:"images"` // ordered, first entry is the primary image
	Sizes          pq.StringArray `gorm:"type:text[]" json:"sizes"`
	Colors         pq.StringArray `gorm:"type:text[]" json:"colors"`
	InventoryCount int            `gorm:"default:0" json:"inventory_count"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	IsNew          bool           `gorm:"default:false" json:"is_new"`
	SoldOut        bool           `gorm:"default:false" json:"sold_out"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	OrderItems      []OrderItem      `gorm:"foreignKey:ProductID" json:"-"`
	InventoryAlerts []InventoryAlert `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// HasSize reports whether the given size is offered. Products without a
// size list (accessories) accept an empty size only.
func (p *Product) HasSize(size string) bool {
	if size == "" {
		return len(p.Sizes) == 0
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
