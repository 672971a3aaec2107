package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	OrderNumber    string         `gorm:"uniqueIndex:idx_orders_order_number;not null" json:"order_number"`
	UserID         *uint          `gorm:"index" json:"user_id,omitempty"` // nil for guest checkout
	Status         OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus  string         `gorm:"type:varchar(50);default:'unpaid'" json:"payment_status"` // free text, e.g. "paid"
	PaymentMethod  string         `gorm:"type:varchar(50)" json:"payment_method"`
	Subtotal       float64        `gorm:"not null" json:"subtotal"`
	ShippingFee    float64        `gorm:"not null" json:"shipping_fee"`
	DiscountAmount float64        `gorm:"default:0" json:"discount_amount"`
	TotalAmount    float64        `gorm:"not null" json:"total_amount"`
	CouponCode     *string        `gorm:"type:varchar(50)" json:"coupon_code,omitempty"`
	ShippingAddress string        `gorm:"type:jsonb" json:"shipping_address"`
	BillingAddress  string        `gorm:"type:jsonb" json:"billing_address"`
	Notes          string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a denormalized snapshot of a product at purchase time.
// Product fields are copied so later catalog edits never rewrite history;
// ProductID is kept nullable so deleting a product preserves its orders.
type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	OrderID     uint           `gorm:"not null;index" json:"order_id"`
	ProductID   *uint          `gorm:"index" json:"product_id,omitempty"`
	ProductName string         `gorm:"not null" json:"product_name"`
	ProductSKU  string         `gorm:"not null" json:"product_sku"`
	Size        string         `json:"size,omitempty"`
	Color       string         `json:"color,omitempty"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   float64        `gorm:"not null" json:"unit_price"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order    `gorm:"foreignKey:OrderID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
