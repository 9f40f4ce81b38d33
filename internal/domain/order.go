package domain

import "time"

// OrderStatus tracks the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a placed purchase. Item prices are snapshotted at order time.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"not null;index:idx_orders_user" json:"user_id"`
	TotalAmount     float64     `gorm:"not null" json:"total_amount"`
	Status          OrderStatus `gorm:"type:text;not null;default:pending" json:"status"`
	ShippingAddress string      `gorm:"type:text;not null" json:"shipping_address"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	CreatedAt       time.Time   `json:"created_at"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"not null;index:idx_order_items_order" json:"order_id"`
	ProductID int64    `gorm:"not null" json:"product_id"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Price     float64  `gorm:"not null" json:"price"`
	Subtotal  float64  `gorm:"not null" json:"subtotal"`
	Product   *Product `gorm:"foreignKey:ProductID;references:ProductID" json:"product,omitempty"`
}

// TableName returns the database table name for OrderItem.
func (OrderItem) TableName() string {
	return "order_items"
}
