package domain

import "time"

// Cart is a user's open shopping cart. A user keeps a single active cart;
// adding items merges into it.
type Cart struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index:idx_carts_user" json:"user_id"`
	TotalAmount float64    `gorm:"not null" json:"total_amount"`
	Items       []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"cart_items"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName returns the database table name for Cart.
func (Cart) TableName() string {
	return "carts"
}

// CartItem is a single product line in a cart. Subtotal is the discounted
// unit price times quantity, computed at write time.
type CartItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	CartID    uint     `gorm:"not null;index:idx_cart_items_cart" json:"cart_id"`
	ProductID int64    `gorm:"not null" json:"product_id"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Subtotal  float64  `gorm:"not null" json:"subtotal"`
	Product   *Product `gorm:"foreignKey:ProductID;references:ProductID" json:"product,omitempty"`
}

// TableName returns the database table name for CartItem.
func (CartItem) TableName() string {
	return "cart_items"
}
