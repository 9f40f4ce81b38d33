package domain

import "time"

// Wishlist links a user to a saved product.
type Wishlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_wishlists_user_product,unique" json:"user_id"`
	ProductID int64     `gorm:"not null;index:idx_wishlists_user_product,unique" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;references:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Wishlist.
func (Wishlist) TableName() string {
	return "wishlists"
}
