package domain

import "time"

// ProductFeedback is a swipe signal for a product. Liked entries seed the
// recommendation engine; one row exists per user and product, updated in place
// on repeat feedback.
type ProductFeedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_feedback_user" json:"user_id"`
	ProductID int64     `gorm:"not null;index:idx_feedback_product" json:"product_id"`
	Liked     bool      `gorm:"not null" json:"liked"`
	Rating    *float64  `json:"rating,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for ProductFeedback.
func (ProductFeedback) TableName() string {
	return "product_feedback"
}
