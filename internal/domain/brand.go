package domain

import "time"

// Brand represents a product manufacturer or label.
type Brand struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Logo        string    `gorm:"type:text;not null" json:"logo"`
	Website     string    `gorm:"type:text" json:"website"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Brand.
func (Brand) TableName() string {
	return "brands"
}
