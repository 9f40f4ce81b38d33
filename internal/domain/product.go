package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Gender restricts the product gender classification.
type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Product represents a catalog product. ProductID is the public business key
// used across feedback, carts, orders and the recommendation engine; ID is the
// internal surrogate key.
type Product struct {
	ID                 uint        `gorm:"primaryKey" json:"-"`
	ProductID          int64       `gorm:"not null;uniqueIndex:idx_products_product_id" json:"product_id"`
	Title              string      `gorm:"type:text;not null" json:"title"`
	Description        string      `gorm:"type:text;not null" json:"description"`
	Price              float64     `gorm:"not null" json:"price"`
	DiscountPercentage float64     `gorm:"not null" json:"discount_percentage"`
	Rating             float64     `json:"rating"`
	Stock              int         `gorm:"not null" json:"stock"`
	Thumbnail          string      `gorm:"type:text;not null;index:idx_products_thumbnail" json:"thumbnail"`
	Images             StringArray `gorm:"type:text" json:"images"`
	IsPublished        bool        `gorm:"default:true" json:"is_published"`
	Gender             Gender      `gorm:"type:text;not null" json:"gender"`
	Sizes              StringArray `gorm:"type:text" json:"sizes"`
	CategoryID         uint        `gorm:"not null;index:idx_products_category" json:"category_id"`
	Category           *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BrandID            uint        `gorm:"not null;index:idx_products_brand" json:"brand_id"`
	Brand              *Brand      `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string {
	return "products"
}

// Category groups products.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:text;not null;uniqueIndex" json:"name"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string {
	return "categories"
}
