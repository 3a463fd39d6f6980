package models

import (
	"time"

	"gorm.io/gorm"
)

// Unit values accepted for a product listing
const (
	UnitKg    = "kg"
	UnitPiece = "piece"
	UnitDozen = "dozen"
	UnitLitre = "litre"
)

// OrderStatusPlaced is the only status the placement engine produces.
const OrderStatusPlaced = "PLACED"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	MobNumber string    `gorm:"column:mob_number;type:varchar(10);uniqueIndex;not null" json:"mobNumber"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(20);not null" json:"title"`
	Description string    `gorm:"type:varchar(100);not null" json:"description"`
	Vegetable   string    `gorm:"type:varchar(10);not null" json:"vegetable"`
	Price       int64     `gorm:"not null" json:"price"`
	Quantity    int       `gorm:"not null;check:quantity >= 0" json:"quantity"`
	Unit        string    `gorm:"type:varchar(10);not null" json:"unit"`
	IsCompleted bool      `gorm:"default:false" json:"isCompleted"`
	Img         string    `json:"img"`
	SellerID    uint      `gorm:"not null;index" json:"sellerId"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null" json:"orderNumber"`
	BuyerID     uint        `gorm:"not null;index" json:"buyerId"`
	Total       int64       `gorm:"not null" json:"total"`
	Status      string      `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time   `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"-"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"not null;index" json:"orderId"`
	ProductID uint     `gorm:"not null" json:"productId"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Price     int64    `gorm:"not null" json:"price"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// Migrate runs auto migration for all tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Product{}, &Order{}, &OrderItem{})
}
