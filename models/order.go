package models

import "time"

type Order struct {
	ID           uint       `gorm:"primaryKey"`
	RestaurantID uint       `gorm:"not null;index"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	TableID      *uint      `gorm:"index"`
	SessionKey   string     `gorm:"type:varchar(255);index"`
	Status       string     `gorm:"type:varchar(50);not null;default:'pending'"`
	Total        float64    `gorm:"type:decimal(10,2);not null"`
	Items        []OrderItem
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

type OrderItem struct {
	ID       uint    `gorm:"primaryKey"`
	OrderID  uint    `gorm:"not null;index"`
	MenuID   uint    `gorm:"not null"`
	Title    string  `gorm:"type:varchar(255);not null"`
	Price    float64 `gorm:"type:decimal(10,2);not null"`
	Quantity int     `gorm:"not null"`
	Extras   string  `gorm:"type:text"` // selected extras snapshot, JSON
	Notes    string  `gorm:"type:text"`
}
