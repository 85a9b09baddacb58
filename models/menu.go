package models

import "time"

type MenuCategory struct {
	ID           uint       `gorm:"primaryKey"`
	RestaurantID uint       `gorm:"not null;index"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Name         string     `gorm:"type:varchar(100);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Menu struct {
	ID              uint         `gorm:"primaryKey"`
	RestaurantID    uint         `gorm:"not null;index"`
	Restaurant      Restaurant   `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CategoryID      uint         `gorm:"not null"`
	Category        MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Name            string       `gorm:"type:varchar(255);not null"`
	Price           float64      `gorm:"type:decimal(10,2);not null"`
	Description     string       `gorm:"type:text"`
	BaseCalories    float64
	PreparationTime int       // minutes
	Allergies       string    `gorm:"type:text"` // comma separated
	Extras          []MenuExtra
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

type MenuExtra struct {
	ID       uint    `gorm:"primaryKey"`
	MenuID   uint    `gorm:"not null;index"`
	Name     string  `gorm:"type:varchar(100);not null"`
	Price    float64 `gorm:"type:decimal(10,2);not null"`
	Calories float64
}
