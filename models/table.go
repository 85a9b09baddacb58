package models

import "time"

type Table struct {
	ID           uint       `gorm:"primaryKey"`
	RestaurantID uint       `gorm:"not null;index"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	TableNumber  int        `gorm:"not null"`
	Name         string     `gorm:"type:varchar(100);not null"`
	Status       string     `gorm:"type:varchar(50);not null;default:'available'"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}
