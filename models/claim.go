package models

import "time"

// Claim records a redeemed loyalty QR scan.
type Claim struct {
	ID           uint       `gorm:"primaryKey"`
	UserID       uint       `gorm:"not null;index"`
	User         User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	RestaurantID uint       `gorm:"not null;index"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	QRCode       string     `gorm:"type:varchar(64);not null"`
	Latitude     float64    `gorm:"not null"`
	Longitude    float64    `gorm:"not null"`
	Points       int        `gorm:"not null"`
	CreatedAt    time.Time  `gorm:"not null"`
}

type LoyaltyBalance struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	User      User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Points    int  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
