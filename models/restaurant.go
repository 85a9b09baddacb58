package models

import "time"

type Restaurant struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"type:varchar(255);not null"`
	Description    string  `gorm:"type:text"`
	QRCode         string  `gorm:"type:varchar(64);uniqueIndex;not null"`
	Latitude       float64 `gorm:"not null"`
	Longitude      float64 `gorm:"not null"`
	ClaimRadiusM   float64 `gorm:"not null;default:150"`
	PointsPerClaim int     `gorm:"not null;default:10"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
