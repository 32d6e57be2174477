package model

import "time"

// Customer represents a billing customer identified by email
type Customer struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	Email     string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time  `json:"created_at"`
	Purchases []Purchase `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
