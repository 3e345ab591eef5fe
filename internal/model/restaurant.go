package model

import "time"

// Restaurant represents a venue owned by a manager account.
type Restaurant struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	ManagerID   int64     `gorm:"index;not null" json:"manager_id"`
	Location    string    `gorm:"size:256" json:"location"`
	MaxCapacity int       `gorm:"not null" json:"max_capacity"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
