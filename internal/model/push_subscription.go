package model

import "time"

// PushSubscription holds a customer's browser push subscription. The worker
// pool notifies it when one of the customer's appointments is completed.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}
