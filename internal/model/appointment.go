package model

import "time"

// Appointment status values. Waiting is the initial state; completed is
// terminal. Cancellation deletes the row instead of transitioning it.
const (
	AppointmentWaiting   = "waiting"
	AppointmentCompleted = "completed"
)

// Appointment is a customer's claim on a position in a restaurant's waitlist.
type Appointment struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"index;not null" json:"user_id"`
	RestaurantID int64     `gorm:"index;not null" json:"restaurant_id"`
	Status       string    `gorm:"size:32;not null" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`

	// Associations
	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Restaurant Restaurant `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
