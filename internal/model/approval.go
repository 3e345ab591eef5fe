package model

import "time"

// ApprovalRequest is a pending manager-registration review record. One is
// created automatically whenever an account registers with the manager role.
type ApprovalRequest struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	ApplicantID int64     `gorm:"index;not null" json:"applicant_id"`
	Handled     bool      `gorm:"not null;default:false" json:"handled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`

	// Associations
	Applicant User `gorm:"foreignKey:ApplicantID" json:"applicant"`
}
