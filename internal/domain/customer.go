package domain

import "time"

// Customer is owned by the customer directory; bookings and messages only
// refer to it by id or phone number.
type Customer struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	FullName    string    `gorm:"type:varchar(255);not null" json:"fullName"`
	PhoneNumber string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"phoneNumber"`
	Email       string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address     string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
