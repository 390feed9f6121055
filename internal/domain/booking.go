package domain

import (
	"fmt"
	"slices"
	"time"
)

// MedicationLine is one ordered medication of a booking.
type MedicationLine struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	BookingID    string `gorm:"type:varchar(64);not null;index" json:"-"`
	MedicationID string `gorm:"type:varchar(64);not null" json:"medicationId"`
	Quantity     int    `gorm:"type:int;not null" json:"quantity"`
	Notes        string `gorm:"type:text" json:"notes,omitempty"`
}

type Booking struct {
	ID              string           `gorm:"primaryKey;type:varchar(64)" json:"id"`
	CustomerID      string           `gorm:"type:varchar(64);not null;index" json:"customerId"`
	Status          BookingStatus    `gorm:"type:varchar(20);not null;index" json:"status"`
	Medications     []MedicationLine `gorm:"foreignKey:BookingID" json:"medications"`
	PrescriptionURL string           `gorm:"type:text" json:"prescriptionUrl,omitempty"`
	PickupTime      *time.Time       `json:"pickupTime,omitempty"`
	Notes           string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Validate checks a booking at intake.
func (b *Booking) Validate() error {
	if b.CustomerID == "" {
		return fmt.Errorf("%w: customer is required", ErrInvalidBooking)
	}
	if len(b.Medications) == 0 {
		return fmt.Errorf("%w: at least one medication is required", ErrInvalidBooking)
	}
	for _, line := range b.Medications {
		if line.MedicationID == "" || line.Quantity <= 0 {
			return fmt.Errorf("%w: medication %q has quantity %d", ErrInvalidBooking, line.MedicationID, line.Quantity)
		}
	}
	return nil
}

// Transition returns a copy of b moved to next, with UpdatedAt set to now.
// b itself is left untouched.
func (b Booking) Transition(next BookingStatus, now time.Time) (Booking, error) {
	if b.Status.IsTerminal() {
		return b, fmt.Errorf("%w: booking %s is %s", ErrInvalidTransition, b.ID, b.Status)
	}
	if !b.Status.CanTransitionTo(next) {
		return b, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}

	updated := b
	updated.Medications = slices.Clone(b.Medications)
	updated.Status = next
	updated.UpdatedAt = now
	return updated, nil
}

// StatusChange is the append-only history of applied transitions.
type StatusChange struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	BookingID  string        `gorm:"type:varchar(64);not null;index" json:"bookingId"`
	FromStatus BookingStatus `gorm:"type:varchar(20);not null" json:"from"`
	ToStatus   BookingStatus `gorm:"type:varchar(20);not null" json:"to"`
	ChangedAt  time.Time     `gorm:"not null" json:"changedAt"`
}

func (StatusChange) TableName() string {
	return "booking_status_changes"
}
