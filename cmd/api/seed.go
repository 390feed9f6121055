package main

import (
	"time"

	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"gorm.io/gorm"
)

func day(year int, month time.Month, d, hour, min int) time.Time {
	return time.Date(year, month, d, hour, min, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

// populateDatabase fills empty tables with the demo customers, bookings and conversations.
func populateDatabase(db *gorm.DB) error {
	var customerCount int64
	if err := db.Model(&domain.Customer{}).Count(&customerCount).Error; err != nil {
		return err
	}
	if customerCount > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		customers := []domain.Customer{
			{ID: "1", FullName: "Maria Rossi", PhoneNumber: "+39123456789", Email: "maria.rossi@example.com", Address: "Via Roma 123, Milano", CreatedAt: day(2023, 1, 15, 0, 0), UpdatedAt: day(2023, 1, 15, 0, 0)},
			{ID: "2", FullName: "Giuseppe Verdi", PhoneNumber: "+39987654321", CreatedAt: day(2023, 2, 20, 0, 0), UpdatedAt: day(2023, 2, 20, 0, 0)},
			{ID: "3", FullName: "Anna Bianchi", PhoneNumber: "+39456789123", Email: "anna.b@example.com", CreatedAt: day(2023, 3, 10, 0, 0), UpdatedAt: day(2023, 3, 10, 0, 0)},
		}
		if err := tx.Create(&customers).Error; err != nil {
			return err
		}

		bookings := []domain.Booking{
			{
				ID: "1", CustomerID: "1", Status: domain.StatusConfirmed,
				Medications: []domain.MedicationLine{{MedicationID: "1", Quantity: 2}},
				PickupTime:  ptr(day(2023, 5, 20, 14, 30)),
				CreatedAt:   day(2023, 5, 19, 0, 0), UpdatedAt: day(2023, 5, 19, 0, 0),
			},
			{
				ID: "2", CustomerID: "2", Status: domain.StatusPending,
				Medications: []domain.MedicationLine{{MedicationID: "2", Quantity: 1, Notes: "Serve la prescrizione"}},
				CreatedAt:   day(2023, 5, 20, 0, 0), UpdatedAt: day(2023, 5, 20, 0, 0),
			},
			{
				ID: "3", CustomerID: "3", Status: domain.StatusDelivered,
				Medications: []domain.MedicationLine{{MedicationID: "1", Quantity: 1}, {MedicationID: "3", Quantity: 1}},
				PickupTime:  ptr(day(2023, 5, 18, 10, 0)),
				CreatedAt:   day(2023, 5, 17, 0, 0), UpdatedAt: day(2023, 5, 18, 0, 0),
			},
			{
				ID: "4", CustomerID: "1", Status: domain.StatusCancelled,
				Medications: []domain.MedicationLine{{MedicationID: "2", Quantity: 1}},
				Notes:       "Cliente ha annullato la richiesta",
				CreatedAt:   day(2023, 5, 15, 0, 0), UpdatedAt: day(2023, 5, 16, 0, 0),
			},
		}
		if err := tx.Create(&bookings).Error; err != nil {
			return err
		}

		messages := []domain.Message{
			{ID: "1", From: "+39123456789", To: "+39000000000", Body: "Vorrei prenotare del Paracetamolo", Timestamp: day(2023, 5, 19, 9, 30), Direction: domain.DirectionIncoming, BookingID: ptr("1"), Processed: true},
			{ID: "2", From: "+39000000000", To: "+39123456789", Body: "La sua prenotazione è stata confermata. Può ritirare il farmaco alle 14:30 di domani.", Timestamp: day(2023, 5, 19, 9, 35), Direction: domain.DirectionOutgoing, BookingID: ptr("1"), Processed: true},
			{ID: "3", From: "+39987654321", To: "+39000000000", Body: "Ho bisogno di Amoxicillina. Ho la ricetta.", Timestamp: day(2023, 5, 20, 8, 15), Direction: domain.DirectionIncoming, BookingID: ptr("2"), Processed: true},
			{ID: "4", From: "+39000000000", To: "+39987654321", Body: "La sua richiesta è in elaborazione. La contatteremo per confermare.", Timestamp: day(2023, 5, 20, 8, 20), Direction: domain.DirectionOutgoing, BookingID: ptr("2"), Processed: true},
		}
		return tx.Create(&messages).Error
	})
}
